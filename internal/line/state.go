package line

import (
	"assembly-line-sim/internal/order"
)

// State 是一次仿真运行的显式状态：三个全局订单队列
// 每张已注入的订单在任意时刻恰好属于 pending、某个工站队列、
// completed、incomplete 四者之一——这是整个仿真的核心安全不变量
// State 由 LineManager 持有，每次运行各自独立，不使用进程级全局变量
type State struct {
	Pending    order.Queue // 尚未进入线路的订单
	Completed  order.Queue // 走完线路且全部填充的订单
	Incomplete order.Queue // 走完线路但有未填充行项目的订单
}

// FinishedCount 返回已到达终端队列的订单总数
func (s *State) FinishedCount() int {
	return s.Completed.Len() + s.Incomplete.Len()
}
