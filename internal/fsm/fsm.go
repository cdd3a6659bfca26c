package fsm

import (
	"fmt"
	"sync"
)

// State 定义订单生命周期状态
type State string

// Event 定义生命周期事件
type Event string

const (
	StatePending    State = "PENDING"    // 尚未进入线路
	StateOnLine     State = "ON_LINE"    // 在某个工站的队列中
	StateCompleted  State = "COMPLETED"  // 到达线路末端且全部填充
	StateIncomplete State = "INCOMPLETE" // 到达线路末端但有未填充行项目
)

const (
	EventAdmit    Event = "ADMIT"    // 从待处理队列注入头站
	EventComplete Event = "COMPLETE" // 以完成状态离开线路
	EventFallOut  Event = "FALL_OUT" // 以未完成状态离开线路
)

// FSM 守护单张订单的生命周期转移
// 状态追踪器用它拒绝乱序事件（例如订单未注入就宣告完成）
type FSM struct {
	Current State
	OrderID string // 关联的订单 ID
	mu      sync.Mutex
	// transitions 定义状态转移表: CurrentState -> Event -> NextState
	transitions map[State]map[Event]State
}

// New 创建一个处于 PENDING 状态的生命周期状态机
func New(orderID string) *FSM {
	f := &FSM{
		Current:     StatePending,
		OrderID:     orderID,
		transitions: make(map[State]map[Event]State),
	}
	f.addTransition(StatePending, EventAdmit, StateOnLine)
	f.addTransition(StateOnLine, EventComplete, StateCompleted)
	f.addTransition(StateOnLine, EventFallOut, StateIncomplete)
	return f
}

func (f *FSM) addTransition(from State, event Event, to State) {
	if _, ok := f.transitions[from]; !ok {
		f.transitions[from] = make(map[Event]State)
	}
	f.transitions[from][event] = to
}

// Fire 触发事件，非法转移返回错误且状态保持不变
func (f *FSM) Fire(event Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, ok := f.transitions[f.Current][event]
	if !ok {
		return fmt.Errorf("invalid transition: cannot fire event %s from state %s", event, f.Current)
	}
	f.Current = next
	return nil
}

// Terminal 报告订单是否已到达终端状态
func (f *FSM) Terminal() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Current == StateCompleted || f.Current == StateIncomplete
}
