package station

import (
	"io"

	"assembly-line-sim/internal/order"
	"assembly-line-sim/internal/tokenizer"
)

// Workstation 在 Station 之上增加在途订单队列和指向下一工站的链接
// next 是非拥有性引用，线路拓扑是一条单链（由邻接文件构造，无环）；
// 所有 Workstation 由线路管理器的集合统一持有
type Workstation struct {
	Station
	orders order.Queue
	next   *Workstation
}

// NewWorkstation 从一条分隔记录构造工作站
// 记录格式与 Station 相同；队列为空，next 为 nil，由线路管理器链接
func NewWorkstation(id int, record string, tok *tokenizer.Tokenizer) (*Workstation, error) {
	s, err := New(id, record, tok)
	if err != nil {
		return nil, err
	}
	return &Workstation{Station: *s}, nil
}

// Enqueue 将订单移入本站队尾
// 既用于头站的外部注入，也用于上游工站的转发
func (w *Workstation) Enqueue(o *order.CustomerOrder) {
	w.orders.PushBack(o)
}

// QueueLen 返回当前在本站排队的订单数量
func (w *Workstation) QueueLen() int {
	return w.orders.Len()
}

// SetNext 设置下一工站链接
func (w *Workstation) SetNext(next *Workstation) {
	w.next = next
}

// Next 返回下一工站，线路末端为 nil
func (w *Workstation) Next() *Workstation {
	return w.next
}

// Fill 对当前排队的每张订单执行恰好一次填充尝试
// 每个 tick 每张在场订单至多一次尝试；结果按队列顺序返回，
// 供线路管理器发布事件和统计指标
func (w *Workstation) Fill(sink io.Writer) []FillOutcome {
	var outcomes []FillOutcome
	w.orders.Each(func(o *order.CustomerOrder) {
		result := o.FillItem(&w.Station, sink)
		outcomes = append(outcomes, FillOutcome{Order: o, Result: result})
	})
	return outcomes
}

// FillOutcome 记录一次填充尝试作用于哪张订单
type FillOutcome struct {
	Order  *order.CustomerOrder
	Result order.FillResult
}

// AttemptAdvance 尝试将队首订单移出本站
// 队首订单在本站的行项目已填充、或本站库存已耗尽时才转发——
// 库存耗尽不等待补货；仍可填充的订单留在原地等下一个 tick
// 有下一站则入其队尾，否则按 IsOrderFilled 分类进入完成或未完成终端队列
// 返回被移动的订单；队列为空或队首订单尚不能转发时返回 nil
func (w *Workstation) AttemptAdvance(completed, incomplete *order.Queue) *order.CustomerOrder {
	front, ok := w.orders.Front()
	if !ok {
		return nil
	}
	if !front.IsItemFilled(w.ItemName()) && w.Quantity() > 0 {
		return nil
	}
	o, _ := w.orders.PopFront()
	if w.next != nil {
		w.next.Enqueue(o)
	} else if o.IsOrderFilled() {
		completed.PushBack(o)
	} else {
		incomplete.PushBack(o)
	}
	return o
}
