package order

// Queue 是订单的先进先出队列
// 订单始终以指针形式在队列之间转移——入队即移交所有权，
// 任何时刻一张订单恰好属于一个队列
type Queue struct {
	orders []*CustomerOrder
}

// PushBack 将订单移入队尾
func (q *Queue) PushBack(o *CustomerOrder) {
	q.orders = append(q.orders, o)
}

// PopFront 移出并返回队首订单
func (q *Queue) PopFront() (*CustomerOrder, bool) {
	if len(q.orders) == 0 {
		return nil, false
	}
	o := q.orders[0]
	q.orders[0] = nil // 不保留已移出订单的引用
	q.orders = q.orders[1:]
	return o, true
}

// Front 返回队首订单但不移出
func (q *Queue) Front() (*CustomerOrder, bool) {
	if len(q.orders) == 0 {
		return nil, false
	}
	return q.orders[0], true
}

// Len 返回队列中的订单数量
func (q *Queue) Len() int {
	return len(q.orders)
}

// Each 按队列顺序遍历所有订单
func (q *Queue) Each(fn func(*CustomerOrder)) {
	for _, o := range q.orders {
		fn(o)
	}
}
