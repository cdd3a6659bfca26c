package event

import (
	"sync"
)

// EventType 定义事件的类型
type EventType string

// 定义流水线上的所有业务事件类型
const (
	OrderAdmitted   EventType = "OrderAdmitted"   // 待处理订单被注入头站
	ItemFilled      EventType = "ItemFilled"      // 某工站成功填充一个行项目
	FillRejected    EventType = "FillRejected"    // 填充尝试因缺货失败
	OrderCompleted  EventType = "OrderCompleted"  // 订单走完线路且全部填充
	OrderIncomplete EventType = "OrderIncomplete" // 订单走完线路但有行项目未填充
	TickCompleted   EventType = "TickCompleted"   // 一次完整的仿真 tick 结束
)

// Event 结构体定义了事件的数据负载
// 只携带摘要字段，不携带订单指针——订单所有权始终属于某个队列
type Event struct {
	Type        EventType // 事件类型
	OrderID     string    // 关联的订单 ID
	Customer    string    // 客户名
	Product     string    // 产品名
	StationName string    // 关联的工站物品名 (仅填充相关事件)
	ItemName    string    // 被填充的行项目名 (仅填充相关事件)
	Serial      int       // 分配的序列号 (仅 ItemFilled)
	FilledItems int       // 已填充行项目数 (仅终端事件)
	TotalItems  int       // 行项目总数 (仅终端事件)
	Tick        int       // 发生该事件的 tick 序号
}

// Handler 是事件处理函数的签名
type Handler func(e Event)

// Bus 是一个简单的内存事件总线
// Publish 同步调用所有处理器：仿真是单一控制线程，
// 处理器必须在 tick 内观察到一致的状态快照
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus 创建一个新的事件总线实例
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe 订阅一个特定类型的事件
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish 发布一个事件，所有订阅了该事件类型的处理器依次被调用
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := b.handlers[e.Type]
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(e)
	}
}
