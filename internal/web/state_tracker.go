package web

import (
	"log/slog"
	"sync"

	"assembly-line-sim/internal/fsm"
)

// OrderState 定义了用于 UI 展示的订单状态
// 这是一个简化的视图，只包含前端需要的数据
type OrderState struct {
	ID          string `json:"id"`
	Customer    string `json:"customer"`
	Product     string `json:"product"`
	Station     string `json:"station,omitempty"` // 当前所在工站，入线前和离线后为空
	Status      string `json:"status"`
	FilledItems int    `json:"filled_items"`
	TotalItems  int    `json:"total_items"`
}

// StationState 是单个工站的实时快照
type StationState struct {
	Name      string `json:"name"`
	Inventory int    `json:"inventory"`
	QueueLen  int    `json:"queue_len"`
}

// LineState 代表整条流水线的实时状态快照
type LineState struct {
	Tick     int                   `json:"tick"`
	Stations []StationState        `json:"stations"`
	Orders   map[string]OrderState `json:"orders"`
}

// StateTracker 负责追踪所有订单的实时状态，并通知前端更新
// 每张订单挂一个生命周期状态机，拒绝乱序到达的事件
type StateTracker struct {
	mu         sync.RWMutex
	state      LineState
	hub        *Hub
	lifecycles map[string]*fsm.FSM
}

// NewStateTracker 创建一个新的 StateTracker 实例
func NewStateTracker(hub *Hub) *StateTracker {
	return &StateTracker{
		state:      LineState{Orders: make(map[string]OrderState)},
		hub:        hub,
		lifecycles: make(map[string]*fsm.FSM),
	}
}

// AddPending 在加载阶段登记一张待处理订单
func (st *StateTracker) AddPending(id, customer, product string, totalItems int) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.state.Orders[id] = OrderState{
		ID:         id,
		Customer:   customer,
		Product:    product,
		Status:     string(fsm.StatePending),
		TotalItems: totalItems,
	}
	st.lifecycles[id] = fsm.New(id)
	st.hub.BroadcastState(st.state)
}

// MarkAdmitted 订单被注入头站
func (st *StateTracker) MarkAdmitted(id, headStation string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.fire(id, fsm.EventAdmit); err != nil {
		return
	}
	if o, ok := st.state.Orders[id]; ok {
		o.Station = headStation
		o.Status = string(fsm.StateOnLine)
		st.state.Orders[id] = o
	}
	st.hub.BroadcastState(st.state)
}

// MarkFillAttempt 更新订单当前所在的工站；filled 为真时累计已填充数
func (st *StateTracker) MarkFillAttempt(id, stationName string, filled bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if o, ok := st.state.Orders[id]; ok {
		o.Station = stationName
		if filled {
			o.FilledItems++
		}
		st.state.Orders[id] = o
	}
	st.hub.BroadcastState(st.state)
}

// MarkFinished 订单离开线路进入终端队列
func (st *StateTracker) MarkFinished(id string, completed bool, filledItems int) {
	st.mu.Lock()
	defer st.mu.Unlock()

	ev := fsm.EventFallOut
	status := fsm.StateIncomplete
	if completed {
		ev = fsm.EventComplete
		status = fsm.StateCompleted
	}
	if err := st.fire(id, ev); err != nil {
		return
	}
	if o, ok := st.state.Orders[id]; ok {
		o.Station = ""
		o.Status = string(status)
		o.FilledItems = filledItems
		st.state.Orders[id] = o
	}
	st.hub.BroadcastState(st.state)
}

// UpdateLine 由运行循环在每个 tick 结束后调用，刷新工站快照
func (st *StateTracker) UpdateLine(tick int, stations []StationState) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.state.Tick = tick
	st.state.Stations = stations
	st.hub.BroadcastState(st.state)
}

// fire 触发订单生命周期事件；乱序事件只告警不更新
func (st *StateTracker) fire(id string, ev fsm.Event) error {
	lc, ok := st.lifecycles[id]
	if !ok {
		slog.Warn("未登记的订单事件", "order_id", id, "event", ev)
		return nil
	}
	if err := lc.Fire(ev); err != nil {
		slog.Warn("订单生命周期事件乱序", "order_id", id, "event", ev, "error", err)
		return err
	}
	return nil
}

// GetStateSnapshot 返回当前全局状态的一个深拷贝副本
// 用于新客户端连接时获取一次全量数据
func (st *StateTracker) GetStateSnapshot() LineState {
	st.mu.RLock()
	defer st.mu.RUnlock()

	snapshot := LineState{
		Tick:     st.state.Tick,
		Stations: append([]StationState(nil), st.state.Stations...),
		Orders:   make(map[string]OrderState, len(st.state.Orders)),
	}
	for id, o := range st.state.Orders {
		snapshot.Orders[id] = o
	}
	return snapshot
}
