package line

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"assembly-line-sim/internal/event"
	"assembly-line-sim/internal/order"
	"assembly-line-sim/internal/station"
	"assembly-line-sim/internal/tokenizer"
)

// stationLink 是邻接文件中的一条记录: 工站名和可选的下一站名
type stationLink struct {
	name string
	next string
}

// LineManager 解析工站邻接描述，构建有序的活动线路，
// 定位唯一的头站，并驱动逐 tick 推进整条流水线的循环
type LineManager struct {
	activeLine []*station.Workstation
	first      *station.Workstation
	orderCount int // 构造时待处理订单总数，固定本次运行的终止目标
	iteration  int
	nameWidth  int
	state      *State
	logger     *slog.Logger
	bus        *event.Bus
}

// NewLineManager 读取邻接描述并把工作站链接成一条线路
// 每行一条 stationName[, nextStationName] 记录；
// 名字无法解析的记录跳过链接；找不到头站或头站不唯一是构造错误
func NewLineManager(
	topology io.Reader,
	stations []*station.Workstation,
	state *State,
	tok *tokenizer.Tokenizer,
	logger *slog.Logger,
	bus *event.Bus,
) (*LineManager, error) {
	m := &LineManager{
		state:     state,
		logger:    logger.With("component", "line_manager"),
		bus:       bus,
		nameWidth: StationNameWidth(stations),
	}

	links, err := parseLinks(topology, tok)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*station.Workstation, len(stations))
	for _, ws := range stations {
		byName[ws.ItemName()] = ws
	}

	// 按文件顺序解析并链接；未解析的工站名只跳过该条记录
	nextNames := make(map[string]bool)
	for _, link := range links {
		current, ok := byName[link.name]
		if !ok {
			m.logger.Warn("邻接记录中的工站名无法解析, 已跳过", "station", link.name)
			continue
		}
		current.SetNext(byName[link.next]) // 下一站名缺失或未解析时为 nil
		m.activeLine = append(m.activeLine, current)
		if link.next != "" {
			nextNames[link.next] = true
		}
	}

	// 头站: 唯一一个从未作为任何记录的 nextStationName 出现的工作站
	var heads []*station.Workstation
	for _, ws := range m.activeLine {
		if !nextNames[ws.ItemName()] {
			heads = append(heads, ws)
		}
	}
	switch len(heads) {
	case 0:
		return nil, fmt.Errorf("线路拓扑中找不到头站")
	case 1:
		m.first = heads[0]
	default:
		return nil, fmt.Errorf("线路拓扑中头站不唯一, 候选 %d 个", len(heads))
	}

	m.orderCount = state.Pending.Len()

	m.logger.Info("线路初始化完成",
		"stations", len(m.activeLine),
		"pending_orders", m.orderCount,
		"first_station", m.first.ItemName())
	return m, nil
}

// parseLinks 通过 Tokenizer 逐行解析邻接记录
func parseLinks(topology io.Reader, tok *tokenizer.Tokenizer) ([]stationLink, error) {
	var links []stationLink
	scanner := bufio.NewScanner(topology)
	for scanner.Scan() {
		record := scanner.Text()
		if record == "" {
			continue
		}
		pos := 0
		name, more, err := tok.ExtractToken(record, &pos)
		if err != nil {
			return nil, fmt.Errorf("解析邻接记录 %q 失败: %w", record, err)
		}
		link := stationLink{name: name}
		if more {
			next, _, err := tok.ExtractToken(record, &pos)
			if err != nil {
				return nil, fmt.Errorf("解析邻接记录 %q 失败: %w", record, err)
			}
			link.next = next
		}
		links = append(links, link)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取线路拓扑失败: %w", err)
	}
	return links, nil
}

// ReorderStations 从头站沿 next 链重建活动线路的顺序
// 将迭代顺序规范为真实拓扑顺序而不是文件顺序
func (m *LineManager) ReorderStations() {
	var reordered []*station.Workstation
	for ws := m.first; ws != nil; ws = ws.Next() {
		reordered = append(reordered, ws)
	}
	m.activeLine = reordered
}

// Run 执行一次同步仿真 tick:
//  1. 待处理队列非空时把队首订单移入头站
//  2. 按线路顺序对每个工作站调用 Fill
//  3. 按线路顺序对每个工作站调用 AttemptAdvance
//
// 同一 tick 内所有站先完成填充、再有任何站推进订单，
// 因此一张订单不会在一个 tick 里于两个工站先填充又前移
// 当完成数加未完成数等于构造时记录的总数时返回 true
func (m *LineManager) Run(w io.Writer) bool {
	m.iteration++
	fmt.Fprintf(w, "Line Manager Iteration: %d\n", m.iteration)

	if o, ok := m.state.Pending.PopFront(); ok {
		m.first.Enqueue(o)
		m.bus.Publish(event.Event{
			Type:        event.OrderAdmitted,
			OrderID:     o.ID(),
			Customer:    o.CustomerName(),
			Product:     o.Product(),
			StationName: m.first.ItemName(),
			Tick:        m.iteration,
		})
	}

	for _, ws := range m.activeLine {
		for _, oc := range ws.Fill(w) {
			m.publishFill(ws, oc)
		}
	}

	for _, ws := range m.activeLine {
		moved := ws.AttemptAdvance(&m.state.Completed, &m.state.Incomplete)
		if moved != nil && ws.Next() == nil {
			m.publishTerminal(moved)
		}
	}

	done := m.state.FinishedCount() == m.orderCount
	m.bus.Publish(event.Event{Type: event.TickCompleted, Tick: m.iteration})
	if done {
		m.logger.Info("所有订单处理完毕",
			"completed", m.state.Completed.Len(),
			"incomplete", m.state.Incomplete.Len(),
			"ticks", m.iteration)
	}
	return done
}

func (m *LineManager) publishFill(ws *station.Workstation, oc station.FillOutcome) {
	e := event.Event{
		OrderID:     oc.Order.ID(),
		Customer:    oc.Order.CustomerName(),
		Product:     oc.Order.Product(),
		StationName: ws.ItemName(),
		ItemName:    oc.Result.ItemName,
		Tick:        m.iteration,
	}
	switch oc.Result.Status {
	case order.FillApplied:
		e.Type = event.ItemFilled
		e.Serial = oc.Result.SerialNumber
	case order.FillStockout:
		e.Type = event.FillRejected
	default:
		return // 与本站无关的尝试不产生事件
	}
	m.bus.Publish(e)
}

func (m *LineManager) publishTerminal(o *order.CustomerOrder) {
	e := event.Event{
		OrderID:     o.ID(),
		Customer:    o.CustomerName(),
		Product:     o.Product(),
		FilledItems: o.FilledItemCount(),
		TotalItems:  o.ItemCount(),
		Tick:        m.iteration,
	}
	if o.IsOrderFilled() {
		e.Type = event.OrderCompleted
	} else {
		e.Type = event.OrderIncomplete
	}
	m.bus.Publish(e)
}

// Display 按活动线路顺序渲染每个工作站的状态行
func (m *LineManager) Display(w io.Writer, full bool) {
	for _, ws := range m.activeLine {
		ws.Display(w, full, m.nameWidth)
	}
}

// ActiveLine 返回活动线路的工作站切片，供状态快照和归档使用
func (m *LineManager) ActiveLine() []*station.Workstation {
	return m.activeLine
}

// First 返回头站
func (m *LineManager) First() *station.Workstation {
	return m.first
}

// State 返回本次运行的仿真状态
func (m *LineManager) State() *State {
	return m.state
}

// OrderCount 返回构造时记录的订单总数
func (m *LineManager) OrderCount() int {
	return m.orderCount
}

// Iteration 返回已执行的 tick 数
func (m *LineManager) Iteration() int {
	return m.iteration
}
