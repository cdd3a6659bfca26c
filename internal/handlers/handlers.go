package handlers

import (
	"log/slog"

	"assembly-line-sim/internal/event"
	"assembly-line-sim/internal/metrics"
	"assembly-line-sim/internal/web"
)

// RegisterEventHandlers 将所有事件处理器注册到事件总线
// 这是事件驱动架构的核心，将不同的业务关注点（监控、UI、日志）解耦
func RegisterEventHandlers(bus *event.Bus, st *web.StateTracker, logger *slog.Logger) {
	// --- 指标处理器 (Metrics Handler) ---
	// 订单注入头站，待处理数减一
	bus.Subscribe(event.OrderAdmitted, func(e event.Event) {
		metrics.OrdersPending.Dec()
	})
	// 填充成功/缺货计数
	bus.Subscribe(event.ItemFilled, func(e event.Event) {
		metrics.FillAttemptsTotal.WithLabelValues("filled", e.StationName).Inc()
	})
	bus.Subscribe(event.FillRejected, func(e event.Event) {
		metrics.FillAttemptsTotal.WithLabelValues("stockout", e.StationName).Inc()
	})
	// 终端订单按结果计数
	bus.Subscribe(event.OrderCompleted, func(e event.Event) {
		metrics.OrdersFinishedTotal.WithLabelValues("completed").Inc()
	})
	bus.Subscribe(event.OrderIncomplete, func(e event.Event) {
		metrics.OrdersFinishedTotal.WithLabelValues("incomplete").Inc()
	})
	bus.Subscribe(event.TickCompleted, func(e event.Event) {
		metrics.TicksTotal.Inc()
	})

	// --- Web UI 处理器 (Web UI Handler) ---
	bus.Subscribe(event.OrderAdmitted, func(e event.Event) {
		st.MarkAdmitted(e.OrderID, e.StationName)
	})
	bus.Subscribe(event.ItemFilled, func(e event.Event) {
		st.MarkFillAttempt(e.OrderID, e.StationName, true)
	})
	bus.Subscribe(event.FillRejected, func(e event.Event) {
		st.MarkFillAttempt(e.OrderID, e.StationName, false)
	})
	bus.Subscribe(event.OrderCompleted, func(e event.Event) {
		st.MarkFinished(e.OrderID, true, e.FilledItems)
	})
	bus.Subscribe(event.OrderIncomplete, func(e event.Event) {
		st.MarkFinished(e.OrderID, false, e.FilledItems)
	})

	// --- 日志处理器 (Logging Handler) ---
	// 订阅关键业务事件，记录审计日志
	bus.Subscribe(event.FillRejected, func(e event.Event) {
		logger.Warn("工站缺货", "station", e.StationName,
			"order_id", e.OrderID, "item", e.ItemName, "tick", e.Tick)
	})
	bus.Subscribe(event.OrderCompleted, func(e event.Event) {
		logger.Info("订单完成下线", "order_id", e.OrderID,
			"customer", e.Customer, "product", e.Product, "tick", e.Tick)
	})
	bus.Subscribe(event.OrderIncomplete, func(e event.Event) {
		logger.Warn("订单未完成下线", "order_id", e.OrderID,
			"customer", e.Customer, "product", e.Product,
			"filled", e.FilledItems, "total", e.TotalItems, "tick", e.Tick)
	})
}
