package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 定义 Prometheus 监控指标
var (
	// OrdersPending 仪表盘：尚未进入线路的订单数量
	OrdersPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "line_orders_pending",
		Help: "The number of orders waiting to enter the assembly line",
	})

	// FillAttemptsTotal 计数器：填充尝试总数
	// 按结果 (filled/stockout) 和工站分类
	FillAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "line_fill_attempts_total",
		Help: "The total number of fill attempts by result",
	}, []string{"result", "station"})

	// OrdersFinishedTotal 计数器：到达终端队列的订单总数
	// 按结果 (completed/incomplete) 分类
	OrdersFinishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "line_orders_finished_total",
		Help: "The total number of orders that exited the line",
	}, []string{"outcome"})

	// StationInventory 仪表盘：各工站的剩余库存
	StationInventory = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "line_station_inventory",
		Help: "Remaining inventory per station",
	}, []string{"station"})

	// TicksTotal 计数器：已执行的仿真 tick 总数
	TicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "line_ticks_total",
		Help: "The total number of simulation ticks executed",
	})
)
