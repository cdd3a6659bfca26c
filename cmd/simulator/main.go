package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assembly-line-sim/internal/config"
	"assembly-line-sim/internal/event"
	"assembly-line-sim/internal/handlers"
	"assembly-line-sim/internal/line"
	"assembly-line-sim/internal/metrics"
	"assembly-line-sim/internal/order"
	"assembly-line-sim/internal/persistence"
	"assembly-line-sim/internal/station"
	"assembly-line-sim/internal/tokenizer"
	"assembly-line-sim/internal/util"
	"assembly-line-sim/internal/web"
)

// main 是应用程序的主入口
func main() {
	// 1. 加载配置并初始化核心组件
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("加载配置失败", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	runID := util.NewRunID()
	logger = logger.With("run_id", runID)
	logger.Info("=== 流水线仿真系统启动 ===")

	hub := web.NewHub()
	go hub.Run()
	stateTracker := web.NewStateTracker(hub)

	eventBus := event.NewBus()
	handlers.RegisterEventHandlers(eventBus, stateTracker, logger)

	var archive *persistence.Archive
	if cfg.ArchiveEnabled {
		archive, err = persistence.Open(cfg.ArchivePath)
		if err != nil {
			// 归档失败不中止仿真
			logger.Warn("无法打开归档文件, 本次运行不归档", "error", err, "path", cfg.ArchivePath)
			archive = nil
		} else {
			defer archive.Close()
		}
	}

	// 2. 加载工站、订单和线路拓扑
	stations, err := loadStations(cfg, logger)
	if err != nil {
		logger.Error("加载工站失败", "error", err)
		os.Exit(1)
	}

	orders, err := line.LoadOrders(cfg.OrdersFile.Path, mustDelim(cfg.OrdersFile, logger))
	if err != nil {
		logger.Error("加载订单失败", "error", err)
		os.Exit(1)
	}
	logger.Info("数据加载完成", "stations", len(stations), "orders", len(orders))

	state := &line.State{}
	for _, o := range orders {
		stateTracker.AddPending(o.ID(), o.CustomerName(), o.Product(), o.ItemCount())
		metrics.OrdersPending.Inc()
		state.Pending.PushBack(o)
	}

	manager, err := buildLineManager(cfg, stations, state, logger, eventBus)
	if err != nil {
		logger.Error("初始化线路失败", "error", err)
		os.Exit(1)
	}
	manager.ReorderStations()

	// 3. 启动状态端点
	go startAPIServer(cfg.HTTPAddr, hub, stateTracker, archive, logger)

	// 4. 驱动仿真循环直到所有订单到达终端队列
	manager.Display(os.Stdout, true)
	tickDelay := time.Duration(cfg.TickDelayMs) * time.Millisecond
	for !manager.Run(os.Stdout) {
		publishSnapshot(manager, stateTracker)
		if tickDelay > 0 {
			time.Sleep(tickDelay)
		}
	}
	publishSnapshot(manager, stateTracker)

	// 5. 输出报表并归档；归档失败只告警，不影响仿真结果
	itemWidth := line.ItemNameWidth(append(queueOrders(&state.Completed), queueOrders(&state.Incomplete)...))
	line.WriteReport(os.Stdout, state, itemWidth)

	if archive != nil {
		saveArchive(archive, runID, manager, state, logger)
	}

	// 6. 等待退出信号，留给观察者查询状态端点的窗口
	logger.Info("仿真结束, 按 Ctrl-C 退出",
		"completed", state.Completed.Len(),
		"incomplete", state.Incomplete.Len(),
		"ticks", manager.Iteration())
	waitForShutdown(logger)
}

// parseLogLevel 将配置中的级别字符串转换为 slog 级别
func parseLogLevel(level string) slog.Level {
	switch level {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func mustDelim(f config.FileSpec, logger *slog.Logger) byte {
	d, err := f.Delim()
	if err != nil {
		logger.Error("分隔符配置非法", "error", err)
		os.Exit(1)
	}
	return d
}

// loadStations 按配置顺序加载全部工站文件，id 跨文件连续分配
func loadStations(cfg *config.Config, logger *slog.Logger) ([]*station.Workstation, error) {
	var stations []*station.Workstation
	for _, f := range cfg.StationFiles {
		loaded, err := line.LoadWorkstations(f.Path, mustDelim(f, logger), len(stations))
		if err != nil {
			return nil, err
		}
		logger.Info("加载工站文件", "path", f.Path, "count", len(loaded))
		stations = append(stations, loaded...)
	}
	return stations, nil
}

func buildLineManager(
	cfg *config.Config,
	stations []*station.Workstation,
	state *line.State,
	logger *slog.Logger,
	bus *event.Bus,
) (*line.LineManager, error) {
	file, err := os.Open(cfg.LineFile.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return line.NewLineManager(file, stations, state,
		tokenizer.New(mustDelim(cfg.LineFile, logger)), logger, bus)
}

// publishSnapshot 把工站队列长度和库存推给状态追踪器
func publishSnapshot(manager *line.LineManager, st *web.StateTracker) {
	stations := make([]web.StationState, 0, len(manager.ActiveLine()))
	for _, ws := range manager.ActiveLine() {
		stations = append(stations, web.StationState{
			Name:      ws.ItemName(),
			Inventory: ws.Quantity(),
			QueueLen:  ws.QueueLen(),
		})
		metrics.StationInventory.WithLabelValues(ws.ItemName()).Set(float64(ws.Quantity()))
	}
	st.UpdateLine(manager.Iteration(), stations)
}

func queueOrders(q *order.Queue) []*order.CustomerOrder {
	orders := make([]*order.CustomerOrder, 0, q.Len())
	q.Each(func(o *order.CustomerOrder) {
		orders = append(orders, o)
	})
	return orders
}

// saveArchive 运行结束后归档每张终端订单和每个工站的快照
func saveArchive(
	archive *persistence.Archive,
	runID string,
	manager *line.LineManager,
	state *line.State,
	logger *slog.Logger,
) {
	saveOrder := func(o *order.CustomerOrder, completed bool) {
		err := archive.SaveOrder(persistence.OrderRecord{
			RunID:       runID,
			OrderID:     o.ID(),
			Customer:    o.CustomerName(),
			Product:     o.Product(),
			Completed:   completed,
			FilledItems: o.FilledItemCount(),
			TotalItems:  o.ItemCount(),
		})
		if err != nil {
			logger.Warn("归档订单失败", "error", err, "order_id", o.ID())
		}
	}
	state.Completed.Each(func(o *order.CustomerOrder) { saveOrder(o, true) })
	state.Incomplete.Each(func(o *order.CustomerOrder) { saveOrder(o, false) })

	for _, ws := range manager.ActiveLine() {
		err := archive.SaveStation(persistence.StationRecord{
			RunID:     runID,
			Station:   ws.ItemName(),
			Inventory: ws.Quantity(),
		})
		if err != nil {
			logger.Warn("归档工站快照失败", "error", err, "station", ws.ItemName())
		}
	}

	if rate, err := archive.CompletionRate(); err == nil {
		logger.Info("归档完成", "completion_rate", rate)
	}
}

// startAPIServer 启动指标和状态查询服务器
func startAPIServer(
	addr string,
	hub *web.Hub,
	st *web.StateTracker,
	archive *persistence.Archive,
	logger *slog.Logger,
) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws", hub.ServeWs)
	mux.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(st.GetStateSnapshot())
	})
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		if archive == nil {
			http.Error(w, "archive disabled", http.StatusNotFound)
			return
		}
		records, err := archive.LoadOrders()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		// filter 参数是一条 expr 规则, 例:
		//   record.Completed && record.FilledItems > 0
		filtered, err := persistence.FilterOrders(records, r.URL.Query().Get("filter"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(filtered)
	})

	logger.Info("状态端点启动", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("状态端点启动失败", "error", err)
	}
}

// waitForShutdown 等待系统信号退出
func waitForShutdown(logger *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("接收到停机信号, 系统退出")
}
