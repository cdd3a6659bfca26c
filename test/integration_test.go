package test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"assembly-line-sim/internal/event"
	"assembly-line-sim/internal/handlers"
	"assembly-line-sim/internal/line"
	"assembly-line-sim/internal/order"
	"assembly-line-sim/internal/persistence"
	"assembly-line-sim/internal/station"
	"assembly-line-sim/internal/tokenizer"
	"assembly-line-sim/internal/web"
)

type testApp struct {
	manager *line.LineManager
	state   *line.State
	tracker *web.StateTracker
	archive *persistence.Archive
	server  *httptest.Server
	out     bytes.Buffer
}

// setupTestApp 用临时数据文件组装一个完整的应用实例
func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("写入测试数据失败: %v", err)
		}
		return path
	}

	// 两个工站文件使用不同的分隔符, 与真实输入一致
	stations1 := write("Stations1.txt", "Wheel,100,3,Standard bicycle wheel\nSeat,200,1\n")
	stations2 := write("Stations2.txt", "Frame | 300 | 5 | Aluminium frame\n")
	ordersFile := write("CustomerOrders.txt",
		"Alice,Bike,Wheel,Frame,Seat\nBob,Bike,Wheel,Frame,Seat\nCarol,Unicycle,Wheel,Frame\n")
	topology := write("AssemblyLine.txt", "Wheel|Frame\nFrame|Seat\nSeat\n")

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	hub := web.NewHub()
	go hub.Run()
	tracker := web.NewStateTracker(hub)
	bus := event.NewBus()
	handlers.RegisterEventHandlers(bus, tracker, logger)

	archive, err := persistence.Open(filepath.Join(dir, "test.archive"))
	if err != nil {
		t.Fatalf("无法打开归档: %v", err)
	}
	t.Cleanup(func() { archive.Close() })

	var workstations []*station.Workstation
	for _, f := range []struct {
		path  string
		delim byte
	}{{stations1, ','}, {stations2, '|'}} {
		loaded, err := line.LoadWorkstations(f.path, f.delim, len(workstations))
		if err != nil {
			t.Fatalf("加载工站失败: %v", err)
		}
		workstations = append(workstations, loaded...)
	}

	orders, err := line.LoadOrders(ordersFile, ',')
	if err != nil {
		t.Fatalf("加载订单失败: %v", err)
	}

	state := &line.State{}
	for _, o := range orders {
		tracker.AddPending(o.ID(), o.CustomerName(), o.Product(), o.ItemCount())
		state.Pending.PushBack(o)
	}

	topoFile, err := os.Open(topology)
	if err != nil {
		t.Fatalf("打开拓扑文件失败: %v", err)
	}
	defer topoFile.Close()
	manager, err := line.NewLineManager(topoFile, workstations, state,
		tokenizer.New('|'), logger, bus)
	if err != nil {
		t.Fatalf("构造线路失败: %v", err)
	}
	manager.ReorderStations()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWs)
	mux.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tracker.GetStateSnapshot())
	})
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		records, err := archive.LoadOrders()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		filtered, err := persistence.FilterOrders(records, r.URL.Query().Get("filter"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(filtered)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testApp{
		manager: manager,
		state:   state,
		tracker: tracker,
		archive: archive,
		server:  server,
	}
}

func (app *testApp) runSimulation(t *testing.T) {
	t.Helper()
	for i := 0; ; i++ {
		if app.manager.Run(&app.out) {
			return
		}
		if i > 100 {
			t.Fatalf("仿真未在合理 tick 数内结束")
		}
	}
}

func (app *testApp) saveArchive(t *testing.T) {
	t.Helper()
	save := func(completed bool) func(*order.CustomerOrder) {
		return func(o *order.CustomerOrder) {
			err := app.archive.SaveOrder(persistence.OrderRecord{
				RunID:       "itest",
				OrderID:     o.ID(),
				Customer:    o.CustomerName(),
				Product:     o.Product(),
				Completed:   completed,
				FilledItems: o.FilledItemCount(),
				TotalItems:  o.ItemCount(),
			})
			if err != nil {
				t.Fatalf("归档失败: %v", err)
			}
		}
	}
	app.state.Completed.Each(save(true))
	app.state.Incomplete.Each(save(false))
}

func TestEndToEnd_PartitionAndSerials(t *testing.T) {
	app := setupTestApp(t)
	app.runSimulation(t)

	// Seat 库存只有 1 件: Alice 完成, Bob 因 Seat 缺货未完成,
	// Carol 不需要 Seat, 正常完成
	if app.state.Completed.Len() != 2 || app.state.Incomplete.Len() != 1 {
		t.Fatalf("预期 2 完成 1 未完成, 得到 %d/%d",
			app.state.Completed.Len(), app.state.Incomplete.Len())
	}

	incomplete, _ := app.state.Incomplete.Front()
	if incomplete.CustomerName() != "Bob" {
		t.Errorf("未完成订单预期 Bob, 得到 %q", incomplete.CustomerName())
	}
	if !strings.Contains(app.out.String(), "Unable to fill Bob, Bike [Seat]") {
		t.Errorf("应输出 Bob 的缺货日志")
	}

	// Wheel 工站从种子 100 开始严格递增, 三张订单各消耗一件
	var wheelSerials []int
	collect := func(o *order.CustomerOrder) {
		for _, it := range o.Items() {
			if it.Name == "Wheel" && it.Filled {
				wheelSerials = append(wheelSerials, it.SerialNumber)
			}
		}
	}
	app.state.Completed.Each(collect)
	app.state.Incomplete.Each(collect)
	if len(wheelSerials) != 3 {
		t.Fatalf("预期 3 个已填充的 Wheel, 得到 %d", len(wheelSerials))
	}
	seen := make(map[int]bool)
	for _, s := range wheelSerials {
		if s < 100 || s > 102 || seen[s] {
			t.Errorf("Wheel 序列号应是 100..102 且互不重复, 得到 %v", wheelSerials)
			break
		}
		seen[s] = true
	}
}

func TestEndToEnd_StateEndpoint(t *testing.T) {
	app := setupTestApp(t)
	app.runSimulation(t)

	resp, err := http.Get(app.server.URL + "/api/state")
	if err != nil {
		t.Fatalf("请求状态端点失败: %v", err)
	}
	defer resp.Body.Close()

	var snap web.LineState
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("解析状态失败: %v", err)
	}
	if len(snap.Orders) != 3 {
		t.Fatalf("状态中预期 3 张订单, 得到 %d", len(snap.Orders))
	}
	terminal := 0
	for _, o := range snap.Orders {
		if o.Status == "COMPLETED" || o.Status == "INCOMPLETE" {
			terminal++
		}
	}
	if terminal != 3 {
		t.Errorf("所有订单都应到达终端状态, 得到 %d", terminal)
	}
}

func TestEndToEnd_ArchiveQuery(t *testing.T) {
	app := setupTestApp(t)
	app.runSimulation(t)
	app.saveArchive(t)

	resp, err := http.Get(app.server.URL + "/api/orders?filter=" +
		"%21record.Completed")
	if err != nil {
		t.Fatalf("查询归档失败: %v", err)
	}
	defer resp.Body.Close()

	var records []persistence.OrderRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatalf("解析归档记录失败: %v", err)
	}
	if len(records) != 1 || records[0].Customer != "Bob" {
		t.Fatalf("过滤结果预期只有 Bob, 得到 %+v", records)
	}
	if records[0].FilledItems != 2 || records[0].TotalItems != 3 {
		t.Errorf("Bob 的填充计数预期 2/3, 得到 %d/%d",
			records[0].FilledItems, records[0].TotalItems)
	}

	// 非法的过滤规则返回 400
	resp, err = http.Get(app.server.URL + "/api/orders?filter=record.Customer%20%2B")
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("非法规则预期 400, 得到 %d", resp.StatusCode)
	}
}
