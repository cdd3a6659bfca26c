package line

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}
	return path
}

func TestLoadWorkstations_AssignsIDsInOrder(t *testing.T) {
	path := writeFile(t, "stations.txt", "Wheel,100,2,Front wheel\nSeat,200,1\n\nFrame,300,5\n")

	stations, err := LoadWorkstations(path, ',', 3)
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if len(stations) != 3 {
		t.Fatalf("空行应跳过, 预期 3 个工站, 得到 %d", len(stations))
	}
	for i, wantID := range []int{4, 5, 6} {
		if stations[i].ID() != wantID {
			t.Errorf("工站 %d 的 id 预期 %d, 得到 %d", i, wantID, stations[i].ID())
		}
	}
}

func TestLoadWorkstations_MalformedRecordAborts(t *testing.T) {
	path := writeFile(t, "stations.txt", "Wheel,100,2\nSeat,not-a-number,1\n")

	if _, err := LoadWorkstations(path, ',', 0); err == nil {
		t.Fatalf("数值字段非法应中止整个文件的加载")
	}
}

func TestLoadWorkstations_MissingFile(t *testing.T) {
	if _, err := LoadWorkstations("no/such/file.txt", ',', 0); err == nil {
		t.Fatalf("文件不存在应报错")
	}
}

func TestLoadOrders_AssignsRunIDs(t *testing.T) {
	path := writeFile(t, "orders.txt", "Alice,Bike,Wheel,Seat\nBob,Cart,Wheel\n")

	orders, err := LoadOrders(path, ',')
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("预期 2 张订单, 得到 %d", len(orders))
	}
	if orders[0].ID() != "ORD-001" || orders[1].ID() != "ORD-002" {
		t.Errorf("订单 ID 应按文件顺序分配: %q, %q", orders[0].ID(), orders[1].ID())
	}
}

func TestLoadOrders_EmptyFieldAborts(t *testing.T) {
	path := writeFile(t, "orders.txt", "Alice,Bike,Wheel\nBob,,Wheel\n")

	if _, err := LoadOrders(path, ','); err == nil {
		t.Fatalf("空字段应中止整个文件的加载")
	}
}

func TestNameWidths(t *testing.T) {
	stations, err := LoadWorkstations(
		writeFile(t, "stations.txt", "Wheel,1,1\nOffice Chair,2,1\n"), ',', 0)
	if err != nil {
		t.Fatalf("加载工站失败: %v", err)
	}
	if got := StationNameWidth(stations); got != len("Office Chair") {
		t.Errorf("工站名宽度预期 %d, 得到 %d", len("Office Chair"), got)
	}

	orders, err := LoadOrders(
		writeFile(t, "orders.txt", "Alice,Bike,Wheel,Handlebar Grip\n"), ',')
	if err != nil {
		t.Fatalf("加载订单失败: %v", err)
	}
	if got := ItemNameWidth(orders); got != len("Handlebar Grip") {
		t.Errorf("行项目名宽度预期 %d, 得到 %d", len("Handlebar Grip"), got)
	}
}
