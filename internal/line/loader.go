package line

import (
	"bufio"
	"fmt"
	"os"

	"assembly-line-sim/internal/order"
	"assembly-line-sim/internal/station"
	"assembly-line-sim/internal/tokenizer"
)

// readRecords 逐行读取文件，跳过空行
func readRecords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开文件 %s: %w", path, err)
	}
	defer file.Close()

	var records []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			records = append(records, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取文件 %s 失败: %w", path, err)
	}
	return records, nil
}

// LoadWorkstations 从一个工站文件加载工作站
// 每个文件使用自己的分隔符；id 从 idOffset+1 起按文件顺序分配
// 任何一条记录解析失败都会中止整个文件的加载
func LoadWorkstations(path string, delimiter byte, idOffset int) ([]*station.Workstation, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}

	tok := tokenizer.New(delimiter)
	stations := make([]*station.Workstation, 0, len(records))
	for i, record := range records {
		ws, err := station.NewWorkstation(idOffset+i+1, record, tok)
		if err != nil {
			return nil, fmt.Errorf("加载工站文件 %s 失败: %w", path, err)
		}
		stations = append(stations, ws)
	}
	return stations, nil
}

// LoadOrders 从订单文件加载客户订单，并按文件顺序分配运行期 ID
// 任何一条记录解析失败都会中止整个文件的加载
func LoadOrders(path string, delimiter byte) ([]*order.CustomerOrder, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}

	tok := tokenizer.New(delimiter)
	orders := make([]*order.CustomerOrder, 0, len(records))
	for i, record := range records {
		o, err := order.Parse(record, tok)
		if err != nil {
			return nil, fmt.Errorf("加载订单文件 %s 失败: %w", path, err)
		}
		o.SetID(fmt.Sprintf("ORD-%03d", i+1))
		orders = append(orders, o)
	}
	return orders, nil
}

// StationNameWidth 在全部加载完成后计算工站物品名的列宽
// 纯函数，替代解析过程中的共享可变宽度状态
func StationNameWidth(stations []*station.Workstation) int {
	width := 0
	for _, ws := range stations {
		if len(ws.ItemName()) > width {
			width = len(ws.ItemName())
		}
	}
	return width
}

// ItemNameWidth 计算所有订单行项目名的列宽，用于订单展示对齐
func ItemNameWidth(orders []*order.CustomerOrder) int {
	width := 0
	for _, o := range orders {
		for _, it := range o.Items() {
			if len(it.Name) > width {
				width = len(it.Name)
			}
		}
	}
	return width
}
