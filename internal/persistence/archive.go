package persistence

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"
)

// OrderRecord 是一张终端订单的归档记录
type OrderRecord struct {
	RunID       string `json:"run_id"`       // 本次仿真运行的标识
	OrderID     string `json:"order_id"`     // 订单的运行期 ID
	Customer    string `json:"customer"`     // 客户名
	Product     string `json:"product"`      // 产品名
	Completed   bool   `json:"completed"`    // 是否全部填充
	FilledItems int    `json:"filled_items"` // 已填充行项目数
	TotalItems  int    `json:"total_items"`  // 行项目总数
}

// StationRecord 是一个工站在运行结束时的快照
type StationRecord struct {
	RunID     string `json:"run_id"`    // 本次仿真运行的标识
	Station   string `json:"station"`   // 工站物品名
	Inventory int    `json:"inventory"` // 剩余库存
}

// entry 是归档文件中的一行，order 和 station 二选一
type entry struct {
	Type    string         `json:"type"` // "ORDER" 或 "STATION"
	Order   *OrderRecord   `json:"order,omitempty"`
	Station *StationRecord `json:"station,omitempty"`
}

// Archive 以 JSON 行的形式持久化终端订单和工站快照
// 写入失败不会影响仿真结果——调用方只记录警告
type Archive struct {
	file *os.File   // 归档文件句柄
	mu   sync.Mutex // 互斥锁，保证文件写入的原子性
}

// Open 创建或打开一个归档文件
func Open(path string) (*Archive, error) {
	// O_APPEND: 追加写入, O_CREATE: 文件不存在则创建, O_RDWR: 读写模式
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	return &Archive{file: file}, nil
}

func (a *Archive) append(e entry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err = a.file.Write(append(data, '\n')); err != nil {
		return err
	}
	// 确保数据被刷新到磁盘
	return a.file.Sync()
}

// SaveOrder 归档一条终端订单记录
func (a *Archive) SaveOrder(rec OrderRecord) error {
	return a.append(entry{Type: "ORDER", Order: &rec})
}

// SaveStation 归档一个工站快照
func (a *Archive) SaveStation(rec StationRecord) error {
	return a.append(entry{Type: "STATION", Station: &rec})
}

// LoadOrders 从归档文件读出全部订单记录，供后续查询
func (a *Archive) LoadOrders() ([]OrderRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.file.Seek(0, 0); err != nil {
		return nil, err
	}

	var records []OrderRecord
	scanner := bufio.NewScanner(a.file)
	for scanner.Scan() {
		var e entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			// 忽略损坏的行
			continue
		}
		if e.Type == "ORDER" && e.Order != nil {
			records = append(records, *e.Order)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// 恢复文件指针到末尾，以便后续追加写入
	if _, err := a.file.Seek(0, 2); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadStations 从归档文件读出全部工站快照
func (a *Archive) LoadStations() ([]StationRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.file.Seek(0, 0); err != nil {
		return nil, err
	}

	var records []StationRecord
	scanner := bufio.NewScanner(a.file)
	for scanner.Scan() {
		var e entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		if e.Type == "STATION" && e.Station != nil {
			records = append(records, *e.Station)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if _, err := a.file.Seek(0, 2); err != nil {
		return nil, err
	}
	return records, nil
}

// CompletionRate 返回归档中订单的完成率 (百分比)
func (a *Archive) CompletionRate() (float64, error) {
	records, err := a.LoadOrders()
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	completed := 0
	for _, rec := range records {
		if rec.Completed {
			completed++
		}
	}
	return float64(completed) * 100 / float64(len(records)), nil
}

// Close 关闭归档文件
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}
