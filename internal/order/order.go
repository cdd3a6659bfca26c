package order

import (
	"fmt"
	"io"

	"assembly-line-sim/internal/tokenizer"
)

// Supplier 是订单填充时对库存节点的最小依赖
// 由 station.Station 实现，避免 order 与 station 包互相引用
type Supplier interface {
	ItemName() string
	Quantity() int
	ConsumeOneUnit()
	NextSerial() int
}

// Item 表示订单中的一个行项目：一件需要某种物品的需求
// 序列号在被填充之前没有意义
type Item struct {
	Name         string
	SerialNumber int
	Filled       bool
}

// noCopy 嵌入后可被 go vet 的 copylocks 检查捕获
// 用于在静态层面禁止订单被按值复制
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// CustomerOrder 表示一张客户订单
// 行项目数量在构造后不可变；订单只能以指针形式在队列之间移动，
// 复制会使序列号和填充状态出现两份"活"实例，因此被禁止
type CustomerOrder struct {
	noCopy  noCopy
	id      string
	name    string
	product string
	items   []*Item
}

// FillStatus 描述一次填充尝试的结果
type FillStatus int

const (
	// FillNotNeeded 订单在该工站没有待填充的行项目，静默跳过
	FillNotNeeded FillStatus = iota
	// FillApplied 成功消耗一件库存并填充了一个行项目
	FillApplied
	// FillStockout 有待填充的行项目但工站库存已耗尽
	FillStockout
)

// FillResult 返回给调用方，用于事件发布和指标统计
type FillResult struct {
	Status       FillStatus
	ItemName     string
	SerialNumber int
}

// Parse 从一条分隔记录构造订单: customerName, product, item1, item2, ...
// 前两个头部字段是必需的；其余每个字段都是一个行项目，零个行项目合法
func Parse(record string, tok *tokenizer.Tokenizer) (*CustomerOrder, error) {
	pos := 0

	name, more, err := tok.ExtractToken(record, &pos)
	if err != nil {
		return nil, fmt.Errorf("解析订单记录 %q 失败: %w", record, err)
	}
	if name == "" || !more {
		return nil, fmt.Errorf("订单记录 %q 缺少客户名或产品字段", record)
	}

	product, more, err := tok.ExtractToken(record, &pos)
	if err != nil {
		return nil, fmt.Errorf("解析订单记录 %q 失败: %w", record, err)
	}
	if product == "" {
		return nil, fmt.Errorf("订单记录 %q 缺少产品字段", record)
	}

	o := &CustomerOrder{name: name, product: product}
	for more {
		var item string
		item, more, err = tok.ExtractToken(record, &pos)
		if err != nil {
			return nil, fmt.Errorf("解析订单记录 %q 失败: %w", record, err)
		}
		if item == "" {
			break
		}
		o.items = append(o.items, &Item{Name: item})
	}
	return o, nil
}

// SetID 由加载器按文件顺序为订单分配一个运行期标识
func (o *CustomerOrder) SetID(id string) { o.id = id }

func (o *CustomerOrder) ID() string           { return o.id }
func (o *CustomerOrder) CustomerName() string { return o.name }
func (o *CustomerOrder) Product() string      { return o.product }
func (o *CustomerOrder) ItemCount() int       { return len(o.items) }

// FilledItemCount 返回已填充的行项目数量
func (o *CustomerOrder) FilledItemCount() int {
	filled := 0
	for _, it := range o.items {
		if it.Filled {
			filled++
		}
	}
	return filled
}

// IsOrderFilled 当且仅当所有行项目都已填充时为真
// 零行项目的订单视为已填充
func (o *CustomerOrder) IsOrderFilled() bool {
	for _, it := range o.items {
		if !it.Filled {
			return false
		}
	}
	return true
}

// IsItemFilled 仅当订单中存在同名且尚未填充的行项目时为假
// 没有该物品、或该物品已填充，都视为真——这是"该工站是否会阻塞此订单"的判定基础
func (o *CustomerOrder) IsItemFilled(itemName string) bool {
	for _, it := range o.items {
		if it.Name == itemName && !it.Filled {
			return false
		}
	}
	return true
}

// FillItem 在该工站对订单执行一次填充尝试
// 找到第一个与工站物品同名且未填充的行项目：
// 有库存则消耗一件、分配序列号并标记填充；无库存则记录 Unable to fill
// 没有匹配的未填充行项目时静默返回
func (o *CustomerOrder) FillItem(sup Supplier, w io.Writer) FillResult {
	for _, it := range o.items {
		if it.Name != sup.ItemName() || it.Filled {
			continue
		}
		if sup.Quantity() > 0 {
			sup.ConsumeOneUnit()
			it.SerialNumber = sup.NextSerial()
			it.Filled = true
			fmt.Fprintf(w, "    Filled %s, %s [%s]\n", o.name, o.product, it.Name)
			return FillResult{Status: FillApplied, ItemName: it.Name, SerialNumber: it.SerialNumber}
		}
		fmt.Fprintf(w, "    Unable to fill %s, %s [%s]\n", o.name, o.product, it.Name)
		return FillResult{Status: FillStockout, ItemName: it.Name}
	}
	return FillResult{Status: FillNotNeeded}
}

// Items 返回行项目的快照副本，供报表和归档使用
// 不暴露内部指针，避免外部绕过填充协议修改状态
func (o *CustomerOrder) Items() []Item {
	snapshot := make([]Item, len(o.items))
	for i, it := range o.items {
		snapshot[i] = *it
	}
	return snapshot
}

// Display 打印客户/产品头部和每个行项目的填充状态
// itemWidth 是加载完成后统一计算出的物品名列宽
func (o *CustomerOrder) Display(w io.Writer, itemWidth int) {
	fmt.Fprintf(w, "%s - %s\n", o.name, o.product)
	for _, it := range o.items {
		status := "TO BE FILLED"
		if it.Filled {
			status = "FILLED"
		}
		fmt.Fprintf(w, "[%06d] %-*s - %s\n", it.SerialNumber, itemWidth, it.Name, status)
	}
}
