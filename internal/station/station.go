package station

import (
	"fmt"
	"io"
	"strconv"

	"assembly-line-sim/internal/tokenizer"
)

// Station 是流水线上持有库存的节点
// id 由加载器按创建顺序分配；quantity 单调不增；
// serial 单调不减，每次成功填充后置递增一次
type Station struct {
	id          int
	itemName    string
	serial      int
	quantity    int
	description string
}

// New 从一条分隔记录构造工站: name[, serial[, quantity[, description]]]
// 尾部字段可省略，缺省为零值/空串；数值字段格式错误是致命的构造错误
func New(id int, record string, tok *tokenizer.Tokenizer) (*Station, error) {
	s := &Station{id: id}
	pos := 0

	name, more, err := tok.ExtractToken(record, &pos)
	if err != nil {
		return nil, fmt.Errorf("构造工站失败, 记录 %q: %w", record, err)
	}
	if name == "" {
		return nil, fmt.Errorf("构造工站失败, 记录 %q: 缺少物品名", record)
	}
	s.itemName = name

	if more {
		field, m, err := tok.ExtractToken(record, &pos)
		if err != nil {
			return nil, fmt.Errorf("构造工站失败, 记录 %q: %w", record, err)
		}
		if s.serial, err = strconv.Atoi(field); err != nil {
			return nil, fmt.Errorf("构造工站失败, 记录 %q: 序列号 %q 不是数字", record, field)
		}
		more = m
	}
	if more {
		field, m, err := tok.ExtractToken(record, &pos)
		if err != nil {
			return nil, fmt.Errorf("构造工站失败, 记录 %q: %w", record, err)
		}
		if s.quantity, err = strconv.Atoi(field); err != nil {
			return nil, fmt.Errorf("构造工站失败, 记录 %q: 数量 %q 不是数字", record, field)
		}
		more = m
	}
	if more {
		field, _, err := tok.ExtractToken(record, &pos)
		if err != nil {
			return nil, fmt.Errorf("构造工站失败, 记录 %q: %w", record, err)
		}
		s.description = field
	}
	return s, nil
}

func (s *Station) ID() int             { return s.id }
func (s *Station) ItemName() string    { return s.itemName }
func (s *Station) Quantity() int       { return s.quantity }
func (s *Station) Description() string { return s.description }

// NextSerial 返回当前序列号并递增计数器
func (s *Station) NextSerial() int {
	serial := s.serial
	s.serial++
	return serial
}

// ConsumeOneUnit 库存大于零时扣减一件；已经为零时是空操作而非错误
func (s *Station) ConsumeOneUnit() {
	if s.quantity > 0 {
		s.quantity--
	}
}

// Display 渲染固定宽度的一行: 三位零填充 id、按 nameWidth 左对齐的物品名、
// 六位零填充序列号；full 为真时追加数量和描述
func (s *Station) Display(w io.Writer, full bool, nameWidth int) {
	fmt.Fprintf(w, "%03d | %-*s | %06d | ", s.id, nameWidth, s.itemName, s.serial)
	if full {
		fmt.Fprintf(w, "%4d | %s", s.quantity, s.description)
	}
	fmt.Fprintln(w)
}
