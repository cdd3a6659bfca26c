package persistence

import (
	"fmt"

	"github.com/antonmedv/expr"
)

// FilterOrders 用一条 expr 规则过滤归档订单记录
// 规则在 {record} 环境下求值，必须产生布尔结果
// 例: record.Completed && record.FilledItems == record.TotalItems
// 空规则返回全部记录；规则非法返回错误，由调用方决定如何上报
func FilterOrders(records []OrderRecord, rule string) ([]OrderRecord, error) {
	if rule == "" {
		return records, nil
	}

	env := map[string]interface{}{"record": OrderRecord{}}
	program, err := expr.Compile(rule, expr.Env(env))
	if err != nil {
		return nil, fmt.Errorf("rule compilation failed: %w", err)
	}

	var matched []OrderRecord
	for _, rec := range records {
		result, err := expr.Run(program, map[string]interface{}{"record": rec})
		if err != nil {
			return nil, fmt.Errorf("rule execution failed: %w", err)
		}
		keep, ok := result.(bool)
		if !ok {
			return nil, fmt.Errorf("rule result is not a boolean")
		}
		if keep {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}
