package line

import (
	"fmt"
	"io"

	"assembly-line-sim/internal/order"
)

// WriteReport 输出两个带标题的报表段落：先完成订单，后未完成订单
// itemWidth 是订单加载完成后计算出的行项目名列宽
func WriteReport(w io.Writer, state *State, itemWidth int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "=      Processed Orders (complete)     =")
	fmt.Fprintln(w, "========================================")
	state.Completed.Each(func(o *order.CustomerOrder) {
		o.Display(w, itemWidth)
	})

	fmt.Fprintln(w)
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "=     Processed Orders (incomplete)    =")
	fmt.Fprintln(w, "========================================")
	state.Incomplete.Each(func(o *order.CustomerOrder) {
		o.Display(w, itemWidth)
	})
}
