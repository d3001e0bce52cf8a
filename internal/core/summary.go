package core

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the result of a successful calculation.
type Summary struct {
	Items   []FeeItem
	Total   decimal.Decimal
	Display string // Total passed through FormatNumber
	Period  string
}

// Summarize folds items into a total and formats it for display.
func Summarize(items []FeeItem, now time.Time) Summary {
	total := Sum(items)
	return Summary{
		Items:   items,
		Total:   total,
		Display: FormatNumber(total.InexactFloat64()),
		Period:  PeriodLabel(now),
	}
}

// PeriodLabel returns "T<month>/<year>" for t. The month is not zero-padded:
// October 2026 is "T10/2026", March is "T3/2026".
func PeriodLabel(t time.Time) string {
	return "T" + strconv.Itoa(int(t.Month())) + "/" + strconv.Itoa(t.Year())
}

// ShowTotal reports whether a formatted total is worth displaying. An empty
// total or a zero total hides the Total and Date lines.
func ShowTotal(display string) bool {
	return display != "" && display != "0"
}
