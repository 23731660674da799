package order

import (
	"strconv"
	"time"
)

// seriesLayout is YYMMDDhhmm.
const seriesLayout = "0601021504"

// NewSeries returns the base order number for an order created at t.
// It is unique only per minute; the identifier suffix makes it global.
func NewSeries(t time.Time) string {
	return t.Format(seriesLayout)
}

// FormatOrderNo appends the order identifier to the series.
func FormatOrderNo(series string, id int64) string {
	return series + strconv.FormatInt(id, 10)
}
