package render

import (
	"math"
	"math/bits"
	"strconv"
)

// Percent returns ceil(count/total*100) using exact integer math.
// count <= 0 or total <= 0 yields 0. Values above 100 are not clamped;
// results that do not fit in an int64 saturate at math.MaxInt64.
func Percent(count, total int64) int64 {
	if count <= 0 || total <= 0 {
		return 0
	}
	q, r := count/total, count%total
	if q > (math.MaxInt64-100)/100 {
		return math.MaxInt64
	}

	// ceil(r*100/total) in 128 bits; r < total keeps the quotient <= 100.
	hi, lo := bits.Mul64(uint64(r), 100)
	lo, carry := bits.Add64(lo, uint64(total-1), 0)
	frac, _ := bits.Div64(hi+carry, lo, uint64(total))
	return q*100 + int64(frac)
}

// Width formats a percent as a CSS width.
func Width(percent int64) string {
	return strconv.FormatInt(percent, 10) + "%"
}
