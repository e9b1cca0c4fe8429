// Package numerics provides float64 precision constants and
// significant-digit formatting.
package numerics

import "fmt"

// Precision limits of float64.
const (
	Eps  = 0x1p-52   // smallest e for which 1+e != 1
	Eps1 = 1 + Eps   // smallest representable value above 1
	Tiny = 0x1p-1074 // smallest representable value above 0
)

// SigDig formats num with at most dig significant digits. Trailing
// zeros are dropped, so fewer digits may show. The value is nudged up
// by one ulp first, which keeps border cases like 0.075 from rounding
// down to 0.07 at one digit. Use dig = 14 to strip accumulated
// rounding errors without losing real precision.
func SigDig(num float64, dig int) string {
	return fmt.Sprintf("%.*g", dig, num*Eps1)
}
