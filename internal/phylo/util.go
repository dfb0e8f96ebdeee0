package phylo

import "math"

var negInf = math.Inf(-1)

// logOrNegInf returns log(x), or -Inf for x<=0 rather than NaN/+Inf
// surprises, since callers treat -Inf as "impossible under this model"
// (see the RECON_LIKELIHOOD / all-scores-minus-infinity fallback in
// internal/treescore).
func logOrNegInf(x float64) float64 {
	if x <= 0 {
		return negInf
	}
	return math.Log(x)
}
