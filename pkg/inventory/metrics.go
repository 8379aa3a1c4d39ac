package inventory

import "math"

// ComputeMetrics fills the derived per-row quality fields on every
// record: abs_diff = |qty_diff| and accuracy = clamp(1 - abs_diff /
// qty_physical, 0, 1). Accuracy is null when qty_physical is zero; never
// an exception, never coerced to zero. Pure post-merge pass.
func ComputeMetrics(records []Record) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		rec.AbsDiff = math.Abs(rec.QtyDiff)
		rec.Accuracy = accuracy(rec.AbsDiff, rec.QtyPhysical)
		out[i] = rec
	}
	return out
}

func accuracy(absDiff, qtyPhysical float64) *float64 {
	if qtyPhysical == 0 {
		return nil
	}
	a := 1 - absDiff/qtyPhysical
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return &a
}
