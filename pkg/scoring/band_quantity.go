package scoring

import (
	"time"

	"github.com/medmatch/medmatch/pkg/donation"
)

// QuantityBand rewards donations whose quantity is close to the requested
// one.
type QuantityBand struct {
	ExactPoints int // requested == donated
	NearPoints  int // 1 <= |requested - donated| <= NearMaxDiff
	NearMaxDiff int
}

func (b *QuantityBand) Key() string  { return "quantity" }
func (b *QuantityBand) Name() string { return "Quantity proximity" }

func (b *QuantityBand) Evaluate(p donation.Profile, d donation.Record, _ time.Time) int {
	requested, err := p.MedicineRequest.Quantity.Int()
	if err != nil {
		return 0
	}
	donated, err := d.Quantity.Int()
	if err != nil {
		return 0
	}

	diff, ok := absDiff(requested, donated)
	switch {
	case !ok:
		return 0
	case diff == 0:
		return b.ExactPoints
	case diff <= b.NearMaxDiff:
		return b.NearPoints
	}
	return 0
}

// absDiff returns |a - b|, or false when the difference does not fit in an int.
func absDiff(a, b int) (int, bool) {
	if a < b {
		a, b = b, a
	}
	diff := a - b
	if diff < 0 {
		return 0, false
	}
	return diff, true
}
