package scoring

import (
	"time"

	"github.com/medmatch/medmatch/pkg/donation"
)

// QuantityCheck penalizes unreadable, implausibly large, or non-positive
// donated quantities.
type QuantityCheck struct {
	ParsePenalty   int
	HighPenalty    int
	HighThreshold  int // quantities strictly above this are suspicious
	InvalidPenalty int // zero or negative quantity
}

func (c *QuantityCheck) Key() string  { return "quantity" }
func (c *QuantityCheck) Name() string { return "Quantity" }

func (c *QuantityCheck) Evaluate(d donation.Record, _ time.Time) []Finding {
	q, err := d.Quantity.Int()
	if err != nil {
		return []Finding{{Key: c.Key(), Points: c.ParsePenalty, Issue: "Qty parse error"}}
	}

	switch {
	case q > c.HighThreshold:
		return []Finding{{Key: c.Key(), Points: c.HighPenalty, Issue: "High quantity"}}
	case q <= 0:
		return []Finding{{Key: c.Key(), Points: c.InvalidPenalty, Issue: "Invalid quantity"}}
	}
	return nil
}
