package scoring

import (
	"time"

	"github.com/medmatch/medmatch/pkg/donation"
)

// ShelfLifeBand rewards donations that stay usable for longer. Each tier
// applies when the remaining days are strictly above its bound.
type ShelfLifeBand struct {
	LongPoints   int
	LongDays     int
	MediumPoints int
	MediumDays   int
	ShortPoints  int
	ShortDays    int
}

func (b *ShelfLifeBand) Key() string  { return "shelf_life" }
func (b *ShelfLifeBand) Name() string { return "Shelf life" }

func (b *ShelfLifeBand) Evaluate(_ donation.Profile, d donation.Record, today time.Time) int {
	exp, err := d.ExpiryDate.Date()
	if err != nil {
		return 0
	}

	days := daysUntil(exp, today)
	switch {
	case days > b.LongDays:
		return b.LongPoints
	case days > b.MediumDays:
		return b.MediumPoints
	case days > b.ShortDays:
		return b.ShortPoints
	}
	return 0
}
