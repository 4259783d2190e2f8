package scoring

import (
	"time"

	"github.com/medmatch/medmatch/pkg/donation"
)

// ExpiryCheck penalizes donations whose expiry date is unreadable, past, or
// close to today.
type ExpiryCheck struct {
	InvalidPenalty      int // expiry date missing or malformed
	ExpiredPenalty      int // expiry date before today
	ExpiringSoonPenalty int // expiry date within ExpiringSoonDays
	ExpiringSoonDays    int
}

func (c *ExpiryCheck) Key() string  { return "expiry" }
func (c *ExpiryCheck) Name() string { return "Expiry date" }

func (c *ExpiryCheck) Evaluate(d donation.Record, today time.Time) []Finding {
	exp, err := d.ExpiryDate.Date()
	if err != nil {
		return []Finding{{Key: c.Key(), Points: c.InvalidPenalty, Issue: "Invalid expiryDate"}}
	}

	days := daysUntil(exp, today)
	switch {
	case days < 0:
		return []Finding{{Key: c.Key(), Points: c.ExpiredPenalty, Issue: "Expired"}}
	case days <= c.ExpiringSoonDays:
		return []Finding{{Key: c.Key(), Points: c.ExpiringSoonPenalty, Issue: "Expiring soon"}}
	}
	return nil
}
