package scoring

import (
	"time"

	"github.com/medmatch/medmatch/pkg/donation"
)

// CompletenessCheck penalizes each required field that is absent or falsy.
// A falsy quantity of 0 is reported here as well as by QuantityCheck.
type CompletenessCheck struct {
	Fields  []string // wire names, checked in order
	Penalty int      // per missing field
}

func (c *CompletenessCheck) Key() string  { return "completeness" }
func (c *CompletenessCheck) Name() string { return "Completeness" }

func (c *CompletenessCheck) Evaluate(d donation.Record, _ time.Time) []Finding {
	var findings []Finding
	for _, f := range c.Fields {
		if d.Field(f).Truthy() {
			continue
		}
		findings = append(findings, Finding{
			Key:    c.Key(),
			Points: c.Penalty,
			Issue:  "Missing " + f,
		})
	}
	return findings
}
