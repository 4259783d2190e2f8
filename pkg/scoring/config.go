package scoring

import (
	"errors"
	"fmt"

	"github.com/medmatch/medmatch/pkg/donation"
)

// Weights holds every penalty, band and threshold used by the engine.
type Weights struct {
	// Fraud: expiry check
	InvalidExpiryPenalty int `yaml:"invalid_expiry_penalty"`
	ExpiredPenalty       int `yaml:"expired_penalty"`
	ExpiringSoonPenalty  int `yaml:"expiring_soon_penalty"`
	ExpiringSoonDays     int `yaml:"expiring_soon_days"` // inclusive upper bound

	// Fraud: quantity check
	QuantityParsePenalty   int `yaml:"quantity_parse_penalty"`
	HighQuantityPenalty    int `yaml:"high_quantity_penalty"`
	HighQuantityThreshold  int `yaml:"high_quantity_threshold"` // strictly above is high
	InvalidQuantityPenalty int `yaml:"invalid_quantity_penalty"`

	// Fraud: completeness check
	MissingFieldPenalty int      `yaml:"missing_field_penalty"`
	RequiredFields      []string `yaml:"required_fields"`

	// Match: location band
	LocationMatchPoints int `yaml:"location_match_points"`

	// Match: quantity band
	ExactQuantityPoints int `yaml:"exact_quantity_points"`
	NearQuantityPoints  int `yaml:"near_quantity_points"`
	NearQuantityMaxDiff int `yaml:"near_quantity_max_diff"`

	// Match: expiry band, days strictly above each bound
	LongShelfLifePoints   int `yaml:"long_shelf_life_points"`
	LongShelfLifeDays     int `yaml:"long_shelf_life_days"`
	MediumShelfLifePoints int `yaml:"medium_shelf_life_points"`
	MediumShelfLifeDays   int `yaml:"medium_shelf_life_days"`
	ShortShelfLifePoints  int `yaml:"short_shelf_life_points"`
	ShortShelfLifeDays    int `yaml:"short_shelf_life_days"`

	// Ranking
	RecommendThreshold int `yaml:"recommend_threshold"`
}

// Defaults returns the default scoring weights.
func Defaults() Weights {
	return Weights{
		InvalidExpiryPenalty: 20,
		ExpiredPenalty:       30,
		ExpiringSoonPenalty:  15,
		ExpiringSoonDays:     7,

		QuantityParsePenalty:   20,
		HighQuantityPenalty:    25,
		HighQuantityThreshold:  500,
		InvalidQuantityPenalty: 20,

		MissingFieldPenalty: 10,
		RequiredFields: []string{
			donation.FieldMedicineName,
			donation.FieldExpiryDate,
			donation.FieldQuantity,
			donation.FieldLocation,
		},

		LocationMatchPoints: 20,

		ExactQuantityPoints: 20,
		NearQuantityPoints:  10,
		NearQuantityMaxDiff: 5,

		LongShelfLifePoints:   15,
		LongShelfLifeDays:     180,
		MediumShelfLifePoints: 10,
		MediumShelfLifeDays:   90,
		ShortShelfLifePoints:  5,
		ShortShelfLifeDays:    30,

		RecommendThreshold: 10,
	}
}

// MaxMatchScore is the best score an eligible donation can reach.
func (w Weights) MaxMatchScore() int {
	return w.LocationMatchPoints + max(w.ExactQuantityPoints, w.NearQuantityPoints) +
		max(w.LongShelfLifePoints, w.MediumShelfLifePoints, w.ShortShelfLifePoints)
}

// Validate rejects weights that would break the engine's invariants.
func (w Weights) Validate() error {
	var errs []error

	nonNegative := []struct {
		name  string
		value int
	}{
		{"invalid_expiry_penalty", w.InvalidExpiryPenalty},
		{"expired_penalty", w.ExpiredPenalty},
		{"expiring_soon_penalty", w.ExpiringSoonPenalty},
		{"expiring_soon_days", w.ExpiringSoonDays},
		{"quantity_parse_penalty", w.QuantityParsePenalty},
		{"high_quantity_penalty", w.HighQuantityPenalty},
		{"invalid_quantity_penalty", w.InvalidQuantityPenalty},
		{"missing_field_penalty", w.MissingFieldPenalty},
		{"location_match_points", w.LocationMatchPoints},
		{"exact_quantity_points", w.ExactQuantityPoints},
		{"near_quantity_points", w.NearQuantityPoints},
		{"near_quantity_max_diff", w.NearQuantityMaxDiff},
		{"long_shelf_life_points", w.LongShelfLifePoints},
		{"medium_shelf_life_points", w.MediumShelfLifePoints},
		{"short_shelf_life_points", w.ShortShelfLifePoints},
		{"recommend_threshold", w.RecommendThreshold},
	}
	for _, p := range nonNegative {
		if p.value < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %d", p.name, p.value))
		}
	}

	if w.HighQuantityThreshold < 1 {
		errs = append(errs, fmt.Errorf("high_quantity_threshold must be at least 1, got %d", w.HighQuantityThreshold))
	}
	if !(w.ShortShelfLifeDays <= w.MediumShelfLifeDays && w.MediumShelfLifeDays <= w.LongShelfLifeDays) {
		errs = append(errs, fmt.Errorf("shelf life bounds must be ordered short <= medium <= long, got %d/%d/%d",
			w.ShortShelfLifeDays, w.MediumShelfLifeDays, w.LongShelfLifeDays))
	}
	for _, f := range w.RequiredFields {
		if !knownField(f) {
			errs = append(errs, fmt.Errorf("unknown required field %q", f))
		}
	}

	return errors.Join(errs...)
}

func knownField(name string) bool {
	switch name {
	case donation.FieldID, donation.FieldMedicineName, donation.FieldExpiryDate,
		donation.FieldQuantity, donation.FieldDonorID, donation.FieldLocation, donation.FieldStatus:
		return true
	}
	return false
}
