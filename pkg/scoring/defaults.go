package scoring

// DefaultFraudChecks returns the standard fraud checks in evaluation order:
// expiry, quantity, then completeness.
func DefaultFraudChecks(w Weights) []FraudCheck {
	return []FraudCheck{
		&ExpiryCheck{
			InvalidPenalty:      w.InvalidExpiryPenalty,
			ExpiredPenalty:      w.ExpiredPenalty,
			ExpiringSoonPenalty: w.ExpiringSoonPenalty,
			ExpiringSoonDays:    w.ExpiringSoonDays,
		},
		&QuantityCheck{
			ParsePenalty:   w.QuantityParsePenalty,
			HighPenalty:    w.HighQuantityPenalty,
			HighThreshold:  w.HighQuantityThreshold,
			InvalidPenalty: w.InvalidQuantityPenalty,
		},
		&CompletenessCheck{
			Fields:  append([]string(nil), w.RequiredFields...),
			Penalty: w.MissingFieldPenalty,
		},
	}
}

// DefaultMatchBands returns the standard match bands.
func DefaultMatchBands(w Weights) []MatchBand {
	return []MatchBand{
		&LocationBand{Points: w.LocationMatchPoints},
		&QuantityBand{
			ExactPoints: w.ExactQuantityPoints,
			NearPoints:  w.NearQuantityPoints,
			NearMaxDiff: w.NearQuantityMaxDiff,
		},
		&ShelfLifeBand{
			LongPoints:   w.LongShelfLifePoints,
			LongDays:     w.LongShelfLifeDays,
			MediumPoints: w.MediumShelfLifePoints,
			MediumDays:   w.MediumShelfLifeDays,
			ShortPoints:  w.ShortShelfLifePoints,
			ShortDays:    w.ShortShelfLifeDays,
		},
	}
}
