package scoring

// Summary aggregates a ranked list for dashboards and run history.
type Summary struct {
	Total         int `json:"total"`
	Recommended   int `json:"recommended"`
	Other         int `json:"other"`
	Flagged       int `json:"flagged"`   // fraud score above zero
	Unmatched     int `json:"unmatched"` // match score of zero
	TopMatchScore int `json:"top_match_score"`

	// Dashboard groups, keyed on the donation status.
	AvailableRecommended int `json:"available_recommended"`
	AvailableOther       int `json:"available_other"`
	Delivered            int `json:"delivered"`
}

// Summarize counts the results of a ranking.
func Summarize(results []RankedResult) Summary {
	s := Summary{Total: len(results)}

	for _, r := range results {
		if r.Recommended {
			s.Recommended++
		} else {
			s.Other++
		}
		if r.FraudScore > 0 {
			s.Flagged++
		}
		if r.MatchScore == 0 {
			s.Unmatched++
		}
		if r.MatchScore > s.TopMatchScore {
			s.TopMatchScore = r.MatchScore
		}

		switch r.Status.Text() {
		case StatusAvailable:
			if r.Recommended {
				s.AvailableRecommended++
			} else {
				s.AvailableOther++
			}
		case StatusDelivered:
			s.Delivered++
		}
	}

	return s
}
