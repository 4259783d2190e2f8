// Package scoring implements the donation matching engine. It flags likely
// fraudulent donations, scores how well each donation fits an NGO request
// and orders the annotated results for display.
package scoring

import "github.com/medmatch/medmatch/pkg/donation"

// Finding is a single triggered fraud rule.
type Finding struct {
	Key    string `json:"key"`    // check key: "expiry", "quantity", "completeness"
	Points int    `json:"points"` // penalty added to the fraud score
	Issue  string `json:"issue"`  // human-readable label
}

// FraudAssessment is the outcome of running every fraud check on a donation.
// Issues are in evaluation order, not sorted by severity.
type FraudAssessment struct {
	Score    int       `json:"score"`
	Issues   []string  `json:"issues"`
	Findings []Finding `json:"findings"`
}

// MatchAssessment is either an eligible score or the ineligible variant,
// produced when the medicine names differ. Use Eligible and Ineligible to
// build one; the zero value is ineligible.
type MatchAssessment struct {
	eligible bool
	score    int
}

// Eligible returns an eligible assessment with the given score.
func Eligible(score int) MatchAssessment {
	return MatchAssessment{eligible: true, score: score}
}

// Ineligible returns the ineligible assessment.
func Ineligible() MatchAssessment {
	return MatchAssessment{}
}

// IsEligible reports whether the donation passed the name gate.
func (m MatchAssessment) IsEligible() bool { return m.eligible }

// Score returns the score and whether the assessment is eligible.
func (m MatchAssessment) Score() (int, bool) { return m.score, m.eligible }

// DisplayScore converts the assessment to the score shown to users:
// ineligible maps to 0 and eligible scores are never negative.
func (m MatchAssessment) DisplayScore() int {
	if !m.eligible || m.score < 0 {
		return 0
	}
	return m.score
}

// RankedResult is one annotated donation in the ranking output. Field names
// are the ones the dashboard consumes; location is exposed as donorLocation.
type RankedResult struct {
	ID            donation.Value `json:"id"`
	MedicineName  donation.Value `json:"medicineName"`
	Quantity      donation.Value `json:"quantity"`
	ExpiryDate    donation.Value `json:"expiryDate"`
	DonorID       donation.Value `json:"donorId"`
	DonorLocation donation.Value `json:"donorLocation"`
	Status        donation.Value `json:"status"`
	FraudScore    int            `json:"fraudScore"`
	FraudIssues   []string       `json:"fraudIssues"`
	MatchScore    int            `json:"matchScore"`
	Recommended   bool           `json:"recommended"`
}

// Output defaults for absent donation fields.
var (
	DefaultMedicineName = donation.String("Unknown")
	DefaultQuantity     = donation.Int(0)
	DefaultStatus       = donation.String("Available")
	emptyText           = donation.String("")
)

// Donation statuses the dashboard groups results by.
const (
	StatusAvailable = "Available"
	StatusRequested = "Requested"
	StatusDelivered = "Delivered"
)
