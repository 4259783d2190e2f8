package donation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrMissingProfile is returned when the request has no ngoProfile key.
	ErrMissingProfile = errors.New("missing ngoProfile")
	// ErrMissingDonations is returned when the request has no donations key.
	ErrMissingDonations = errors.New("missing donations")
)

// DecodeMatchRequest reads a match request from r. Both top-level keys are
// mandatory; a null or empty donations array is accepted and yields no
// donations.
func DecodeMatchRequest(r io.Reader) (*MatchRequest, error) {
	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding match request: %w", err)
	}
	profile, ok := envelope["ngoProfile"]
	if !ok {
		return nil, ErrMissingProfile
	}
	donations, ok := envelope["donations"]
	if !ok {
		return nil, ErrMissingDonations
	}

	req := &MatchRequest{}
	if err := json.Unmarshal(profile, &req.Profile); err != nil {
		return nil, fmt.Errorf("decoding ngoProfile: %w", err)
	}
	if err := json.Unmarshal(donations, &req.Donations); err != nil {
		return nil, fmt.Errorf("decoding donations: %w", err)
	}
	if req.Donations == nil {
		req.Donations = []Record{}
	}
	return req, nil
}

// LoadMatchRequest reads a match request from a file. The path "-" reads
// from stdin.
func LoadMatchRequest(path string) (*MatchRequest, error) {
	if path == "-" {
		return DecodeMatchRequest(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening match request: %w", err)
	}
	defer f.Close()

	return DecodeMatchRequest(f)
}
