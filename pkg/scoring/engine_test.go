package scoring_test

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/medmatch/medmatch/pkg/donation"
	"github.com/medmatch/medmatch/pkg/scoring"
)

func ids(results []scoring.RankedResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID.Text()
	}
	return out
}

func TestEngineRank_PerfectMatchIsRecommended(t *testing.T) {
	engine := scoring.DefaultEngine(scoring.WithClock(fixedClock))

	results := engine.Rank(paracetamolProfile(), []donation.Record{cleanDonation()})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	r := results[0]
	if r.MatchScore != 55 {
		t.Errorf("expected match score 55, got %d", r.MatchScore)
	}
	if !r.Recommended {
		t.Error("expected recommended")
	}
	if r.FraudScore != 0 || len(r.FraudIssues) != 0 {
		t.Errorf("expected no fraud, got %d %v", r.FraudScore, r.FraudIssues)
	}
	if r.DonorLocation.Text() != "Delhi" {
		t.Errorf("expected donorLocation Delhi, got %q", r.DonorLocation.Text())
	}
}

func TestEngineRank_ExpiryCountsCalendarDays(t *testing.T) {
	engine := scoring.DefaultEngine(scoring.WithClock(fixedClock))

	tests := []struct {
		name       string
		expiry     donation.Value
		wantIssues []string
		wantMatch  int
	}{
		{"expires today", dateIn(0), []string{"Expiring soon"}, 40},
		{"expires in eight days", dateIn(8), []string{}, 40},
		{"expires in 181 days", dateIn(181), []string{}, 55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := cleanDonation()
			d.ExpiryDate = tt.expiry

			r := engine.Rank(paracetamolProfile(), []donation.Record{d})[0]
			if fmt.Sprint(r.FraudIssues) != fmt.Sprint(tt.wantIssues) {
				t.Errorf("fraud issues = %v, want %v", r.FraudIssues, tt.wantIssues)
			}
			if r.MatchScore != tt.wantMatch {
				t.Errorf("match score = %d, want %d", r.MatchScore, tt.wantMatch)
			}
		})
	}
}

func TestEngineRank_Empty(t *testing.T) {
	engine := scoring.DefaultEngine(scoring.WithClock(fixedClock))

	for _, in := range [][]donation.Record{nil, {}} {
		results := engine.Rank(paracetamolProfile(), in)
		if results == nil || len(results) != 0 {
			t.Errorf("expected empty non-nil results, got %#v", results)
		}

		b, err := json.Marshal(map[string]any{"matches": results})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(b) != `{"matches":[]}` {
			t.Errorf("unexpected output %s", b)
		}
	}
}

func TestEngineRank_Defaults(t *testing.T) {
	engine := scoring.DefaultEngine(scoring.WithClock(fixedClock))

	results := engine.Rank(paracetamolProfile(), []donation.Record{{}})
	r := results[0]

	if got := r.MedicineName.Text(); got != "Unknown" {
		t.Errorf("expected medicineName Unknown, got %q", got)
	}
	if n, err := r.Quantity.Int(); err != nil || n != 0 {
		t.Errorf("expected quantity 0, got %d (%v)", n, err)
	}
	if !r.ExpiryDate.IsSet() || r.ExpiryDate.Text() != "" {
		t.Errorf("expected empty expiryDate, got %q", r.ExpiryDate.Text())
	}
	if r.DonorID.Text() != "" || r.DonorLocation.Text() != "" {
		t.Errorf("expected empty donor fields, got %q %q", r.DonorID.Text(), r.DonorLocation.Text())
	}
	if got := r.Status.Text(); got != "Available" {
		t.Errorf("expected status Available, got %q", got)
	}
	if r.ID.IsSet() {
		t.Error("expected id to stay absent")
	}
	if r.MatchScore != 0 || r.Recommended {
		t.Errorf("expected unmatched, got %d %v", r.MatchScore, r.Recommended)
	}
}

func TestEngineRank_PresentNullPassesThrough(t *testing.T) {
	engine := scoring.DefaultEngine(scoring.WithClock(fixedClock))

	d := cleanDonation()
	d.Status = donation.Null()
	results := engine.Rank(paracetamolProfile(), []donation.Record{d})

	b, err := json.Marshal(results[0].Status)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "null" {
		t.Errorf("expected status null, got %s", b)
	}
}

func TestEngineRank_NameMismatchScoresZero(t *testing.T) {
	engine := scoring.DefaultEngine(scoring.WithClock(fixedClock))

	d := cleanDonation()
	d.MedicineName = donation.String("Ibuprofen")
	results := engine.Rank(paracetamolProfile(), []donation.Record{d})

	if results[0].MatchScore != 0 || results[0].Recommended {
		t.Errorf("expected score 0 and not recommended, got %d %v", results[0].MatchScore, results[0].Recommended)
	}
}

func TestEngineRank_Order(t *testing.T) {
	p := paracetamolProfile()

	// 40: location, near quantity and medium shelf life
	a := cleanDonation()
	a.ID = donation.String("a")
	a.Quantity = donation.Int(103)
	a.ExpiryDate = dateIn(100)

	// 55
	b := cleanDonation()
	b.ID = donation.String("b")

	// 20: exact quantity only, and flagged as expiring soon
	c := cleanDonation()
	c.ID = donation.String("c")
	c.Location = donation.String("Mumbai")
	c.ExpiryDate = dateIn(3)

	// Not recommended: wrong medicine
	d := cleanDonation()
	d.ID = donation.String("d")
	d.MedicineName = donation.String("Aspirin")

	// 5: short shelf life only, below the threshold
	e := cleanDonation()
	e.ID = donation.String("e")
	e.Location = donation.String("Pune")
	e.Quantity = donation.Int(300)
	e.ExpiryDate = dateIn(40)

	engine := scoring.DefaultEngine(scoring.WithClock(fixedClock))
	results := engine.Rank(p, []donation.Record{d, e, c, a, b})

	want := []string{"b", "a", "c", "e", "d"}
	if got := ids(results); !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}

	scores := []int{55, 40, 20, 5, 0}
	for i, r := range results {
		if r.MatchScore != scores[i] {
			t.Errorf("result %s: expected match score %d, got %d", r.ID.Text(), scores[i], r.MatchScore)
		}
	}
}

func TestEngineRank_MatchScoreBeatsFraudScore(t *testing.T) {
	p := paracetamolProfile()

	// 30 match, flagged for the missing location
	hi := cleanDonation()
	hi.ID = donation.String("hi")
	hi.Location = donation.String("")
	hi.ExpiryDate = dateIn(100)

	// 20 match, clean
	lo := cleanDonation()
	lo.ID = donation.String("lo")
	lo.Location = donation.String("Agra")
	lo.ExpiryDate = dateIn(20)

	results := scoring.DefaultEngine(scoring.WithClock(fixedClock)).Rank(p, []donation.Record{lo, hi})
	if results[0].FraudScore <= results[1].FraudScore {
		t.Fatalf("expected hi to carry more fraud, got %d and %d", results[0].FraudScore, results[1].FraudScore)
	}
	if got := ids(results); !reflect.DeepEqual(got, []string{"hi", "lo"}) {
		t.Errorf("expected hi before lo, got %v", got)
	}
}

func TestEngineRank_EqualMatchLowerFraudFirst(t *testing.T) {
	p := paracetamolProfile()

	flagged := cleanDonation()
	flagged.ID = donation.String("flagged")
	flagged.ExpiryDate = dateIn(5) // expiring soon: +15 fraud, 0 shelf life points

	clean := cleanDonation()
	clean.ID = donation.String("clean")
	clean.ExpiryDate = dateIn(10) // no fraud, 0 shelf life points

	results := scoring.DefaultEngine(scoring.WithClock(fixedClock)).Rank(p, []donation.Record{flagged, clean})

	if results[0].MatchScore != results[1].MatchScore {
		t.Fatalf("expected equal match scores, got %d and %d", results[0].MatchScore, results[1].MatchScore)
	}
	if got := ids(results); !reflect.DeepEqual(got, []string{"clean", "flagged"}) {
		t.Errorf("expected clean before flagged, got %v", got)
	}
}

func TestEngineRank_StableAndIdempotent(t *testing.T) {
	var in []donation.Record
	for i := 0; i < 40; i++ {
		d := cleanDonation()
		d.ID = donation.String(fmt.Sprintf("d%02d", i))
		if i%3 == 0 {
			d.Location = donation.String("Chennai")
		}
		in = append(in, d)
	}

	engine := scoring.DefaultEngine(scoring.WithClock(fixedClock))
	first := engine.Rank(paracetamolProfile(), in)
	second := engine.Rank(paracetamolProfile(), in)

	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Fatal("expected identical order across runs")
	}

	// Within each tie group, input order is preserved.
	prev := map[int]string{}
	for _, r := range first {
		if last, ok := prev[r.MatchScore]; ok && last > r.ID.Text() {
			t.Errorf("tie order broken: %s after %s", r.ID.Text(), last)
		}
		prev[r.MatchScore] = r.ID.Text()
	}
}

func TestEngineRank_WorkersMatchSequential(t *testing.T) {
	var in []donation.Record
	for i := 0; i < 100; i++ {
		d := cleanDonation()
		d.ID = donation.String(fmt.Sprintf("d%03d", i))
		d.Quantity = donation.Int(90 + i%20)
		d.ExpiryDate = dateIn(i*3 - 20)
		if i%7 == 0 {
			d.MedicineName = donation.String("Other")
		}
		in = append(in, d)
	}

	sequential := scoring.DefaultEngine(scoring.WithClock(fixedClock)).Rank(paracetamolProfile(), in)
	parallel := scoring.DefaultEngine(scoring.WithClock(fixedClock), scoring.WithWorkers(8)).Rank(paracetamolProfile(), in)

	a, _ := json.Marshal(sequential)
	b, _ := json.Marshal(parallel)
	if string(a) != string(b) {
		t.Error("expected parallel ranking to equal sequential ranking")
	}
}

func TestEngineRank_CustomThreshold(t *testing.T) {
	w := scoring.Defaults()
	w.RecommendThreshold = 60

	results := scoring.NewEngineFromWeights(w, scoring.WithClock(fixedClock)).
		Rank(paracetamolProfile(), []donation.Record{cleanDonation()})

	if results[0].Recommended {
		t.Error("expected 55 to fall below a threshold of 60")
	}
}

func TestRanksBefore(t *testing.T) {
	rec30 := scoring.RankedResult{Recommended: true, MatchScore: 30, FraudScore: 50}
	rec20 := scoring.RankedResult{Recommended: true, MatchScore: 20}
	rec20Flagged := scoring.RankedResult{Recommended: true, MatchScore: 20, FraudScore: 10}
	other := scoring.RankedResult{MatchScore: 5}

	if !scoring.RanksBefore(rec30, rec20) {
		t.Error("expected higher match score first")
	}
	if !scoring.RanksBefore(rec20, rec20Flagged) {
		t.Error("expected lower fraud score first")
	}
	if !scoring.RanksBefore(rec20Flagged, other) {
		t.Error("expected recommended first")
	}
	if scoring.RanksBefore(rec20, rec20) {
		t.Error("expected equal results to not rank before each other")
	}
}
