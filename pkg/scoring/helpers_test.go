package scoring_test

import (
	"time"

	"github.com/medmatch/medmatch/pkg/donation"
)

var today = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	// Late in the day to make sure only the calendar date counts.
	return today.Add(23*time.Hour + 59*time.Minute)
}

// dateIn returns today's date shifted by days, as a wire expiry date.
func dateIn(days int) donation.Value {
	return donation.String(today.AddDate(0, 0, days).Format(donation.DateLayout))
}

// cleanDonation returns a complete donation that triggers no fraud rule.
func cleanDonation() donation.Record {
	return donation.Record{
		ID:           donation.String("d1"),
		MedicineName: donation.String("Paracetamol"),
		ExpiryDate:   dateIn(200),
		Quantity:     donation.Int(100),
		DonorID:      donation.String("donor-1"),
		Location:     donation.String("Delhi"),
		Status:       donation.String("Available"),
	}
}

func paracetamolProfile() donation.Profile {
	return donation.Profile{
		MedicineRequest: donation.MedicineRequest{
			Name:     donation.String("Paracetamol"),
			Quantity: donation.Int(100),
		},
		Location: donation.String("Delhi"),
	}
}
