// Package donation defines the inputs of the matching engine: donation
// records offered by donors and the request profile of a single NGO.
//
// Both arrive as loosely typed JSON. Fields are kept as Value so the engine
// can tell an absent key from a present one and convert lazily, turning
// every conversion failure into an explicit error instead of a panic.
package donation

// Field names as they appear on the wire.
const (
	FieldID           = "id"
	FieldMedicineName = "medicineName"
	FieldExpiryDate   = "expiryDate"
	FieldQuantity     = "quantity"
	FieldDonorID      = "donorId"
	FieldLocation     = "location"
	FieldStatus       = "status"
)

// Record is a single candidate donation.
type Record struct {
	ID           Value `json:"id"`
	MedicineName Value `json:"medicineName"`
	ExpiryDate   Value `json:"expiryDate"`
	Quantity     Value `json:"quantity"`
	DonorID      Value `json:"donorId"`
	Location     Value `json:"location"`
	Status       Value `json:"status"`
}

// Field returns the field with the given wire name, or an absent Value for
// unknown names.
func (r Record) Field(name string) Value {
	switch name {
	case FieldID:
		return r.ID
	case FieldMedicineName:
		return r.MedicineName
	case FieldExpiryDate:
		return r.ExpiryDate
	case FieldQuantity:
		return r.Quantity
	case FieldDonorID:
		return r.DonorID
	case FieldLocation:
		return r.Location
	case FieldStatus:
		return r.Status
	default:
		return Value{}
	}
}

// MedicineRequest is what the NGO asked for.
type MedicineRequest struct {
	Name     Value `json:"name"`
	Quantity Value `json:"quantity"`
}

// Profile is the NGO request profile a set of donations is ranked against.
type Profile struct {
	MedicineRequest MedicineRequest `json:"medicineRequest"`
	Location        Value           `json:"location"`
}

// MatchRequest is the body accepted by the matcher: one profile and the
// candidate donations.
type MatchRequest struct {
	Profile   Profile  `json:"ngoProfile"`
	Donations []Record `json:"donations"`
}
