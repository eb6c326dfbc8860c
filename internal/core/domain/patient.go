package domain

import (
	"fmt"
	"strconv"
)

// PatientRecord is the canonical per-patient record. It is persisted as one
// JSON document per patient, keyed by ID, with stable wire field names.
type PatientRecord struct {
	// ID uniquely identifies the patient and doubles as the storage key.
	ID string `json:"patient_id"`

	// Name is the patient's full name.
	Name string `json:"name"`

	// Age in years.
	Age int `json:"age"`

	// WeightKg is the most recent recorded weight in kilograms.
	WeightKg float64 `json:"weight_kg"`

	// HeightCm is the most recent recorded height in centimetres.
	HeightCm float64 `json:"height_cm"`

	// Conditions is the ordered list of diagnosed conditions.
	// The first entry is treated as the primary condition.
	Conditions []string `json:"medical_conditions"`

	// Medications is the ordered list of current medications.
	Medications []Medication `json:"current_medications"`

	// Allergies is the ordered list of known allergies.
	Allergies []Allergy `json:"allergies"`

	// RecentLabs holds the most recent lab panel as free-form key/value
	// pairs (e.g. "INR", "creatinine", "HbA1c").
	RecentLabs map[string]any `json:"recent_labs"`

	// VitalSigns holds the latest vitals snapshot as free-form key/value pairs.
	VitalSigns map[string]any `json:"vital_signs"`

	// ClinicalNotes is the ordered, append-only sequence of timestamped notes.
	ClinicalNotes []ClinicalNote `json:"clinical_notes"`

	// LastVisit is the date of the most recent visit (YYYY-MM-DD).
	LastVisit string `json:"last_visit"`
}

// Medication is one entry in a patient's current medication list.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Purpose   string `json:"purpose"`
	StartDate string `json:"start_date"`
}

// Allergy records a known allergen and the observed reaction.
type Allergy struct {
	Allergen string `json:"allergen"`
	Reaction string `json:"reaction"`
}

// ClinicalNote is a timestamped free-text observation.
type ClinicalNote struct {
	// Date is the local timestamp at minute resolution ("2006-01-02 15:04")
	// or a plain date for historical entries.
	Date string `json:"date"`
	Note string `json:"note"`
}

// PatientSummary is the lightweight listing form of a record.
type PatientSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PrimaryCondition returns the first diagnosed condition, or "Unknown" when
// the condition list is empty.
func (r *PatientRecord) PrimaryCondition() string {
	if len(r.Conditions) == 0 {
		return "Unknown"
	}
	return r.Conditions[0]
}

// MedicationNames returns the names of all current medications in order.
func (r *PatientRecord) MedicationNames() []string {
	names := make([]string, len(r.Medications))
	for i := range r.Medications {
		names[i] = r.Medications[i].Name
	}
	return names
}

// AllergenNames returns the allergen of every recorded allergy in order.
func (r *PatientRecord) AllergenNames() []string {
	allergens := make([]string, len(r.Allergies))
	for i := range r.Allergies {
		allergens[i] = r.Allergies[i].Allergen
	}
	return allergens
}

// Lab returns the string form of a named lab value, or "N/A" when the lab
// panel does not contain it.
func (r *PatientRecord) Lab(name string) string {
	if r.RecentLabs == nil {
		return "N/A"
	}
	val, ok := r.RecentLabs[name]
	if !ok || val == nil {
		return "N/A"
	}
	switch v := val.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64.
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
