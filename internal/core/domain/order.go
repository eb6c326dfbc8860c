package domain

// ParsedOrder is the structured form of a natural-language medication order.
// Every field is a pointer so that "not mentioned in the order" (nil) stays
// distinct from "mentioned but empty". Keys outside the schema are dropped
// during decoding, never retained.
type ParsedOrder struct {
	PatientName *string `json:"patient_name"`
	Medication  *string `json:"medication"`
	Dosage      *string `json:"dosage"`
	Frequency   *string `json:"frequency"`
	Route       *string `json:"route"`
	Indication  *string `json:"indication"`
	Duration    *string `json:"duration"`
}

// Field returns the value of a named order field and whether it was present.
// Unknown names report absent.
func (o *ParsedOrder) Field(name string) (string, bool) {
	var p *string
	switch name {
	case "patient_name":
		p = o.PatientName
	case "medication":
		p = o.Medication
	case "dosage":
		p = o.Dosage
	case "frequency":
		p = o.Frequency
	case "route":
		p = o.Route
	case "indication":
		p = o.Indication
	case "duration":
		p = o.Duration
	}
	if p == nil {
		return "", false
	}
	return *p, true
}
