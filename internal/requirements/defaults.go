package requirements

// DefaultSource returns the built-in requirement table for the standard
// travel coverage types. Deployments with authored requirement data swap in
// their own Source.
func DefaultSource() StaticSource {
	return StaticSource{
		"baggage_loss": {
			CoverageTypeID: "baggage_loss",
			Fields: []FieldSpec{
				{Name: "incident_date", Label: "Date of loss", Type: FieldTypeDate, Required: true, ExtractionHint: "the date the baggage was lost"},
				{Name: "incident_location", Label: "Airport or location of loss", Type: FieldTypeLocation, Required: true, ExtractionHint: "airport or city where the baggage went missing"},
				{Name: "flight_number", Label: "Flight number", Type: FieldTypeText, Required: true, ExtractionHint: "carrier code and number, e.g. SA-204"},
				{Name: "claimed_amount", Label: "Estimated value of lost items", Type: FieldTypeAmount, Required: true},
				{Name: "bag_description", Label: "Description of the baggage", Type: FieldTypeText, Required: false},
			},
		},
		"flight_delay": {
			CoverageTypeID: "flight_delay",
			Fields: []FieldSpec{
				{Name: "incident_date", Label: "Date of travel", Type: FieldTypeDate, Required: true},
				{Name: "flight_number", Label: "Flight number", Type: FieldTypeText, Required: true},
				{Name: "delay_hours", Label: "Length of delay in hours", Type: FieldTypeText, Required: true},
				{Name: "claimed_amount", Label: "Expenses incurred", Type: FieldTypeAmount, Required: true},
			},
		},
		"medical_expense": {
			CoverageTypeID: "medical_expense",
			Fields: []FieldSpec{
				{Name: "incident_date", Label: "Date of treatment", Type: FieldTypeDate, Required: true},
				{Name: "incident_location", Label: "Place of treatment", Type: FieldTypeLocation, Required: true},
				{Name: "provider_name", Label: "Hospital or clinic name", Type: FieldTypeText, Required: true},
				{Name: "claimed_amount", Label: "Treatment cost", Type: FieldTypeAmount, Required: true},
				{Name: "diagnosis", Label: "Diagnosis or reason for treatment", Type: FieldTypeText, Required: false},
			},
		},
		"theft": {
			CoverageTypeID: "theft",
			Fields: []FieldSpec{
				{Name: "incident_date", Label: "Date of theft", Type: FieldTypeDate, Required: true},
				{Name: "incident_location", Label: "Location of theft", Type: FieldTypeLocation, Required: true},
				{Name: "stolen_items", Label: "Items stolen", Type: FieldTypeText, Required: true},
				{Name: "claimed_amount", Label: "Value of stolen items", Type: FieldTypeAmount, Required: true},
				{Name: "police_report_number", Label: "Police report number", Type: FieldTypeText, Required: false},
			},
		},
		"trip_cancellation": {
			CoverageTypeID: "trip_cancellation",
			Fields: []FieldSpec{
				{Name: "incident_date", Label: "Original departure date", Type: FieldTypeDate, Required: true},
				{Name: "cancellation_reason", Label: "Reason for cancellation", Type: FieldTypeText, Required: true},
				{Name: "claimed_amount", Label: "Non-refundable amount", Type: FieldTypeAmount, Required: true},
			},
		},
	}
}
