package social

// SignupField describes one field of the completion payload so
// clients can render the signup form without hardcoding it.
type SignupField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

// SignupFields returns the catalog of completion fields. The order is
// the order clients should present them in.
func SignupFields() []SignupField {
	return []SignupField{
		{Name: "nickname", Type: "string", Required: true, Description: "display name, 2 to 30 characters"},
		{Name: "location", Type: "string", Required: true, Description: "city or region"},
		{Name: "interests", Type: "string[]", Required: true, Description: "1 to 5 interest tags"},
		{Name: "birth_date", Type: "date", Required: false, Description: "ISO date, must be 14 or older"},
		{Name: "phone_number", Type: "string", Required: false, Description: "E.164 or national format"},
		{Name: "profile_image_url", Type: "string", Required: false, Description: "overrides the provider avatar"},
		{Name: "bio", Type: "string", Required: false, Description: "up to 500 characters"},
		{Name: "agree_terms", Type: "bool", Required: false},
	}
}
