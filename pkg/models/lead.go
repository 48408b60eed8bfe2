package models

// Represents the data structure coming from the pre-screening form
type LeadSubmission struct {
	Name                string            `json:"name" binding:"required"`
	Phone               string            `json:"phone" binding:"required"`
	Email               string            `json:"email" binding:"required"`
	Age                 string            `json:"age"`
	Source              string            `json:"source"`
	QualificationStatus string            `json:"qualificationStatus"`
	Answers             map[string]string `json:"answers"`

	// Pixel identifiers accepted from the form for forward
	// compatibility; the intake route does not consume them today.
	EventID string `json:"eventId"`
	FBP     string `json:"fbp"`
	FBC     string `json:"fbc"`
}

// Contact represents the normalized contact after name/phone/email cleanup
type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// SubmitLeadResponse is returned by POST /api/submit-lead
type SubmitLeadResponse struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	ContactID    string       `json:"contactId,omitempty"`
	TagsApplied  []string     `json:"tagsApplied,omitempty"`
	LocationData *GeoLocation `json:"locationData,omitempty"`
}

// BookingLinkRequest carries contact fields for scheduling-link generation
type BookingLinkRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// BookingLinkResponse is returned by POST /api/booking-link
type BookingLinkResponse struct {
	Success     bool   `json:"success"`
	BookingLink string `json:"bookingLink,omitempty"`
	Method      string `json:"method,omitempty"`
	Message     string `json:"message,omitempty"`
}
