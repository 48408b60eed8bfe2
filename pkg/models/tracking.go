package models

// TrackingUserData carries the raw user-identifying fields sent by the
// browser. Personal fields get hashed before leaving the server; fbp/fbc
// and the IP/user-agent are forwarded as-is per the Conversions API docs.
type TrackingUserData struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zipCode"`
	Country     string `json:"country"`
	DateOfBirth string `json:"dateOfBirth"`
}

// LeadEventRequest is the body of POST /api/tracking/lead and
// /api/tracking/pageview. EventID must match the browser pixel's eventID for
// the same action or the ad platform counts the action twice.
type LeadEventRequest struct {
	EventID   string `json:"eventId"`
	FBP       string `json:"fbp"`
	FBC       string `json:"fbc"`
	URL       string `json:"url"`
	UserAgent string `json:"userAgent"`
	TrackingUserData
}

// ConversionEventRequest is the body of POST /api/tracking/conversion
type ConversionEventRequest struct {
	EventName string               `json:"eventName" binding:"required"`
	EventID   string               `json:"event_id"`
	EventData *ConversionEventData `json:"eventData"`
	UserData  *TrackingUserData    `json:"userData"`
	FBP       string               `json:"fbp"`
	FBC       string               `json:"fbc"`
	URL       string               `json:"url"`
	UserAgent string               `json:"userAgent"`
}

// ConversionEventData maps onto the Conversions API custom_data object
type ConversionEventData struct {
	Value           float64 `json:"value,omitempty"`
	Currency        string  `json:"currency,omitempty"`
	ContentName     string  `json:"content_name,omitempty"`
	ContentCategory string  `json:"content_category,omitempty"`
}

// TrackingResponse is the uniform tracking-route response
type TrackingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
