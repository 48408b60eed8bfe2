package models

// GeoLocation is the normalized result of an IP lookup. It only lives for
// the duration of one request.
type GeoLocation struct {
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// DefaultGeoLocation is returned when no provider resolves the IP,
// or when the IP is private and no provider is consulted.
func DefaultGeoLocation() *GeoLocation {
	return &GeoLocation{Country: "US"}
}

// GeolocateResponse is returned by GET /api/geolocate
type GeolocateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
	IP      string `json:"ip,omitempty"`
}
