package facebook

import (
	"time"

	"github.com/mbintumar0519/xenonbpd/pkg/models"
	"github.com/mbintumar0519/xenonbpd/pkg/utils"
)

// UserData is the Conversions API user_data object. Personal identifiers
// are SHA-256 hashed; client_ip_address, client_user_agent, fbp and fbc are
// sent raw per the API documentation.
type UserData struct {
	Email           []string `json:"em,omitempty"`
	Phone           []string `json:"ph,omitempty"`
	FirstName       []string `json:"fn,omitempty"`
	LastName        []string `json:"ln,omitempty"`
	City            []string `json:"ct,omitempty"`
	State           []string `json:"st,omitempty"`
	ZipCode         []string `json:"zp,omitempty"`
	Country         []string `json:"country,omitempty"`
	DateOfBirth     []string `json:"db,omitempty"`
	ExternalID      []string `json:"external_id,omitempty"`
	ClientIPAddress string   `json:"client_ip_address,omitempty"`
	ClientUserAgent string   `json:"client_user_agent,omitempty"`
	FBP             string   `json:"fbp,omitempty"`
	FBC             string   `json:"fbc,omitempty"`
}

// CustomData is the Conversions API custom_data object
type CustomData struct {
	Value           float64 `json:"value,omitempty"`
	Currency        string  `json:"currency,omitempty"`
	ContentName     string  `json:"content_name,omitempty"`
	ContentCategory string  `json:"content_category,omitempty"`
}

// ServerEvent is one entry of the events payload. EventID is the
// deduplication key shared with the browser pixel: both signals for the
// same user action must carry the same value or the platform counts twice.
type ServerEvent struct {
	EventName      string      `json:"event_name"`
	EventTime      int64       `json:"event_time"`
	EventID        string      `json:"event_id,omitempty"`
	EventSourceURL string      `json:"event_source_url,omitempty"`
	ActionSource   string      `json:"action_source"`
	UserData       UserData    `json:"user_data"`
	CustomData     *CustomData `json:"custom_data,omitempty"`
}

// NewServerEvent builds an event with the current timestamp and the
// "website" action source every route uses.
func NewServerEvent(eventName, eventID, sourceURL string) ServerEvent {
	return ServerEvent{
		EventName:      eventName,
		EventTime:      time.Now().Unix(),
		EventID:        eventID,
		EventSourceURL: sourceURL,
		ActionSource:   "website",
	}
}

// BuildUserData hashes the personal fields of raw and attaches the
// unhashed browser identifiers. The hashed email doubles as external_id so
// the platform can join events for the same person. A missing country
// defaults to US before hashing.
func BuildUserData(raw models.TrackingUserData, clientIP, userAgent, fbp, fbc string) UserData {
	userData := UserData{
		ClientIPAddress: clientIP,
		ClientUserAgent: userAgent,
		FBP:             fbp,
		FBC:             fbc,
	}

	if hash := utils.HashIdentifier(raw.Email); hash != "" {
		userData.Email = []string{hash}
		userData.ExternalID = []string{hash}
	}
	if digits := utils.DigitsOnly(raw.Phone); digits != "" {
		userData.Phone = []string{utils.HashIdentifier(digits)}
	}
	if hash := utils.HashIdentifier(raw.FirstName); hash != "" {
		userData.FirstName = []string{hash}
	}
	if hash := utils.HashIdentifier(raw.LastName); hash != "" {
		userData.LastName = []string{hash}
	}
	if hash := utils.HashIdentifier(raw.City); hash != "" {
		userData.City = []string{hash}
	}
	if hash := utils.HashIdentifier(raw.State); hash != "" {
		userData.State = []string{hash}
	}
	if hash := utils.HashIdentifier(raw.ZipCode); hash != "" {
		userData.ZipCode = []string{hash}
	}
	country := raw.Country
	if country == "" {
		country = "US"
	}
	userData.Country = []string{utils.HashIdentifier(country)}
	if hash := utils.HashIdentifier(raw.DateOfBirth); hash != "" {
		userData.DateOfBirth = []string{hash}
	}

	return userData
}
