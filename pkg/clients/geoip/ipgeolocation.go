package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mbintumar0519/xenonbpd/pkg/models"
)

// IPGeolocationResolver queries ipgeolocation.io, the first fallback
type IPGeolocationResolver struct {
	apiKey  string
	baseURL string
}

// NewIPGeolocationResolver creates a new ipgeolocation.io resolver
func NewIPGeolocationResolver(apiKey string) *IPGeolocationResolver {
	return &IPGeolocationResolver{
		apiKey:  apiKey,
		baseURL: "https://api.ipgeolocation.io",
	}
}

func (r *IPGeolocationResolver) Name() string { return "ipgeolocation" }

// WithBaseURL overrides the API host, used by tests
func (r *IPGeolocationResolver) WithBaseURL(baseURL string) *IPGeolocationResolver {
	r.baseURL = baseURL
	return r
}

func (r *IPGeolocationResolver) Resolve(ctx context.Context, ip string) (*models.GeoLocation, error) {
	query := url.Values{}
	query.Set("apiKey", r.apiKey)
	query.Set("ip", ip)
	query.Set("fields", "city,state_prov,zipcode,country_code2")
	lookupURL := fmt.Sprintf("%s/ipgeo?%s", r.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling ipgeolocation: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from ipgeolocation API: %s", string(body))
	}

	var data struct {
		City      string `json:"city"`
		StateProv string `json:"state_prov"`
		Zipcode   string `json:"zipcode"`
		Country   string `json:"country_code2"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	if data.City == "" || data.StateProv == "" {
		return nil, nil
	}

	location := &models.GeoLocation{
		City:       data.City,
		State:      data.StateProv,
		PostalCode: data.Zipcode,
		Country:    data.Country,
	}
	if location.Country == "" {
		location.Country = "US"
	}
	return location, nil
}
