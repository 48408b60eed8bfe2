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

// FreeIPAPIResolver queries freeipapi.com, the keyless last-resort provider
type FreeIPAPIResolver struct {
	baseURL string
}

// NewFreeIPAPIResolver creates a new freeipapi.com resolver
func NewFreeIPAPIResolver() *FreeIPAPIResolver {
	return &FreeIPAPIResolver{baseURL: "https://freeipapi.com"}
}

func (r *FreeIPAPIResolver) Name() string { return "freeipapi" }

// WithBaseURL overrides the API host, used by tests
func (r *FreeIPAPIResolver) WithBaseURL(baseURL string) *FreeIPAPIResolver {
	r.baseURL = baseURL
	return r
}

func (r *FreeIPAPIResolver) Resolve(ctx context.Context, ip string) (*models.GeoLocation, error) {
	lookupURL := fmt.Sprintf("%s/api/json/%s", r.baseURL, url.PathEscape(ip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling freeipapi: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from freeipapi API: %s", string(body))
	}

	var data struct {
		CityName    string `json:"cityName"`
		RegionName  string `json:"regionName"`
		ZipCode     string `json:"zipCode"`
		CountryCode string `json:"countryCode"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	if data.CityName == "" || data.RegionName == "" {
		return nil, nil
	}

	location := &models.GeoLocation{
		City:       data.CityName,
		State:      data.RegionName,
		PostalCode: data.ZipCode,
		Country:    data.CountryCode,
	}
	if location.Country == "" {
		location.Country = "US"
	}
	return location, nil
}
