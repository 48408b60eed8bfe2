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

// IPInfoResolver queries ipinfo.io, the primary provider
type IPInfoResolver struct {
	token   string
	baseURL string
}

// NewIPInfoResolver creates a new ipinfo.io resolver
func NewIPInfoResolver(token string) *IPInfoResolver {
	return &IPInfoResolver{
		token:   token,
		baseURL: "https://ipinfo.io",
	}
}

func (r *IPInfoResolver) Name() string { return "ipinfo" }

// WithBaseURL overrides the API host, used by tests
func (r *IPInfoResolver) WithBaseURL(baseURL string) *IPInfoResolver {
	r.baseURL = baseURL
	return r
}

func (r *IPInfoResolver) Resolve(ctx context.Context, ip string) (*models.GeoLocation, error) {
	lookupURL := fmt.Sprintf("%s/%s?token=%s", r.baseURL, url.PathEscape(ip), url.QueryEscape(r.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling ipinfo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from ipinfo API: %s", string(body))
	}

	var data struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Postal  string `json:"postal"`
		Country string `json:"country"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	// A provider answer without city and region is useless to the CRM
	if data.City == "" || data.Region == "" {
		return nil, nil
	}

	location := &models.GeoLocation{
		City:       data.City,
		State:      data.Region,
		PostalCode: data.Postal,
		Country:    data.Country,
	}
	if location.Country == "" {
		location.Country = "US"
	}
	return location, nil
}
