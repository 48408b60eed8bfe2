package geoip

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mbintumar0519/xenonbpd/pkg/models"
)

// Resolver looks up the location of a single IP address. Implementations
// return (nil, nil) when the provider answered but lacked the required
// fields, and an error when the provider was unreachable or malformed.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, ip string) (*models.GeoLocation, error)
}

// httpClient is shared by every provider; lookups are enrichment only, so
// they get a short timeout rather than the default no-timeout client.
var httpClient = &http.Client{Timeout: 5 * time.Second}

// IsPrivateIP reports whether the address must never be sent to a provider.
// Loopback, RFC 1918 and unparseable addresses all count as private.
func IsPrivateIP(ip string) bool {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return true
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() || parsed.IsLinkLocalUnicast()
}
