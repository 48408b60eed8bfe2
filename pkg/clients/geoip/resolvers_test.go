package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPInfoResolver(t *testing.T) {
	t.Run("parses a complete answer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/8.8.8.8", r.URL.Path)
			assert.Equal(t, "test-token", r.URL.Query().Get("token"))
			w.Write([]byte(`{"city":"Mountain View","region":"California","postal":"94043","country":"US"}`))
		}))
		defer server.Close()

		resolver := NewIPInfoResolver("test-token").WithBaseURL(server.URL)
		location, err := resolver.Resolve(context.Background(), "8.8.8.8")

		require.NoError(t, err)
		require.NotNil(t, location)
		assert.Equal(t, "Mountain View", location.City)
		assert.Equal(t, "California", location.State)
		assert.Equal(t, "94043", location.PostalCode)
	})

	t.Run("missing region yields no result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"city":"Mountain View"}`))
		}))
		defer server.Close()

		resolver := NewIPInfoResolver("test-token").WithBaseURL(server.URL)
		location, err := resolver.Resolve(context.Background(), "8.8.8.8")

		require.NoError(t, err)
		assert.Nil(t, location)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		resolver := NewIPInfoResolver("test-token").WithBaseURL(server.URL)
		_, err := resolver.Resolve(context.Background(), "8.8.8.8")

		assert.Error(t, err)
	})
}

func TestIPGeolocationResolver(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ipgeo", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "8.8.8.8", r.URL.Query().Get("ip"))
		w.Write([]byte(`{"city":"Atlanta","state_prov":"Georgia","zipcode":"30303","country_code2":"US"}`))
	}))
	defer server.Close()

	resolver := NewIPGeolocationResolver("test-key").WithBaseURL(server.URL)
	location, err := resolver.Resolve(context.Background(), "8.8.8.8")

	require.NoError(t, err)
	require.NotNil(t, location)
	assert.Equal(t, "Atlanta", location.City)
	assert.Equal(t, "Georgia", location.State)
}

func TestFreeIPAPIResolver(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/json/8.8.8.8", r.URL.Path)
		w.Write([]byte(`{"cityName":"Atlanta","regionName":"Georgia","zipCode":"30303","countryCode":""}`))
	}))
	defer server.Close()

	resolver := NewFreeIPAPIResolver().WithBaseURL(server.URL)
	location, err := resolver.Resolve(context.Background(), "8.8.8.8")

	require.NoError(t, err)
	require.NotNil(t, location)
	assert.Equal(t, "Atlanta", location.City)
	assert.Equal(t, "US", location.Country, "missing country defaults to US")
}

func TestIsPrivateIP(t *testing.T) {
	assert.True(t, IsPrivateIP("127.0.0.1"))
	assert.True(t, IsPrivateIP("192.168.0.1"))
	assert.True(t, IsPrivateIP("10.1.2.3"))
	assert.True(t, IsPrivateIP("172.16.5.5"))
	assert.True(t, IsPrivateIP("garbage"))
	assert.False(t, IsPrivateIP("8.8.8.8"))
	assert.False(t, IsPrivateIP("203.0.113.9"))
}
