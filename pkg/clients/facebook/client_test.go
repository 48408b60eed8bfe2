package facebook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mbintumar0519/xenonbpd/pkg/models"
	"github.com/mbintumar0519/xenonbpd/pkg/utils"
)

func TestSendEvent(t *testing.T) {
	var got eventRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pixel-1/events", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"events_received":1}`))
	}))
	defer server.Close()

	client := NewClient(zap.NewNop(), "token", "pixel-1", "TEST123", WithBaseURL(server.URL))
	require.True(t, client.Enabled())

	event := NewServerEvent("Lead", "evt-42", "https://example.com/form")
	event.UserData = BuildUserData(models.TrackingUserData{Email: "john@example.com"}, "1.2.3.4", "agent", "fbp-1", "fbc-1")

	require.NoError(t, client.SendEvent(context.Background(), event))

	require.Len(t, got.Data, 1)
	sent := got.Data[0]
	assert.Equal(t, "Lead", sent.EventName)
	assert.Equal(t, "evt-42", sent.EventID, "the dedup key must reach the platform unchanged")
	assert.Equal(t, "website", sent.ActionSource)
	assert.Equal(t, "TEST123", got.TestEventCode)
	assert.Equal(t, "token", got.AccessToken)
	assert.NotZero(t, sent.EventTime)
}

func TestSendEventErrors(t *testing.T) {
	t.Run("non-200 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"bad token"}}`, http.StatusBadRequest)
		}))
		defer server.Close()

		client := NewClient(zap.NewNop(), "token", "pixel-1", "", WithBaseURL(server.URL))
		err := client.SendEvent(context.Background(), NewServerEvent("Lead", "", ""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "400")
	})

	t.Run("not configured", func(t *testing.T) {
		client := NewClient(zap.NewNop(), "", "", "")
		assert.False(t, client.Enabled())
		assert.Error(t, client.SendEvent(context.Background(), ServerEvent{}))
	})
}

func TestBuildUserData(t *testing.T) {
	raw := models.TrackingUserData{
		Email:       " JOHN@EXAMPLE.COM ",
		Phone:       "+1 (404) 555-1234",
		FirstName:   "John",
		LastName:    "Doe",
		City:        "Atlanta",
		State:       "GA",
		ZipCode:     "30303",
		DateOfBirth: "19900115",
	}

	userData := BuildUserData(raw, "1.2.3.4", "test-agent", "fb.1.123", "fb.1.456")

	t.Run("personal fields are hashed", func(t *testing.T) {
		require.Len(t, userData.Email, 1)
		assert.Equal(t, utils.HashIdentifier("john@example.com"), userData.Email[0])
		require.Len(t, userData.Phone, 1)
		assert.Equal(t, utils.HashIdentifier("14045551234"), userData.Phone[0], "phone hashes digits only")
		assert.Equal(t, []string{utils.HashIdentifier("john")}, userData.FirstName)
		assert.Equal(t, []string{utils.HashIdentifier("ga")}, userData.State)
		assert.Equal(t, []string{utils.HashIdentifier("19900115")}, userData.DateOfBirth)
	})

	t.Run("external id mirrors the hashed email", func(t *testing.T) {
		assert.Equal(t, userData.Email, userData.ExternalID)
	})

	t.Run("browser identifiers stay raw", func(t *testing.T) {
		assert.Equal(t, "1.2.3.4", userData.ClientIPAddress)
		assert.Equal(t, "test-agent", userData.ClientUserAgent)
		assert.Equal(t, "fb.1.123", userData.FBP)
		assert.Equal(t, "fb.1.456", userData.FBC)
	})

	t.Run("country defaults to US", func(t *testing.T) {
		assert.Equal(t, []string{utils.HashIdentifier("us")}, userData.Country)
	})

	t.Run("absent fields stay absent", func(t *testing.T) {
		empty := BuildUserData(models.TrackingUserData{}, "", "", "", "")
		assert.Nil(t, empty.Email)
		assert.Nil(t, empty.Phone)
		assert.Nil(t, empty.ExternalID)
	})
}
