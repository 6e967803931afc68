package remote

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecocycle-backend/internal/models"
)

// The replay payloads must decode into the server's request structs with
// every field intact, or queued records would be rejected forever.

func TestWasteCollectionPayloadMatchesServerContract(t *testing.T) {
	voice := "two bags by the gate"
	payload := WasteCollectionPayload{
		UserID:           "user-1",
		WasteType:        "paper",
		Quantity:         5,
		PricePerKg:       2,
		CollectionZone:   "zone_1",
		AvailableForSale: true,
		VoiceDescription: &voice,
	}

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	var req models.CreateWasteCollectionRequest
	require.NoError(t, json.Unmarshal(raw, &req))

	assert.Equal(t, "user-1", req.UserID)
	assert.Equal(t, "paper", req.WasteType)
	assert.Equal(t, 5.0, req.Quantity)
	assert.Equal(t, 2.0, req.PricePerKg)
	assert.Equal(t, "zone_1", req.CollectionZone)
	assert.True(t, req.AvailableForSale)
	require.NotNil(t, req.VoiceDescription)
	assert.Equal(t, voice, *req.VoiceDescription)
}

func TestComplaintPayloadMatchesServerContract(t *testing.T) {
	url := "http://host/uploads/a.jpg"
	payload := ComplaintPayload{
		UserID:      "user-1",
		Description: "overflowing container",
		Location:    "zone_3",
		ImageURL:    &url,
	}

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	var req models.CreateComplaintRequest
	require.NoError(t, json.Unmarshal(raw, &req))

	assert.Equal(t, "user-1", req.UserID)
	assert.Equal(t, "overflowing container", req.Description)
	assert.Equal(t, "zone_3", req.Location)
	require.NotNil(t, req.ImageURL)
	assert.Equal(t, url, *req.ImageURL)
}
