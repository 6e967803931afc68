package models

import "database/sql"

type WasteCollection struct {
	ID               string         `json:"id" db:"id"`
	UserID           string         `json:"userId" db:"user_id"`
	WasteType        string         `json:"wasteType" db:"waste_type"`
	Quantity         float64        `json:"quantity" db:"quantity"`
	PricePerKg       float64        `json:"pricePerKg" db:"price_per_kg"`
	CollectionZone   string         `json:"collectionZone" db:"collection_zone"`
	AvailableForSale bool           `json:"availableForSale" db:"available_for_sale"`
	VoiceDescription sql.NullString `json:"-" db:"voice_description"`
	CreatedAt        int64          `json:"createdAt" db:"created_at"`
}

type WasteCollectionResponse struct {
	ID               string  `json:"id"`
	UserID           string  `json:"userId"`
	WasteType        string  `json:"wasteType"`
	Quantity         float64 `json:"quantity"`
	PricePerKg       float64 `json:"pricePerKg"`
	CollectionZone   string  `json:"collectionZone"`
	AvailableForSale bool    `json:"availableForSale"`
	VoiceDescription *string `json:"voiceDescription,omitempty"`
	CreatedAt        int64   `json:"createdAt"`
}

func (c *WasteCollection) ToWasteCollectionResponse() WasteCollectionResponse {
	resp := WasteCollectionResponse{
		ID:               c.ID,
		UserID:           c.UserID,
		WasteType:        c.WasteType,
		Quantity:         c.Quantity,
		PricePerKg:       c.PricePerKg,
		CollectionZone:   c.CollectionZone,
		AvailableForSale: c.AvailableForSale,
		CreatedAt:        c.CreatedAt,
	}
	if c.VoiceDescription.Valid {
		resp.VoiceDescription = &c.VoiceDescription.String
	}
	return resp
}

// CreateWasteCollectionRequest is the POST /api/waste-collections body.
// The offline agent submits the same shape when replaying queued records.
type CreateWasteCollectionRequest struct {
	UserID           string  `json:"userId"`
	WasteType        string  `json:"wasteType"`
	Quantity         float64 `json:"quantity"`
	PricePerKg       float64 `json:"pricePerKg"`
	CollectionZone   string  `json:"collectionZone"`
	AvailableForSale bool    `json:"availableForSale"`
	VoiceDescription *string `json:"voiceDescription,omitempty"`
}
