package models

type CollectionZone struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Coordinates string `json:"coordinates" db:"coordinates"` // JSON "[lat,lng]"
	ZoneType    string `json:"zoneType" db:"zone_type"`      // "collection", "processing" or "high_waste"
	CreatedAt   int64  `json:"createdAt" db:"created_at"`
}

type CreateCollectionZoneRequest struct {
	Name        string `json:"name"`
	Coordinates string `json:"coordinates"`
	ZoneType    string `json:"zoneType"`
}

var ValidZoneTypes = map[string]bool{
	"collection": true,
	"processing": true,
	"high_waste": true,
}
