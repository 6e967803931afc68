package models

import "database/sql"

type Complaint struct {
	ID          string         `json:"id" db:"id"`
	UserID      string         `json:"userId" db:"user_id"`
	Description string         `json:"description" db:"description"`
	Location    string         `json:"location" db:"location"` // serialized "lat,lng"
	ImageURL    sql.NullString `json:"-" db:"image_url"`
	Status      string         `json:"status" db:"status"` // "pending", "in_progress" or "resolved"
	CreatedAt   int64          `json:"createdAt" db:"created_at"`
}

type ComplaintResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   int64   `json:"createdAt"`
}

func (c *Complaint) ToComplaintResponse() ComplaintResponse {
	resp := ComplaintResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Description: c.Description,
		Location:    c.Location,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
	}
	if c.ImageURL.Valid {
		resp.ImageURL = &c.ImageURL.String
	}
	return resp
}

// CreateComplaintRequest is the POST /api/complaints body. The offline agent
// resolves image_data to image_url before it ever reaches this endpoint.
type CreateComplaintRequest struct {
	UserID      string  `json:"userId"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// ValidComplaintStatuses are the states a complaint moves through.
var ValidComplaintStatuses = map[string]bool{
	"pending":     true,
	"in_progress": true,
	"resolved":    true,
}
