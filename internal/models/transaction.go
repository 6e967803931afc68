package models

type Transaction struct {
	ID        string  `json:"id" db:"id"`
	SellerID  string  `json:"sellerId" db:"seller_id"`
	BuyerID   string  `json:"buyerId" db:"buyer_id"`
	WasteType string  `json:"wasteType" db:"waste_type"`
	Quantity  float64 `json:"quantity" db:"quantity"`
	Amount    float64 `json:"amount" db:"amount"`
	Status    string  `json:"status" db:"status"` // "completed", "processing" or "cancelled"
	CreatedAt int64   `json:"createdAt" db:"created_at"`
}

type CreateTransactionRequest struct {
	SellerID  string  `json:"sellerId"`
	BuyerID   string  `json:"buyerId"`
	WasteType string  `json:"wasteType"`
	Quantity  float64 `json:"quantity"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
}

// ValidTransactionStatuses are the states a purchase can be in.
var ValidTransactionStatuses = map[string]bool{
	"completed":  true,
	"processing": true,
	"cancelled":  true,
}
