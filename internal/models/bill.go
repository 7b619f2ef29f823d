package models

// Bill is the append-only log entry written after a bill notification email
// goes out. It carries no reference back to the owner beyond the product id.
type Bill struct {
	ID               string  `json:"id,omitempty"`
	ProductID        string  `json:"product_id"`
	TenantEmail      string  `json:"tenant_email"`
	Month            string  `json:"month"`
	Amount           float64 `json:"amount"`
	KwValue          float64 `json:"kw_value"`
	NotificationSent bool    `json:"notification_sent"`
	NotificationDate string  `json:"notification_date"`
}
