package models

// TimeLayout is the timestamp format stored in owner and bill documents.
const TimeLayout = "2006-01-02 15:04:05"

// Tenant is a renter record embedded in its owner document. Tenants have no
// id of their own; they are addressed by their position in the owner's list.
type Tenant struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	ProductID string `json:"product_id"`
}

// Owner is a registered house owner. One document per identity-provider uid
// in the house_owners collection.
type Owner struct {
	UID          string      `json:"uid,omitempty"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	MobileNumber string      `json:"mobile_number"`
	Email        string      `json:"email"`
	Address      string      `json:"address"`
	OrderStatus  OrderStatus `json:"order_status"`
	// OrderDateTime and CompletedAt use TimeLayout in UTC.
	OrderDateTime string   `json:"order_date_time"`
	CompletedAt   string   `json:"completed_at,omitempty"`
	Tenants       []Tenant `json:"tenants"`
}

// FullName returns the owner's display name used when signing bill emails.
func (o *Owner) FullName() string {
	return o.FirstName + " " + o.LastName
}
