package models

// Profile holds the editable contact document in the profiles collection,
// one per owner uid. A missing document is reported as hasProfile=false by
// the profile endpoints, never as an error.
type Profile struct {
	Name      string `json:"name"`
	District  string `json:"district"`
	Address   string `json:"address"`
	Telephone string `json:"telephone"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
