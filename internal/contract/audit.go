package contract

// Audit carries the bookkeeping columns shared by most entities.
type Audit struct {
	CreatedAt  Timestamp  `json:"createdAt"`
	UpdatedAt  *Timestamp `json:"updatedAt,omitempty"`
	CreatedBy  string     `json:"createdBy,omitempty"`
	ModifiedBy string     `json:"modifiedBy,omitempty"`
}
