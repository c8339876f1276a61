package order

// QueryOrdersModel represents filter parameters for querying orders.
// Zero-valued fields impose no constraint.
type QueryOrdersModel struct {
	CustomerID string `json:"customer_id,omitempty"`
	Status     string `json:"status,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// ListOrdersModel carries the caller-facing list parameters. Page and Limit
// are 1-based and must both be at least 1.
type ListOrdersModel struct {
	CustomerID string `json:"customer_id,omitempty"`
	Status     string `json:"status,omitempty"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}
