package masterdata

import "time"

// Company is a customer or manufacturer that owns brands.
type Company struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Brand belongs to a company.
type Brand struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Category groups products (e.g. "Formal", "Sports").
type Category struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
