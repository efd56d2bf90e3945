package model

// SalesPerson represents a row in the sales_people table. HireDate is stored
// as an ISO date string (YYYY-MM-DD), matching the SQLite DATE column. The
// yaml tags let the seed fixture decode straight into this type.
type SalesPerson struct {
	ID       int64   `json:"id" db:"id" yaml:"-"`
	Name     string  `json:"name" db:"name" yaml:"name"`
	Email    string  `json:"email" db:"email" yaml:"email"`
	Region   string  `json:"region" db:"region" yaml:"region"`
	HireDate string  `json:"hire_date" db:"hire_date" yaml:"hire_date"`
	Quota    float64 `json:"quota" db:"quota" yaml:"quota"`
}

// Sale represents a row in the sales table. Every sale references an existing
// sales person.
type Sale struct {
	ID              int64   `json:"id" db:"id"`
	SalesPersonID   int64   `json:"sales_person_id" db:"sales_person_id"`
	SaleDate        string  `json:"sale_date" db:"sale_date"`
	Amount          float64 `json:"amount" db:"amount"`
	ProductCategory string  `json:"product_category" db:"product_category"`
	CustomerName    string  `json:"customer_name" db:"customer_name"`
}
