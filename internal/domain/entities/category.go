package entities

// ServiceCategory represents a flat taxonomy entry for services.
type ServiceCategory struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}
