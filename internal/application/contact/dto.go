package contact

import (
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/contact"
)

// ContactRequest carries a contact's fields for create and update
type ContactRequest struct {
	ProjectID *uuid.UUID `json:"project_id"`
	Name      string     `json:"name" binding:"required,min=1,max=200"`
	Company   string     `json:"company" binding:"max=200"`
	Role      string     `json:"role" binding:"omitempty,oneof=broker lender engineer attorney consultant builder other"`
	Email     string     `json:"email" binding:"omitempty,max=254"`
	Phone     string     `json:"phone" binding:"omitempty,max=40"`
	Notes     string     `json:"notes" binding:"max=4000"`
}

// ContactListFilter represents filter options for the contact list
type ContactListFilter struct {
	Search    string     `form:"search"`
	ProjectID *uuid.UUID `form:"-"`
	Role      string     `form:"role"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID        uuid.UUID  `json:"id"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	Name      string     `json:"name"`
	Company   string     `json:"company"`
	Role      string     `json:"role"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Version   int        `json:"version"`
}

// ToContactResponse converts a domain Contact to ContactResponse
func ToContactResponse(c *contact.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		ProjectID: c.ProjectID,
		Name:      c.Name,
		Company:   c.Company,
		Role:      string(c.Role),
		Email:     c.Email,
		Phone:     c.Phone,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

func (r ContactRequest) details() contact.Details {
	return contact.Details{
		ProjectID: r.ProjectID,
		Name:      r.Name,
		Company:   r.Company,
		Role:      contact.Role(r.Role),
		Email:     r.Email,
		Phone:     r.Phone,
		Notes:     r.Notes,
	}
}
