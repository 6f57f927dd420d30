// Package contact stores the people a project deals with: brokers, lenders,
// consultants.
package contact

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/shared"
)

// Role is a contact's role on a project
type Role string

const (
	RoleBroker     Role = "broker"
	RoleLender     Role = "lender"
	RoleEngineer   Role = "engineer"
	RoleAttorney   Role = "attorney"
	RoleConsultant Role = "consultant"
	RoleBuilder    Role = "builder"
	RoleOther      Role = "other"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleBroker, RoleLender, RoleEngineer, RoleAttorney, RoleConsultant, RoleBuilder, RoleOther:
		return true
	}
	return false
}

// PhoneNormalizer turns user-entered phone numbers into E.164
type PhoneNormalizer interface {
	Normalize(raw string) (string, error)
}

// Contact is a person or firm, optionally tied to one project.
type Contact struct {
	shared.BaseAggregateRoot
	ProjectID *uuid.UUID `gorm:"type:uuid;index"`
	Name      string     `gorm:"type:varchar(200);not null"`
	Company   string     `gorm:"type:varchar(200)"`
	Role      Role       `gorm:"type:varchar(20);not null"`
	Email     string     `gorm:"type:varchar(254)"`
	Phone     string     `gorm:"type:varchar(20)"`
	Notes     string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Contact) TableName() string {
	return "contacts"
}

// Details are the editable fields of a contact
type Details struct {
	ProjectID *uuid.UUID
	Name      string
	Company   string
	Role      Role
	Email     string
	Phone     string
	Notes     string
}

// NewContact creates a contact, normalizing its phone number
func NewContact(d Details, phones PhoneNormalizer) (*Contact, error) {
	c := &Contact{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := c.apply(d, phones); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the contact's fields
func (c *Contact) Update(d Details, phones PhoneNormalizer) error {
	if err := c.apply(d, phones); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

func (c *Contact) apply(d Details, phones PhoneNormalizer) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewInvalidInputError("contact name cannot be empty")
	}
	role := d.Role
	if role == "" {
		role = RoleOther
	}
	if !role.IsValid() {
		return shared.NewInvalidInputError("unknown contact role %q", d.Role)
	}
	email := strings.TrimSpace(d.Email)
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil {
			return shared.NewInvalidInputError("invalid email address %q", email)
		}
		email = strings.ToLower(addr.Address)
	}
	phone := strings.TrimSpace(d.Phone)
	if phone != "" {
		normalized, err := phones.Normalize(phone)
		if err != nil {
			return shared.NewInvalidInputError("invalid phone number %q", phone).Wrap(err)
		}
		phone = normalized
	}
	c.ProjectID = d.ProjectID
	c.Name = name
	c.Company = strings.TrimSpace(d.Company)
	c.Role = role
	c.Email = email
	c.Phone = phone
	c.Notes = strings.TrimSpace(d.Notes)
	return nil
}
