package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"tebuto/pkg/errors"
	"tebuto/pkg/sanitizer"
)

var validate = validator.New()

type ClientAddress struct {
	StreetAndNumber       string `json:"streetAndNumber" validate:"required"`
	AdditionalInformation string `json:"additionalInformation,omitempty"`
	City                  string `json:"city" validate:"required"`
	Zip                   string `json:"zip" validate:"required"`
}

// ClientInfo is the contact data a client submits with a booking. First name,
// last name and email are always required; phone and address become required
// when the claimed category demands them.
type ClientInfo struct {
	FirstName string         `json:"firstName" validate:"required,min=2,max=100"`
	LastName  string         `json:"lastName" validate:"required,min=2,max=100"`
	Email     string         `json:"email" validate:"required,email"`
	Phone     string         `json:"phone,omitempty" validate:"omitempty,e164"`
	Address   *ClientAddress `json:"address,omitempty"`
	Notes     string         `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// Normalize cleans whitespace and formats the phone number as E.164 in place.
func (c *ClientInfo) Normalize() {
	c.FirstName = sanitizer.NormalizeName(c.FirstName)
	c.LastName = sanitizer.NormalizeName(c.LastName)
	c.Email = sanitizer.NormalizeEmail(c.Email)
	c.Phone = sanitizer.NormalizePhone(c.Phone)
	c.Notes = sanitizer.NormalizeNotes(c.Notes)
}

func (c *ClientInfo) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, errors.CodeValidation, fmt.Sprintf("invalid client info: %v", err))
	}
	return nil
}

// ValidateFor additionally enforces the per-category requirements reported by
// a claim response.
func (c *ClientInfo) ValidateFor(claim *ClaimResponse) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if claim == nil {
		return nil
	}
	if claim.RequirePhoneNumber && c.Phone == "" {
		return errors.Validation("a phone number is required for this appointment category")
	}
	if claim.RequireAddress && c.Address == nil {
		return errors.Validation("an address is required for this appointment category")
	}
	return nil
}
