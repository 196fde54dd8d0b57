package model

import "time"

// ClaimResponse is the outcome of reserving a slot. It is only meaningful
// paired with the slot it was requested for.
type ClaimResponse struct {
	IsAvailable        bool `json:"isAvailable"`
	RequirePhoneNumber bool `json:"requirePhoneNumber"`
	RequireAddress     bool `json:"requireAddress"`
}

// BookingResponse is the server-confirmed booking record.
type BookingResponse struct {
	ID                int64               `json:"id"`
	CreatedAt         time.Time           `json:"createdAt"`
	LocationSelection AppointmentLocation `json:"locationSelection"`
	IsConfirmed       bool                `json:"isConfirmed"`
	IsOutage          bool                `json:"isOutage"`
	ICS               string              `json:"ics"`
}

type PaymentConfiguration struct {
	PaymentTypes         []string `json:"paymentTypes"`
	OnlinePaymentMethods []string `json:"onlinePaymentMethods"`
}
