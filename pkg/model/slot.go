package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentLocation is the location mode of an appointment. A "not-fixed"
// slot needs an explicit choice by the client before booking.
type AppointmentLocation string

const (
	LocationVirtual  AppointmentLocation = "virtual"
	LocationOnsite   AppointmentLocation = "onsite"
	LocationNotFixed AppointmentLocation = "not-fixed"
)

// TimeSlot is a single bookable time window offered by a therapist. Slots are
// immutable once fetched; their natural identity is (start, eventRuleId).
type TimeSlot struct {
	Title                string              `json:"title" validate:"required"`
	Start                time.Time           `json:"start" validate:"required"`
	End                  time.Time           `json:"end" validate:"required,gtfield=Start"`
	Location             AppointmentLocation `json:"location" validate:"required,oneof=virtual onsite not-fixed"`
	Color                string              `json:"color"`
	Price                decimal.Decimal     `json:"price"`
	TaxRate              decimal.Decimal     `json:"taxRate"`
	OutageFeeEnabled     bool                `json:"outageFeeEnabled"`
	OutageFeeHours       int                 `json:"outageFeeHours"`
	OutageFeePrice       float64             `json:"outageFeePrice"`
	EventRuleID          int                 `json:"eventRuleId" validate:"required"`
	EventCategoryID      int                 `json:"eventCategoryId"`
	PaymentEnabled       bool                `json:"paymentEnabled"`
	PaymentDuringBooking bool                `json:"paymentDuringBooking"`
	Therapist            TherapistReference  `json:"therapist"`
}

// SlotKey builds the claim identity of a slot.
func SlotKey(start time.Time, eventRuleID int) string {
	return fmt.Sprintf("%s-%d", start.UTC().Format(time.RFC3339), eventRuleID)
}

func (s *TimeSlot) Key() string {
	return SlotKey(s.Start, s.EventRuleID)
}

// SameSlot compares by identity, not by value.
func (s *TimeSlot) SameSlot(other *TimeSlot) bool {
	if other == nil {
		return false
	}
	return s.Start.Equal(other.Start) && s.EventRuleID == other.EventRuleID
}

// EventCategory is the appointment class a slot belongs to, extracted from
// slot listings for filter UIs.
type EventCategory struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
