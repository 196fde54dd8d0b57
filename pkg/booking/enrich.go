package booking

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tebuto/pkg/model"
)

// EnrichedTimeSlot is a TimeSlot plus render-oriented derived fields.
// Enrichment is pure; the underlying slot is never mutated.
type EnrichedTimeSlot struct {
	model.TimeSlot

	// DateKey is the local calendar date of the start time, YYYY-MM-DD.
	DateKey string
	// TimeString is the local start time of day, HH:MM.
	TimeString string
	DurationMinutes int
	// FormattedPrice is the price in German locale currency format.
	FormattedPrice string
	IsToday bool
	IsPast  bool
}

// Prices are displayed the way the Tebuto frontend does: de-DE, EUR.
var pricePrinter = message.NewPrinter(language.German)

// DateKey formats a time as its local calendar date. Local time is used
// deliberately, a slot at 23:30 belongs to the viewer's day, not UTC's.
func DateKey(t time.Time) string {
	return t.In(time.Local).Format("2006-01-02")
}

// EnrichSlot derives the render fields of a slot against the current time.
func EnrichSlot(slot model.TimeSlot) EnrichedTimeSlot {
	return enrichSlotAt(slot, time.Now())
}

func enrichSlotAt(slot model.TimeSlot, now time.Time) EnrichedTimeSlot {
	start := slot.Start.In(time.Local)
	localNow := now.In(time.Local)

	return EnrichedTimeSlot{
		TimeSlot:        slot,
		DateKey:         DateKey(slot.Start),
		TimeString:      start.Format("15:04"),
		DurationMinutes: int(math.Round(slot.End.Sub(slot.Start).Minutes())),
		FormattedPrice:  formatPrice(slot),
		IsToday:         sameLocalDay(start, localNow),
		IsPast:          slot.Start.Before(now),
	}
}

func formatPrice(slot model.TimeSlot) string {
	return pricePrinter.Sprintf("%.2f €", slot.Price.InexactFloat64())
}

func sameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
