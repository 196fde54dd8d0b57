package mockapi

import (
	"time"

	"github.com/shopspring/decimal"

	"tebuto/pkg/model"
)

// TherapistUUID is the calendar owner all fixtures belong to.
const TherapistUUID = "00000000-0000-0000-0000-000000000000"

const calendarFixture = "BEGIN:VCALENDAR\nVERSION:2.0\nEND:VCALENDAR"

func therapistFixture() model.Therapist {
	return model.Therapist{
		Name:      "Dr. Maria Müller",
		FirstName: "Maria",
		LastName:  "Müller",
		Address: model.Address{
			StreetAndNumber: "Praxisweg 12",
			City:            model.City{Name: "Berlin", Zip: "10115"},
		},
		ShowWatermark: true,
	}
}

func paymentConfigurationFixture() model.PaymentConfiguration {
	return model.PaymentConfiguration{
		PaymentTypes:         []string{"online", "on-site"},
		OnlinePaymentMethods: []string{"card", "sepa_debit"},
	}
}

type slotTemplate struct {
	title      string
	location   model.AppointmentLocation
	color      string
	price      string
	categoryID int
	duration   time.Duration
}

var slotTemplates = []slotTemplate{
	{"Erstgespräch", model.LocationOnsite, "#00b4a9", "80.00", 1, 50 * time.Minute},
	{"Einzeltherapie", model.LocationNotFixed, "#3b82f6", "120.00", 2, 50 * time.Minute},
	{"Online-Beratung", model.LocationVirtual, "#8b5cf6", "90.00", 3, 30 * time.Minute},
}

var slotHours = []int{9, 10, 11, 14, 15, 16}

// GenerateSlots builds a deterministic two-week schedule starting at the day
// of "from". Times already past at "from" are left out, matching what a live
// calendar would return.
func GenerateSlots(from time.Time) []model.TimeSlot {
	var slots []model.TimeSlot
	taxRate := decimal.RequireFromString("19.00")

	for day := 0; day < 14; day++ {
		date := from.AddDate(0, 0, day)
		for i, hour := range slotHours {
			start := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, from.Location())
			if !start.After(from) {
				continue
			}
			tmpl := slotTemplates[(day+i)%len(slotTemplates)]
			slots = append(slots, model.TimeSlot{
				Title:           tmpl.title,
				Start:           start,
				End:             start.Add(tmpl.duration),
				Location:        tmpl.location,
				Color:           tmpl.color,
				Price:           decimal.RequireFromString(tmpl.price),
				TaxRate:         taxRate,
				EventRuleID:     day*100 + hour,
				EventCategoryID: tmpl.categoryID,
				Therapist: model.TherapistReference{
					ID:   1,
					UUID: TherapistUUID,
					Name: "Dr. Maria Müller",
				},
			})
		}
	}
	return slots
}
