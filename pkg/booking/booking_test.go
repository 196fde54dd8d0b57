package booking

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tebuto/internal/mockapi"
	"tebuto/pkg/config"
	"tebuto/pkg/logger"
	"tebuto/pkg/model"
)

func newTestServer(t *testing.T) *mockapi.Server {
	t.Helper()
	srv := mockapi.NewServer()
	t.Cleanup(srv.Close)
	return srv
}

func newTestConfig(t *testing.T, srv *mockapi.Server) *config.Config {
	t.Helper()
	cfg, err := config.New(
		mockapi.TherapistUUID,
		config.WithAPIBaseURL(srv.URL()),
		config.WithLogger(logger.Discard()),
	)
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	return cfg
}

func makeSlot(title string, start time.Time, duration time.Duration, location model.AppointmentLocation, categoryID, eventRuleID int) model.TimeSlot {
	return model.TimeSlot{
		Title:           title,
		Start:           start,
		End:             start.Add(duration),
		Location:        location,
		Color:           "#00b4a9",
		Price:           decimal.RequireFromString("80.00"),
		TaxRate:         decimal.RequireFromString("19.00"),
		EventRuleID:     eventRuleID,
		EventCategoryID: categoryID,
	}
}

func validClient() model.ClientInfo {
	return model.ClientInfo{
		FirstName: "Anna",
		LastName:  "Schmidt",
		Email:     "anna.schmidt@example.com",
	}
}
