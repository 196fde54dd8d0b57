// booking-demo walks the full booking journey against an API: fetch the
// therapist and their slots, claim the first bookable slot, submit a demo
// booking and save the calendar export.
//
// Without TEBUTO_THERAPIST_UUID it spins up the built-in mock API and runs
// against that, which makes it a self-contained smoke run.
package main

import (
	"context"
	"os"
	"time"

	"tebuto/internal/mockapi"
	"tebuto/pkg/booking"
	"tebuto/pkg/config"
	"tebuto/pkg/logger"
	"tebuto/pkg/model"
)

const (
	envTherapistUUID = "TEBUTO_THERAPIST_UUID"
	envOutputDir     = "TEBUTO_OUTPUT_DIR"
)

func main() {
	log := logger.New(logger.Config{
		Level:   getEnv(config.EnvLogLevel, logger.INFO),
		Format:  getEnv(config.EnvLogFormat, logger.TEXT),
		Service: "booking-demo",
	})

	therapistUUID := os.Getenv(envTherapistUUID)
	var opts []config.Option
	if therapistUUID == "" {
		srv := mockapi.NewServer()
		defer srv.Close()
		therapistUUID = mockapi.TherapistUUID
		opts = append(opts, config.WithAPIBaseURL(srv.URL()))
		log.Info("No therapist configured, using the built-in mock API", "url", srv.URL())
	}
	opts = append(opts, config.WithLogger(log))

	cfg, err := config.New(therapistUUID, opts...)
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}

	log.Info("Starting booking demo", "therapist_uuid", cfg.TherapistUUID, "base_url", cfg.APIBaseURL)
	if err := run(cfg, log); err != nil {
		log.Fatal("Booking demo failed", "error", err)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	flow, err := booking.NewFlow(cfg, booking.FlowOptions{
		OnBookingComplete: func(b *model.BookingResponse) {
			log.Info("Booking confirmed", "booking_id", b.ID, "location", b.LocationSelection)
		},
		OnError: func(err error) {
			log.Error("Flow error", "error", err)
		},
	})
	if err != nil {
		return err
	}

	if err := flow.Start(ctx); err != nil {
		return err
	}

	therapist := flow.Therapist().Therapist()
	log.Info("Therapist loaded",
		"name", therapist.Name,
		"city", therapist.Address.City.Name,
	)

	for _, cat := range flow.Slots().Categories() {
		log.Info("Category offered", "id", cat.ID, "name", cat.Name, "color", cat.Color)
	}

	dates := flow.Slots().AvailableDates()
	if len(dates) == 0 {
		log.Warn("No bookable dates, nothing to do")
		return nil
	}
	log.Info("Schedule loaded", "total_slots", flow.Slots().TotalSlots(), "bookable_dates", len(dates))

	flow.SelectDate(&dates[0])
	slots := flow.SelectedDateSlots()
	log.Info("Date selected", "date", dates[0].Format("2006-01-02"), "slots", len(slots))
	for _, slot := range slots {
		log.Info("Slot available",
			"time", slot.TimeString,
			"title", slot.Title,
			"duration_minutes", slot.DurationMinutes,
			"price", slot.FormattedPrice,
		)
	}

	selected := slots[0].TimeSlot
	if !flow.SelectSlot(ctx, &selected) {
		return flow.Err()
	}
	log.Info("Slot claimed", "title", selected.Title, "start", selected.Start)

	if flow.SelectedLocation() == "" {
		flow.SetLocation(model.LocationVirtual)
		log.Info("Location chosen", "location", flow.SelectedLocation())
	}

	if !flow.SubmitBooking(ctx, model.ClientInfo{
		FirstName: "Max",
		LastName:  "Mustermann",
		Email:     "max.mustermann@example.com",
		Phone:     "0151 23456789",
	}) {
		return flow.Err()
	}

	outDir := getEnv(envOutputDir, ".")
	if err := flow.Booking().DownloadCalendar(outDir); err != nil {
		return err
	}
	log.Info("Calendar export saved", "file", booking.CalendarFileName, "dir", outDir)

	paymentConfig, err := flow.PaymentConfiguration(ctx)
	if err != nil {
		log.Warn("Could not fetch payment configuration", "error", err)
		return nil
	}
	log.Info("Payment configuration",
		"payment_types", paymentConfig.PaymentTypes,
		"online_methods", paymentConfig.OnlinePaymentMethods,
	)
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
