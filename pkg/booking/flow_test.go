package booking

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tebuto/internal/mockapi"
	"tebuto/pkg/model"
)

func newTestFlow(t *testing.T, srv *mockapi.Server, opts FlowOptions) *Flow {
	t.Helper()
	flow, err := NewFlow(newTestConfig(t, srv), opts)
	if err != nil {
		t.Fatalf("NewFlow: %v", err)
	}
	return flow
}

// flowFixtureSlots serves a small deterministic schedule: one fixed-location
// slot and one slot needing a location choice, on two consecutive days.
func flowFixtureSlots(t *testing.T, srv *mockapi.Server) (onsite, notFixed model.TimeSlot) {
	t.Helper()
	base := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	onsite = makeSlot("Erstgespräch", base, 50*time.Minute, model.LocationOnsite, 1, 101)
	notFixed = makeSlot("Einzeltherapie", base.AddDate(0, 0, 1), 50*time.Minute, model.LocationNotFixed, 2, 201)
	srv.SetSlots([]model.TimeSlot{onsite, notFixed})
	return onsite, notFixed
}

func startedFlow(t *testing.T, srv *mockapi.Server, opts FlowOptions) *Flow {
	t.Helper()
	flow := newTestFlow(t, srv, opts)
	if err := flow.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return flow
}

func TestFlowStart(t *testing.T) {
	srv := newTestServer(t)
	flow := newTestFlow(t, srv, FlowOptions{})

	if flow.Step() != StepLoading {
		t.Errorf("initial step = %q, want %q", flow.Step(), StepLoading)
	}

	if err := flow.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if flow.Step() != StepDateSelection {
		t.Errorf("step = %q, want %q", flow.Step(), StepDateSelection)
	}
	if flow.Therapist().Therapist() == nil {
		t.Error("expected the therapist profile after Start")
	}
	if flow.Slots().TotalSlots() == 0 {
		t.Error("expected slots after Start")
	}
	if flow.IsLoading() {
		t.Error("expected nothing in flight after Start")
	}
	if flow.Err() != nil {
		t.Errorf("unexpected error: %v", flow.Err())
	}
}

func TestFlowStartFailure(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		wantErr  string
	}{
		{"therapist fetch fails", mockapi.EndpointTherapist, "Failed to fetch therapist: Internal Server Error"},
		{"slot fetch fails", mockapi.EndpointEvents, "Failed to fetch slots: Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			srv.ForceStatus(tt.endpoint, 500)
			flow := newTestFlow(t, srv, FlowOptions{})

			if err := flow.Start(context.Background()); err == nil {
				t.Fatal("expected Start to fail")
			}

			if flow.Step() != StepError {
				t.Errorf("step = %q, want %q", flow.Step(), StepError)
			}
			err := flow.Err()
			if err == nil {
				t.Fatal("expected Err to report the failure")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestFlowSelectDate(t *testing.T) {
	srv := newTestServer(t)
	flowFixtureSlots(t, srv)
	flow := startedFlow(t, srv, FlowOptions{})

	dates := flow.Slots().AvailableDates()
	if len(dates) != 2 {
		t.Fatalf("got %d available dates, want 2", len(dates))
	}

	flow.SelectDate(&dates[0])

	if flow.Step() != StepTimeSelection {
		t.Errorf("step = %q, want %q", flow.Step(), StepTimeSelection)
	}
	if flow.SelectedDate() == nil {
		t.Fatal("expected a selected date")
	}

	slots := flow.SelectedDateSlots()
	if len(slots) != 1 {
		t.Fatalf("got %d slots for the selected date, want 1", len(slots))
	}
	if slots[0].Title != "Erstgespräch" {
		t.Errorf("slot title = %q", slots[0].Title)
	}

	// Clearing the date keeps the step but drops the selection.
	flow.SelectDate(nil)
	if flow.SelectedDate() != nil {
		t.Error("expected the date selection to clear")
	}
	if flow.SelectedDateSlots() != nil {
		t.Error("expected no slots without a selected date")
	}
	if flow.Step() != StepTimeSelection {
		t.Errorf("step = %q, want %q", flow.Step(), StepTimeSelection)
	}
}

func TestFlowSelectSlotFixedLocation(t *testing.T) {
	srv := newTestServer(t)
	onsite, _ := flowFixtureSlots(t, srv)
	flow := startedFlow(t, srv, FlowOptions{})

	if !flow.SelectSlot(context.Background(), &onsite) {
		t.Fatal("expected the slot selection to succeed")
	}

	if flow.Step() != StepBookingForm {
		t.Errorf("step = %q, want %q", flow.Step(), StepBookingForm)
	}
	if flow.SelectedSlot() == nil || !flow.SelectedSlot().SameSlot(&onsite) {
		t.Error("expected the slot to be selected")
	}
	if flow.SelectedLocation() != model.LocationOnsite {
		t.Errorf("location = %q, want %q", flow.SelectedLocation(), model.LocationOnsite)
	}
	if !flow.Claim().IsClaimed(&onsite) {
		t.Error("expected the slot to be claimed")
	}
}

func TestFlowSelectSlotNotFixedLocation(t *testing.T) {
	srv := newTestServer(t)
	_, notFixed := flowFixtureSlots(t, srv)
	flow := startedFlow(t, srv, FlowOptions{})

	if !flow.SelectSlot(context.Background(), &notFixed) {
		t.Fatal("expected the slot selection to succeed")
	}

	// A not-fixed slot waits for an explicit location choice.
	if flow.SelectedLocation() != "" {
		t.Errorf("location = %q, want empty", flow.SelectedLocation())
	}

	flow.SetLocation(model.LocationVirtual)
	if flow.SelectedLocation() != model.LocationVirtual {
		t.Errorf("location = %q, want %q", flow.SelectedLocation(), model.LocationVirtual)
	}
	if flow.Step() != StepBookingForm {
		t.Errorf("step = %q, want %q", flow.Step(), StepBookingForm)
	}
}

func TestFlowSelectSlotClaimFailure(t *testing.T) {
	srv := newTestServer(t)
	onsite, _ := flowFixtureSlots(t, srv)
	srv.SetUnavailable(onsite.Key())

	var reported []error
	flow := startedFlow(t, srv, FlowOptions{
		OnError: func(err error) { reported = append(reported, err) },
	})

	if flow.SelectSlot(context.Background(), &onsite) {
		t.Fatal("expected the slot selection to fail")
	}

	if flow.Step() != StepDateSelection {
		t.Errorf("step = %q, a failed claim must not advance", flow.Step())
	}
	if flow.SelectedSlot() != nil {
		t.Error("expected no slot selection after a failed claim")
	}
	if len(reported) != 1 {
		t.Fatalf("got %d reported errors, want 1", len(reported))
	}
	if reported[0].Error() != "This time slot is no longer available" {
		t.Errorf("reported error = %q", reported[0].Error())
	}
}

func TestFlowSelectSlotNilReleasesClaim(t *testing.T) {
	srv := newTestServer(t)
	onsite, _ := flowFixtureSlots(t, srv)
	flow := startedFlow(t, srv, FlowOptions{})

	if !flow.SelectSlot(context.Background(), &onsite) {
		t.Fatal("expected the slot selection to succeed")
	}
	if !flow.SelectSlot(context.Background(), nil) {
		t.Fatal("expected the nil selection to succeed")
	}

	if flow.SelectedSlot() != nil || flow.SelectedLocation() != "" {
		t.Error("expected the slot selection to clear")
	}
	if srv.Claimed(onsite.Key()) {
		t.Error("expected the claim to be released")
	}
}

func TestFlowSubmitBooking(t *testing.T) {
	srv := newTestServer(t)
	_, notFixed := flowFixtureSlots(t, srv)

	var completed []*model.BookingResponse
	flow := startedFlow(t, srv, FlowOptions{
		OnBookingComplete: func(b *model.BookingResponse) { completed = append(completed, b) },
	})

	if !flow.SelectSlot(context.Background(), &notFixed) {
		t.Fatal("expected the slot selection to succeed")
	}
	flow.SetLocation(model.LocationOnsite)

	if !flow.SubmitBooking(context.Background(), validClient()) {
		t.Fatal("expected the booking to succeed")
	}

	if flow.Step() != StepConfirmation {
		t.Errorf("step = %q, want %q", flow.Step(), StepConfirmation)
	}
	if len(completed) != 1 {
		t.Fatalf("completion callback fired %d times, want 1", len(completed))
	}
	if got := srv.LastBooking()["locationSelection"]; got != "onsite" {
		t.Errorf("locationSelection = %v, want onsite", got)
	}

	dir := t.TempDir()
	if err := flow.Booking().DownloadCalendar(dir); err != nil {
		t.Fatalf("DownloadCalendar: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, CalendarFileName)); err != nil {
		t.Errorf("expected the calendar file to exist: %v", err)
	}
}

func TestFlowSubmitBookingWithoutSlot(t *testing.T) {
	srv := newTestServer(t)
	flowFixtureSlots(t, srv)
	flow := startedFlow(t, srv, FlowOptions{})

	if flow.SubmitBooking(context.Background(), validClient()) {
		t.Fatal("expected the booking to be rejected")
	}
	if got := srv.Calls(mockapi.EndpointBook); got != 0 {
		t.Errorf("book calls = %d, want 0", got)
	}
}

func TestFlowSubmitBookingFailure(t *testing.T) {
	srv := newTestServer(t)
	onsite, _ := flowFixtureSlots(t, srv)
	srv.ForceStatus(mockapi.EndpointBook, 500)

	var reported []error
	flow := startedFlow(t, srv, FlowOptions{
		OnError: func(err error) { reported = append(reported, err) },
	})

	if !flow.SelectSlot(context.Background(), &onsite) {
		t.Fatal("expected the slot selection to succeed")
	}
	if flow.SubmitBooking(context.Background(), validClient()) {
		t.Fatal("expected the booking to fail")
	}

	if flow.Step() != StepBookingForm {
		t.Errorf("step = %q, a failed booking must not advance", flow.Step())
	}
	if len(reported) != 1 {
		t.Fatalf("got %d reported errors, want 1", len(reported))
	}
	if reported[0].Error() != "Booking failed: Internal Server Error" {
		t.Errorf("reported error = %q", reported[0].Error())
	}
}

func TestFlowReset(t *testing.T) {
	srv := newTestServer(t)
	onsite, _ := flowFixtureSlots(t, srv)
	flow := startedFlow(t, srv, FlowOptions{})

	dates := flow.Slots().AvailableDates()
	flow.SelectDate(&dates[0])
	if !flow.SelectSlot(context.Background(), &onsite) {
		t.Fatal("expected the slot selection to succeed")
	}
	if !flow.SubmitBooking(context.Background(), validClient()) {
		t.Fatal("expected the booking to succeed")
	}

	eventCalls := srv.Calls(mockapi.EndpointEvents)

	if err := flow.Reset(context.Background()); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if flow.Step() != StepDateSelection {
		t.Errorf("step = %q, want %q", flow.Step(), StepDateSelection)
	}
	if flow.SelectedDate() != nil || flow.SelectedSlot() != nil || flow.SelectedLocation() != "" {
		t.Error("expected all selections to clear")
	}
	if flow.Booking().Booking() != nil {
		t.Error("expected the booking state to clear")
	}
	if got := srv.Calls(mockapi.EndpointEvents); got != eventCalls+1 {
		t.Errorf("event calls = %d, want %d", got, eventCalls+1)
	}
	if srv.Claimed(onsite.Key()) {
		t.Error("expected the claim to be released")
	}
}

func TestFlowGoToStep(t *testing.T) {
	srv := newTestServer(t)
	onsite, _ := flowFixtureSlots(t, srv)
	flow := startedFlow(t, srv, FlowOptions{})

	if !flow.SelectSlot(context.Background(), &onsite) {
		t.Fatal("expected the slot selection to succeed")
	}

	flow.GoToStep(StepTimeSelection)
	if flow.Step() != StepTimeSelection {
		t.Errorf("step = %q, want %q", flow.Step(), StepTimeSelection)
	}
	// Navigation alone leaves the selection alone.
	if flow.SelectedSlot() == nil {
		t.Error("expected the slot selection to survive navigation")
	}
}

func TestFlowPaymentConfiguration(t *testing.T) {
	srv := newTestServer(t)
	flowFixtureSlots(t, srv)
	flow := startedFlow(t, srv, FlowOptions{})

	paymentConfig, err := flow.PaymentConfiguration(context.Background())
	if err != nil {
		t.Fatalf("PaymentConfiguration: %v", err)
	}
	if len(paymentConfig.PaymentTypes) == 0 {
		t.Error("expected payment types")
	}

	srv.ForceStatus(mockapi.EndpointPaymentConfig, 500)
	_, err = flow.PaymentConfiguration(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	want := "Failed to fetch payment configuration: Internal Server Error"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestFlowErrPriority(t *testing.T) {
	srv := newTestServer(t)
	onsite, _ := flowFixtureSlots(t, srv)
	srv.SetUnavailable(onsite.Key())

	flow := newTestFlow(t, srv, FlowOptions{})
	srv.ForceStatus(mockapi.EndpointTherapist, 500)
	if err := flow.Start(context.Background()); err == nil {
		t.Fatal("expected Start to fail")
	}

	flow.SelectSlot(context.Background(), &onsite)

	// Both the lookup and the claim hold errors; the lookup wins.
	if flow.Claim().Err() == nil {
		t.Fatal("expected a claim error")
	}
	err := flow.Err()
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "Failed to fetch therapist: Internal Server Error" {
		t.Errorf("error = %q", err.Error())
	}
}
