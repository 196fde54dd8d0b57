package booking

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"tebuto/pkg/client"
	"tebuto/pkg/config"
	"tebuto/pkg/errors"
	"tebuto/pkg/model"
)

// CalendarFileName is the file name used when saving the booking's calendar
// export.
const CalendarFileName = "appointment.ics"

// BookParams carries everything needed to finalize a booking.
type BookParams struct {
	Slot   *model.TimeSlot
	Client model.ClientInfo
	// LocationSelection overrides the slot's location, needed for not-fixed
	// slots. Empty means use the slot's own location.
	LocationSelection model.AppointmentLocation
	// Requirements are the per-category contact requirements from the claim
	// response, enforced before the request is sent.
	Requirements *model.ClaimResponse
}

// Submitter finalizes a claimed slot into a confirmed booking and exposes the
// booking's calendar export.
type Submitter struct {
	mu     sync.Mutex
	events *client.EventClient
	cfg    *config.Config

	booking *model.BookingResponse
	loading bool
	err     error
	success bool
}

func NewSubmitter(cfg *config.Config) (*Submitter, error) {
	if cfg == nil {
		return nil, errors.Configuration("booking submitter requires a configuration")
	}
	return &Submitter{
		events: client.NewEventClient(cfg),
		cfg:    cfg,
	}, nil
}

// Book submits the booking. Client data is normalized and validated first;
// a rejected submission leaves success false and stores the error.
func (s *Submitter) Book(ctx context.Context, params BookParams) (*model.BookingResponse, error) {
	if params.Slot == nil {
		return nil, errors.Validation("a slot is required to book")
	}

	clientInfo := params.Client
	clientInfo.Normalize()
	if err := clientInfo.ValidateFor(params.Requirements); err != nil {
		s.mu.Lock()
		s.err = err
		s.success = false
		s.mu.Unlock()
		return nil, err
	}

	location := params.LocationSelection
	if location == "" {
		location = params.Slot.Location
	}

	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	booking, err := s.events.Book(ctx, s.cfg.TherapistUUID, client.BookingRequest{
		Start:             params.Slot.Start,
		End:               params.Slot.End,
		EventRuleID:       params.Slot.EventRuleID,
		LocationSelection: location,
		ClientInfo:        clientInfo,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err
		s.success = false
		return nil, err
	}

	s.booking = booking
	s.success = true
	return booking, nil
}

// Reset clears booking, loading, error and success back to the initial state.
func (s *Submitter) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.booking = nil
	s.loading = false
	s.err = nil
	s.success = false
}

// WriteCalendar writes the booking's iCalendar payload to w. It is an error
// to call it without a completed booking carrying calendar data.
func (s *Submitter) WriteCalendar(w io.Writer) error {
	s.mu.Lock()
	booking := s.booking
	s.mu.Unlock()

	if booking == nil || booking.ICS == "" {
		return errors.Validation("no calendar data available")
	}
	_, err := io.WriteString(w, booking.ICS)
	return err
}

// DownloadCalendar saves the calendar export as appointment.ics in dir,
// releasing the file handle immediately. Without a booking or calendar
// payload it is a no-op.
func (s *Submitter) DownloadCalendar(dir string) error {
	s.mu.Lock()
	booking := s.booking
	s.mu.Unlock()

	if booking == nil || booking.ICS == "" {
		return nil
	}

	f, err := os.Create(filepath.Join(dir, CalendarFileName))
	if err != nil {
		return err
	}
	if _, err := f.WriteString(booking.ICS); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Submitter) Booking() *model.BookingResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.booking
}

func (s *Submitter) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Submitter) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Submitter) IsSuccess() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.success
}
