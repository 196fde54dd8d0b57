package booking

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tebuto/pkg/client"
	"tebuto/pkg/config"
	"tebuto/pkg/errors"
	"tebuto/pkg/model"
)

// FlowOptions configure a Flow.
type FlowOptions struct {
	// Categories filters the slot catalog; falls back to the configuration's
	// default categories.
	Categories []int
	// OnBookingComplete is invoked once per successful booking submission.
	OnBookingComplete func(*model.BookingResponse)
	// OnError is invoked for claim and booking failures. Lookup and catalog
	// failures route the flow to the error step instead.
	OnError func(error)
}

// Flow orchestrates the full booking journey as a forward-moving state
// machine: loading → date-selection → time-selection → booking-form →
// confirmation, with an error step for failed initial fetches. The flow owns
// the selection state; each sub-component exclusively owns its own slice.
type Flow struct {
	mu               sync.Mutex
	step             Step
	selectedDate     *time.Time
	selectedSlot     *model.TimeSlot
	selectedLocation model.AppointmentLocation

	therapist *TherapistLookup
	slots     *SlotCatalog
	claim     *ClaimManager
	submitter *Submitter
	events    *client.EventClient
	cfg       *config.Config

	opts FlowOptions
}

func NewFlow(cfg *config.Config, opts FlowOptions) (*Flow, error) {
	if cfg == nil {
		return nil, errors.Configuration("booking flow requires a configuration")
	}

	therapist, err := NewTherapistLookup(cfg)
	if err != nil {
		return nil, err
	}
	slots, err := NewSlotCatalog(cfg, CatalogOptions{Categories: opts.Categories})
	if err != nil {
		return nil, err
	}
	claim, err := NewClaimManager(cfg)
	if err != nil {
		return nil, err
	}
	submitter, err := NewSubmitter(cfg)
	if err != nil {
		return nil, err
	}

	return &Flow{
		step:      StepLoading,
		therapist: therapist,
		slots:     slots,
		claim:     claim,
		submitter: submitter,
		events:    client.NewEventClient(cfg),
		cfg:       cfg,
		opts:      opts,
	}, nil
}

// Start runs the two initial fetches in parallel and reconciles the step.
// The returned error is the first fetch failure, also reflected in Err() and
// the error step; callers rendering from flow state may ignore it.
func (f *Flow) Start(ctx context.Context) error {
	g := new(errgroup.Group)
	g.Go(func() error { return f.therapist.Fetch(ctx) })
	g.Go(func() error { return f.slots.Fetch(ctx) })
	err := g.Wait()

	f.Reconcile()
	return err
}

// Reconcile advances the loading step once both initial fetches have settled.
// It runs automatically after every flow operation that touches a dependency;
// consumers driving sub-components directly can call it themselves.
func (f *Flow) Reconcile() {
	therapist := f.therapist.status()
	slots := f.slots.status()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = nextStep(f.step, therapist, slots)
}

// SelectDate sets the selected date and abandons any in-progress slot
// selection. A non-nil date moves the flow to time selection; nil only clears
// the selection.
func (f *Flow) SelectDate(date *time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectedDate = date
	f.selectedSlot = nil
	f.selectedLocation = ""
	if date != nil {
		f.step = StepTimeSelection
	}
}

// SelectedDateSlots returns the enriched slots of the selected date.
func (f *Flow) SelectedDateSlots() []EnrichedTimeSlot {
	f.mu.Lock()
	date := f.selectedDate
	f.mu.Unlock()

	if date == nil {
		return nil
	}
	return f.slots.SlotsForDate(*date)
}

// SelectSlot claims a slot and, on success, moves to the booking form. A nil
// slot releases the current claim and clears the selection without changing
// step. Claim failures leave step and selection untouched and report through
// OnError.
func (f *Flow) SelectSlot(ctx context.Context, slot *model.TimeSlot) bool {
	if slot == nil {
		f.claim.Unclaim(ctx)
		f.mu.Lock()
		f.selectedSlot = nil
		f.selectedLocation = ""
		f.mu.Unlock()
		return true
	}

	if _, err := f.claim.Claim(ctx, slot); err != nil {
		if f.opts.OnError != nil {
			f.opts.OnError(err)
		}
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectedSlot = slot
	// Fixed-location slots need no user choice.
	if slot.Location != model.LocationNotFixed {
		f.selectedLocation = slot.Location
	}
	f.step = StepBookingForm
	return true
}

// SetLocation records the location choice for a not-fixed slot. No step
// change.
func (f *Flow) SetLocation(location model.AppointmentLocation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectedLocation = location
}

// SubmitBooking finalizes the selected slot with the given client data.
// Without a selected slot it returns false without any network call. On
// success the completion callback fires and the flow moves to confirmation.
func (f *Flow) SubmitBooking(ctx context.Context, clientInfo model.ClientInfo) bool {
	f.mu.Lock()
	slot := f.selectedSlot
	location := f.selectedLocation
	f.mu.Unlock()

	if slot == nil {
		return false
	}
	if location == "" {
		location = slot.Location
	}

	booking, err := f.submitter.Book(ctx, BookParams{
		Slot:              slot,
		Client:            clientInfo,
		LocationSelection: location,
		Requirements:      f.claim.ClaimResponse(),
	})
	if err != nil {
		if f.opts.OnError != nil {
			f.opts.OnError(err)
		}
		return false
	}

	if f.opts.OnBookingComplete != nil {
		f.opts.OnBookingComplete(booking)
	}

	f.mu.Lock()
	f.step = StepConfirmation
	f.mu.Unlock()
	return true
}

// Reset starts the flow over: back to loading, selections cleared, booking
// state reset, any claim released, and the slot catalog refetched. After a
// successful refetch reconciliation advances straight to date selection.
func (f *Flow) Reset(ctx context.Context) error {
	f.mu.Lock()
	f.step = StepLoading
	f.selectedDate = nil
	f.selectedSlot = nil
	f.selectedLocation = ""
	f.mu.Unlock()

	f.submitter.Reset()
	f.claim.Unclaim(ctx)
	err := f.slots.Refetch(ctx)

	f.Reconcile()
	return err
}

// GoToStep overrides the current step unconditionally. Meant for backward
// navigation in the consuming UI; sub-component state is left alone.
func (f *Flow) GoToStep(step Step) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = step
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) SelectedDate() *time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selectedDate
}

func (f *Flow) SelectedSlot() *model.TimeSlot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selectedSlot
}

// SelectedLocation is empty until a fixed-location slot is claimed or
// SetLocation is called.
func (f *Flow) SelectedLocation() model.AppointmentLocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selectedLocation
}

// PaymentConfiguration fetches the payment options the therapist offers. The
// result is not cached; it is only needed around the booking form.
func (f *Flow) PaymentConfiguration(ctx context.Context) (*model.PaymentConfiguration, error) {
	return f.events.PaymentConfiguration(ctx, f.cfg.TherapistUUID)
}

func (f *Flow) Therapist() *TherapistLookup { return f.therapist }
func (f *Flow) Slots() *SlotCatalog         { return f.slots }
func (f *Flow) Claim() *ClaimManager        { return f.claim }
func (f *Flow) Booking() *Submitter         { return f.submitter }

// IsLoading reports whether any sub-component has an operation in flight.
func (f *Flow) IsLoading() bool {
	return f.therapist.IsLoading() ||
		f.slots.IsLoading() ||
		f.claim.IsLoading() ||
		f.submitter.IsLoading()
}

// Err returns the first error among therapist lookup, slot catalog, claim
// manager and booking submission, in that priority order.
func (f *Flow) Err() error {
	if err := f.therapist.Err(); err != nil {
		return err
	}
	if err := f.slots.Err(); err != nil {
		return err
	}
	if err := f.claim.Err(); err != nil {
		return err
	}
	return f.submitter.Err()
}
