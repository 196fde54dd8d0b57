package booking

// Step is a stage of the booking flow state machine.
type Step string

const (
	StepLoading       Step = "loading"
	StepDateSelection Step = "date-selection"
	StepTimeSelection Step = "time-selection"
	StepBookingForm   Step = "booking-form"
	StepConfirmation  Step = "confirmation"
	StepError         Step = "error"
)

// asyncStatus is the loading/error snapshot of a fetch-backed component.
type asyncStatus struct {
	loading bool
	err     error
}

// nextStep reconciles the loading step against the two initial fetches. It is
// evaluated after every dependency update instead of relying on a reactive
// framework: once both fetches have settled the flow advances to date
// selection, or to the error step when either failed. All other steps are
// driven by explicit commands and pass through unchanged.
func nextStep(current Step, therapist, slots asyncStatus) Step {
	if current != StepLoading {
		return current
	}
	if therapist.loading || slots.loading {
		return current
	}
	if therapist.err != nil || slots.err != nil {
		return StepError
	}
	return StepDateSelection
}
