// Package booking implements the client-side appointment booking flow against
// the Tebuto API: therapist lookup, the slot catalog with its date-grouped
// views, exclusive slot claiming, booking submission and the flow controller
// that ties them into a single forward-moving state machine.
//
// Each component owns its own state slice and is safe for concurrent reads
// while an operation is in flight, but claim and booking operations themselves
// are expected to be serialized by the caller (e.g. by disabling controls
// while IsLoading reports true).
package booking
