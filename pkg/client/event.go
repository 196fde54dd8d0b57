package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tebuto/pkg/config"
	"tebuto/pkg/errors"
	"tebuto/pkg/model"
)

const (
	msgFetchSlotsFailed   = "Failed to fetch slots"
	msgClaimSlotFailed    = "Failed to claim slot"
	msgUnclaimSlotFailed  = "Failed to unclaim slot"
	msgBookingFailed      = "Booking failed"
	msgPaymentConfnFailed = "Failed to fetch payment configuration"
)

// EventClient talks to the per-therapist event endpoints: slot listing,
// claim/unclaim and booking.
type EventClient struct {
	httpClient *HttpClient
}

func NewEventClient(cfg *config.Config) *EventClient {
	return &EventClient{
		httpClient: NewHttpClient(cfg),
	}
}

type ClaimRequest struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	EventRuleID int       `json:"eventRuleId"`
}

type UnclaimRequest struct {
	Start       time.Time `json:"start"`
	EventRuleID int       `json:"eventRuleId"`
}

// BookingRequest is the flat booking payload: slot identity, the chosen
// location and all client fields at the top level.
type BookingRequest struct {
	Start             time.Time                 `json:"start"`
	End               time.Time                 `json:"end"`
	EventRuleID       int                       `json:"eventRuleId"`
	LocationSelection model.AppointmentLocation `json:"locationSelection"`
	model.ClientInfo
}

// List fetches the bookable slots of a therapist. The categories filter is
// only sent when non-empty.
func (c *EventClient) List(ctx context.Context, therapistUUID string, categories []int) ([]model.TimeSlot, error) {
	path := "/events/" + url.PathEscape(therapistUUID)
	if len(categories) > 0 {
		q := url.Values{}
		q.Set("categories", joinCategoryIDs(categories))
		path += "?" + q.Encode()
	}

	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, errors.Transport(err)
	}
	if !resp.IsSuccess() {
		return nil, errors.Protocol(msgFetchSlotsFailed, resp.StatusText())
	}

	var slots []model.TimeSlot
	if err := resp.DecodeJSON(&slots); err != nil {
		return nil, errors.Transport(fmt.Errorf("could not decode slot list: %w", err))
	}
	return slots, nil
}

// Claim reserves a slot server-side. A 2xx response may still report the slot
// as unavailable; interpreting that is the caller's responsibility.
func (c *EventClient) Claim(ctx context.Context, therapistUUID string, req ClaimRequest) (*model.ClaimResponse, error) {
	resp, err := c.httpClient.POST(ctx, "/events/"+url.PathEscape(therapistUUID)+"/claim", req)
	if err != nil {
		return nil, errors.Transport(err)
	}
	if !resp.IsSuccess() {
		return nil, errors.Protocol(msgClaimSlotFailed, resp.StatusText())
	}

	var claim model.ClaimResponse
	if err := resp.DecodeJSON(&claim); err != nil {
		return nil, errors.Transport(fmt.Errorf("could not decode claim response: %w", err))
	}
	return &claim, nil
}

// Unclaim releases a held slot. The response body is ignored; callers treat
// the whole call as best-effort.
func (c *EventClient) Unclaim(ctx context.Context, therapistUUID string, req UnclaimRequest) error {
	resp, err := c.httpClient.POST(ctx, "/events/"+url.PathEscape(therapistUUID)+"/unclaim", req)
	if err != nil {
		return errors.Transport(err)
	}
	if !resp.IsSuccess() {
		return errors.Protocol(msgUnclaimSlotFailed, resp.StatusText())
	}
	return nil
}

// Book finalizes a claimed slot into a confirmed booking.
func (c *EventClient) Book(ctx context.Context, therapistUUID string, req BookingRequest) (*model.BookingResponse, error) {
	resp, err := c.httpClient.POST(ctx, "/events/"+url.PathEscape(therapistUUID)+"/book", req)
	if err != nil {
		return nil, errors.Transport(err)
	}
	if !resp.IsSuccess() {
		return nil, errors.Protocol(msgBookingFailed, resp.StatusText())
	}

	var booking model.BookingResponse
	if err := resp.DecodeJSON(&booking); err != nil {
		return nil, errors.Transport(fmt.Errorf("could not decode booking response: %w", err))
	}
	return &booking, nil
}

// PaymentConfiguration fetches the payment options the therapist offers.
func (c *EventClient) PaymentConfiguration(ctx context.Context, therapistUUID string) (*model.PaymentConfiguration, error) {
	resp, err := c.httpClient.GET(ctx, "/events/"+url.PathEscape(therapistUUID)+"/payment-configuration")
	if err != nil {
		return nil, errors.Transport(err)
	}
	if !resp.IsSuccess() {
		return nil, errors.Protocol(msgPaymentConfnFailed, resp.StatusText())
	}

	var paymentConfig model.PaymentConfiguration
	if err := resp.DecodeJSON(&paymentConfig); err != nil {
		return nil, errors.Transport(fmt.Errorf("could not decode payment configuration: %w", err))
	}
	return &paymentConfig, nil
}

func joinCategoryIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
