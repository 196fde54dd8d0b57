package client

import (
	"context"
	"fmt"
	"net/url"

	"tebuto/pkg/config"
	"tebuto/pkg/errors"
	"tebuto/pkg/model"
)

const msgFetchTherapistFailed = "Failed to fetch therapist"

type TherapistClient struct {
	httpClient *HttpClient
}

func NewTherapistClient(cfg *config.Config) *TherapistClient {
	return &TherapistClient{
		httpClient: NewHttpClient(cfg),
	}
}

// GetByUUID fetches a therapist's public profile.
func (c *TherapistClient) GetByUUID(ctx context.Context, therapistUUID string) (*model.Therapist, error) {
	resp, err := c.httpClient.GET(ctx, "/therapists/uuid/"+url.PathEscape(therapistUUID))
	if err != nil {
		return nil, errors.Transport(err)
	}
	if !resp.IsSuccess() {
		return nil, errors.Protocol(msgFetchTherapistFailed, resp.StatusText())
	}

	var therapist model.Therapist
	if err := resp.DecodeJSON(&therapist); err != nil {
		return nil, errors.Transport(fmt.Errorf("could not decode therapist: %w", err))
	}
	return &therapist, nil
}
