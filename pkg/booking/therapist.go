package booking

import (
	"context"
	"sync"

	"tebuto/pkg/client"
	"tebuto/pkg/config"
	"tebuto/pkg/errors"
	"tebuto/pkg/model"
)

// TherapistLookup fetches and caches the therapist profile for the configured
// UUID. It reports loading until the first fetch settles.
type TherapistLookup struct {
	mu      sync.Mutex
	client  *client.TherapistClient
	cfg     *config.Config
	data    *model.Therapist
	loading bool
	err     error
}

func NewTherapistLookup(cfg *config.Config) (*TherapistLookup, error) {
	if cfg == nil {
		return nil, errors.Configuration("therapist lookup requires a configuration")
	}
	return &TherapistLookup{
		client:  client.NewTherapistClient(cfg),
		cfg:     cfg,
		loading: true,
	}, nil
}

func (l *TherapistLookup) Fetch(ctx context.Context) error {
	l.mu.Lock()
	l.loading = true
	l.err = nil
	l.mu.Unlock()

	therapist, err := l.client.GetByUUID(ctx, l.cfg.TherapistUUID)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if err != nil {
		l.data = nil
		l.err = err
		return err
	}
	l.data = therapist
	return nil
}

func (l *TherapistLookup) Refetch(ctx context.Context) error {
	return l.Fetch(ctx)
}

func (l *TherapistLookup) Therapist() *model.Therapist {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data
}

func (l *TherapistLookup) IsLoading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

func (l *TherapistLookup) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *TherapistLookup) status() asyncStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return asyncStatus{loading: l.loading, err: l.err}
}
