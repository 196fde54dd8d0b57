package booking

import (
	"context"
	"sync"

	"tebuto/pkg/client"
	"tebuto/pkg/config"
	"tebuto/pkg/errors"
	"tebuto/pkg/logger"
	"tebuto/pkg/model"
)

// ClaimManager holds at most one server-side slot reservation per instance.
// Claiming a different slot releases the previous claim first; releasing is
// always best-effort because an abandoned claim lapses server-side on its own.
type ClaimManager struct {
	mu     sync.Mutex
	events *client.EventClient
	cfg    *config.Config
	log    *logger.Logger

	claimedSlot   *model.TimeSlot
	claimResponse *model.ClaimResponse
	loading       bool
	err           error
	claimKey      string
}

func NewClaimManager(cfg *config.Config) (*ClaimManager, error) {
	if cfg == nil {
		return nil, errors.Configuration("claim manager requires a configuration")
	}
	return &ClaimManager{
		events: client.NewEventClient(cfg),
		cfg:    cfg,
		log:    cfg.Log,
	}, nil
}

// Claim reserves a slot. Re-claiming the currently held slot returns the
// cached response without a network call. A response reporting the slot as
// unavailable is an error and leaves the held claim state untouched.
func (m *ClaimManager) Claim(ctx context.Context, slot *model.TimeSlot) (*model.ClaimResponse, error) {
	newKey := slot.Key()

	m.mu.Lock()
	if m.claimKey == newKey && m.claimResponse != nil {
		cached := m.claimResponse
		m.mu.Unlock()
		return cached, nil
	}
	holdsOther := m.claimKey != "" && m.claimKey != newKey
	m.mu.Unlock()

	if holdsOther {
		m.Unclaim(ctx)
	}

	m.mu.Lock()
	m.loading = true
	m.err = nil
	m.mu.Unlock()

	claim, err := m.events.Claim(ctx, m.cfg.TherapistUUID, client.ClaimRequest{
		Start:       slot.Start,
		End:         slot.End,
		EventRuleID: slot.EventRuleID,
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		m.err = err
		return nil, err
	}
	if !claim.IsAvailable {
		m.err = errors.SlotUnavailable()
		return nil, m.err
	}

	m.claimedSlot = slot
	m.claimResponse = claim
	m.claimKey = newKey
	return claim, nil
}

// Unclaim releases the held claim, if any. The server call is fire-and-forget:
// failures are logged and swallowed, local state is cleared either way. With
// nothing held it only clears local state.
func (m *ClaimManager) Unclaim(ctx context.Context) {
	m.mu.Lock()
	slot := m.claimedSlot
	key := m.claimKey
	m.claimedSlot = nil
	m.claimResponse = nil
	m.claimKey = ""
	m.mu.Unlock()

	if slot == nil || key == "" {
		return
	}

	err := m.events.Unclaim(ctx, m.cfg.TherapistUUID, client.UnclaimRequest{
		Start:       slot.Start,
		EventRuleID: slot.EventRuleID,
	})
	if err != nil {
		// The hold expires server-side on its own.
		m.log.Debug("unclaim failed, relying on server-side claim expiry",
			"error", err,
			"claim_key", key,
		)
	}
}

// IsClaimed reports whether the given slot is the currently held one.
func (m *ClaimManager) IsClaimed(slot *model.TimeSlot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimedSlot == nil || slot == nil {
		return false
	}
	return m.claimedSlot.SameSlot(slot)
}

// ClearError clears only the error field.
func (m *ClaimManager) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = nil
}

func (m *ClaimManager) ClaimedSlot() *model.TimeSlot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.claimedSlot
}

func (m *ClaimManager) ClaimResponse() *model.ClaimResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.claimResponse
}

func (m *ClaimManager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *ClaimManager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}
