package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"tebuto/pkg/client"
	"tebuto/pkg/config"
	"tebuto/pkg/errors"
	"tebuto/pkg/model"
)

// CatalogOptions tune a SlotCatalog.
type CatalogOptions struct {
	// Categories filters the slot listing. Falls back to the configuration's
	// default categories when nil.
	Categories []int
	// AutoFetch marks whether a fetch is scheduled right after construction,
	// which is how the flow controller uses the catalog. It only affects the
	// initial loading flag; nil means true.
	AutoFetch *bool
}

// SlotCatalog fetches the bookable slots of a therapist and derives the
// date-grouped views the booking UI needs. Derivations are recomputed once
// per fetched list and cached until the next fetch.
type SlotCatalog struct {
	mu         sync.Mutex
	events     *client.EventClient
	cfg        *config.Config
	categories []int

	data    []model.TimeSlot
	loading bool
	err     error
	version uint64

	derivedVersion uint64
	byDate         map[string][]model.TimeSlot
	dates          []time.Time
	cats           []model.EventCategory

	now func() time.Time
}

func NewSlotCatalog(cfg *config.Config, opts CatalogOptions) (*SlotCatalog, error) {
	if cfg == nil {
		return nil, errors.Configuration("slot catalog requires a configuration")
	}

	categories := opts.Categories
	if categories == nil {
		categories = cfg.Categories
	}

	autoFetch := opts.AutoFetch == nil || *opts.AutoFetch

	return &SlotCatalog{
		events:     client.NewEventClient(cfg),
		cfg:        cfg,
		categories: categories,
		loading:    autoFetch,
		now:        time.Now,
	}, nil
}

// Fetch replaces the cached slot list. On failure the cached list is cleared
// so stale slots cannot leak into the derived views.
func (c *SlotCatalog) Fetch(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.err = nil
	c.mu.Unlock()

	slots, err := c.events.List(ctx, c.cfg.TherapistUUID, c.categories)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	c.version++
	if err != nil {
		c.data = nil
		c.err = err
		return err
	}
	c.data = slots
	return nil
}

func (c *SlotCatalog) Refetch(ctx context.Context) error {
	return c.Fetch(ctx)
}

// Slots returns the raw list from the last successful fetch.
func (c *SlotCatalog) Slots() []model.TimeSlot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// SlotsByDate groups future slots by local calendar date. Slots whose start
// is at or before now are excluded; buckets are sorted ascending by start.
// The returned map is shared, treat it as read-only.
func (c *SlotCatalog) SlotsByDate() map[string][]model.TimeSlot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.derive()
	return c.byDate
}

// AvailableDates lists the distinct local dates with at least one future
// slot, ascending, as local-midnight times.
func (c *SlotCatalog) AvailableDates() []time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.derive()
	return c.dates
}

// SlotsForDate returns the enriched slots of one calendar date. The bucket was
// already future-filtered at derivation time, so IsPast is false in practice
// for everything reachable here; the flag stays computed for direct use of
// EnrichSlot on arbitrary slots.
func (c *SlotCatalog) SlotsForDate(date time.Time) []EnrichedTimeSlot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.derive()

	bucket := c.byDate[DateKey(date)]
	if len(bucket) == 0 {
		return nil
	}

	now := c.now()
	enriched := make([]EnrichedTimeSlot, len(bucket))
	for i, slot := range bucket {
		enriched[i] = enrichSlotAt(slot, now)
	}
	return enriched
}

// Categories extracts the distinct appointment categories from the raw list,
// first seen wins, in first-seen order.
func (c *SlotCatalog) Categories() []model.EventCategory {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.derive()
	return c.cats
}

// TotalSlots is the raw slot count of the last successful fetch, before the
// future-only filter.
func (c *SlotCatalog) TotalSlots() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

func (c *SlotCatalog) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *SlotCatalog) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *SlotCatalog) status() asyncStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return asyncStatus{loading: c.loading, err: c.err}
}

// derive recomputes the cached views when the raw list changed since the last
// derivation. Callers must hold c.mu.
func (c *SlotCatalog) derive() {
	if c.derivedVersion == c.version && c.byDate != nil {
		return
	}

	now := c.now()

	byDate := make(map[string][]model.TimeSlot)
	for _, slot := range c.data {
		if !slot.Start.After(now) {
			continue
		}
		key := DateKey(slot.Start)
		byDate[key] = append(byDate[key], slot)
	}
	for _, bucket := range byDate {
		sort.Slice(bucket, func(i, j int) bool {
			return bucket[i].Start.Before(bucket[j].Start)
		})
	}

	dates := make([]time.Time, 0, len(byDate))
	for key := range byDate {
		if day, err := time.ParseInLocation("2006-01-02", key, time.Local); err == nil {
			dates = append(dates, day)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	// Categories come from the raw list, past slots included.
	var cats []model.EventCategory
	seen := make(map[int]bool)
	for _, slot := range c.data {
		if seen[slot.EventCategoryID] {
			continue
		}
		seen[slot.EventCategoryID] = true
		cats = append(cats, model.EventCategory{
			ID:    slot.EventCategoryID,
			Name:  slot.Title,
			Color: slot.Color,
		})
	}

	c.byDate = byDate
	c.dates = dates
	c.cats = cats
	c.derivedVersion = c.version
}
