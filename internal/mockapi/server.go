// Package mockapi runs an in-process stand-in for the public booking API.
// Tests and the demo binary point a configuration at its URL and exercise the
// full therapist, slot, claim and booking surface without a network.
package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"

	"tebuto/pkg/model"
)

// Endpoint names accepted by Calls and ForceStatus.
const (
	EndpointTherapist     = "therapist"
	EndpointEvents        = "events"
	EndpointClaim         = "claim"
	EndpointUnclaim       = "unclaim"
	EndpointBook          = "book"
	EndpointPaymentConfig = "payment-configuration"
)

// Server is a mutable mock of the booking API. All state accessors are safe
// for concurrent use.
type Server struct {
	mu           sync.Mutex
	srv          *httptest.Server
	slots        []model.TimeSlot
	claimed      map[string]bool
	unavailable  map[string]bool
	requirements model.ClaimResponse
	calls        map[string]int
	forced       map[string]int
	lastBooking  map[string]any
	nextID       int64
}

func NewServer() *Server {
	s := &Server{
		slots:        GenerateSlots(time.Now()),
		claimed:      make(map[string]bool),
		unavailable:  make(map[string]bool),
		requirements: model.ClaimResponse{IsAvailable: true},
		calls:        make(map[string]int),
		forced:       make(map[string]int),
		nextID:       1,
	}

	router := httprouter.New()
	router.GET("/therapists/uuid/:uuid", s.handleTherapist)
	router.GET("/events/:uuid", s.handleEvents)
	router.POST("/events/:uuid/claim", s.handleClaim)
	router.POST("/events/:uuid/unclaim", s.handleUnclaim)
	router.POST("/events/:uuid/book", s.handleBook)
	router.GET("/events/:uuid/payment-configuration", s.handlePaymentConfig)

	s.srv = httptest.NewServer(router)
	return s
}

func (s *Server) URL() string { return s.srv.URL }

func (s *Server) Close() { s.srv.Close() }

// Calls reports how often an endpoint has been hit, fault-injected responses
// included.
func (s *Server) Calls(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[endpoint]
}

// ForceStatus makes an endpoint answer with the given status code until
// cleared with code 0.
func (s *Server) ForceStatus(endpoint string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code == 0 {
		delete(s.forced, endpoint)
		return
	}
	s.forced[endpoint] = code
}

// SetSlots replaces the served slot list.
func (s *Server) SetSlots(slots []model.TimeSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = slots
}

// SetUnavailable marks a slot key as taken; claims for it report
// isAvailable false.
func (s *Server) SetUnavailable(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable[key] = true
}

// SetClaimRequirements controls the requirement flags returned by successful
// claims.
func (s *Server) SetClaimRequirements(requirePhone, requireAddress bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requirements.RequirePhoneNumber = requirePhone
	s.requirements.RequireAddress = requireAddress
}

// Claimed reports whether a slot key is currently held.
func (s *Server) Claimed(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claimed[key]
}

// LastBooking returns the raw JSON object of the most recent booking request.
func (s *Server) LastBooking() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBooking
}

// begin records the call and applies fault injection. It reports whether the
// handler should continue.
func (s *Server) begin(w http.ResponseWriter, endpoint string) bool {
	s.mu.Lock()
	s.calls[endpoint]++
	code := s.forced[endpoint]
	s.mu.Unlock()

	if code != 0 {
		http.Error(w, http.StatusText(code), code)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleTherapist(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	if !s.begin(w, EndpointTherapist) {
		return
	}
	if ps.ByName("uuid") != TherapistUUID {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	writeJSON(w, therapistFixture())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.begin(w, EndpointEvents) {
		return
	}

	s.mu.Lock()
	slots := make([]model.TimeSlot, len(s.slots))
	copy(slots, s.slots)
	s.mu.Unlock()

	if raw := r.URL.Query().Get("categories"); raw != "" {
		wanted := make(map[int]bool)
		for _, part := range strings.Split(raw, ",") {
			if id, err := strconv.Atoi(part); err == nil {
				wanted[id] = true
			}
		}
		filtered := slots[:0]
		for _, slot := range slots {
			if wanted[slot.EventCategoryID] {
				filtered = append(filtered, slot)
			}
		}
		slots = filtered
	}

	writeJSON(w, slots)
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.begin(w, EndpointClaim) {
		return
	}

	var req struct {
		Start       time.Time `json:"start"`
		EventRuleID int       `json:"eventRuleId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	key := model.SlotKey(req.Start, req.EventRuleID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable[key] {
		writeJSON(w, model.ClaimResponse{IsAvailable: false})
		return
	}
	s.claimed[key] = true
	writeJSON(w, s.requirements)
}

func (s *Server) handleUnclaim(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.begin(w, EndpointUnclaim) {
		return
	}

	var req struct {
		Start       time.Time `json:"start"`
		EventRuleID int       `json:"eventRuleId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	delete(s.claimed, model.SlotKey(req.Start, req.EventRuleID))
	s.mu.Unlock()

	writeJSON(w, struct{}{})
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.begin(w, EndpointBook) {
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	location, _ := body["locationSelection"].(string)

	s.mu.Lock()
	s.lastBooking = body
	id := s.nextID
	s.nextID++
	s.mu.Unlock()

	writeJSON(w, model.BookingResponse{
		ID:                id,
		CreatedAt:         time.Now().UTC(),
		LocationSelection: model.AppointmentLocation(location),
		IsConfirmed:       true,
		ICS:               calendarFixture,
	})
}

func (s *Server) handlePaymentConfig(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if !s.begin(w, EndpointPaymentConfig) {
		return
	}
	writeJSON(w, paymentConfigurationFixture())
}
