package service

import (
	"sync"

	"github.com/fakhrymubarak/skycast/internal/model"
)

// AppState holds the current location and the ambient weather snapshot shared
// by the dashboard, the scheduler and the assistant.
type AppState struct {
	mu       sync.RWMutex
	location *model.Location
	current  *model.CurrentConditions
}

func NewAppState() *AppState {
	return &AppState{}
}

// SetLocation replaces the current location and its snapshot. A nil snapshot keeps the previous one.
func (s *AppState) SetLocation(loc model.Location, current *model.CurrentConditions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = &loc
	if current != nil {
		c := *current
		s.current = &c
	}
}

func (s *AppState) SetCurrent(current model.CurrentConditions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &current
}

// Location returns a copy of the current location.
func (s *AppState) Location() (model.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.location == nil {
		return model.Location{}, false
	}
	return *s.location, true
}

// Snapshot returns copies of the location and ambient conditions; either may be nil.
func (s *AppState) Snapshot() (*model.Location, *model.CurrentConditions) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var loc *model.Location
	var cur *model.CurrentConditions
	if s.location != nil {
		l := *s.location
		loc = &l
	}
	if s.current != nil {
		c := *s.current
		cur = &c
	}
	return loc, cur
}
