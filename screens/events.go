package screens

import (
	"context"
	"log"
	"sync"
	"time"

	"mabletask/dashboard/events"
	"mabletask/dashboard/flow"
	"mabletask/dashboard/models"
)

type EventsAPI interface {
	ListEvents(ctx context.Context, currentPath string) ([]models.EventRecord, bool, error)
}

// EventsView is everything the events screen renders. Buckets and UserIDs are
// computed from the full log, Events from the filtered one.
type EventsView struct {
	Events     []models.EventRecord  `json:"events"`
	Buckets    []models.EventBucket  `json:"buckets"`
	UserIDs    []string              `json:"userIds"`
	EventTypes []models.EventType    `json:"eventTypes"`
	Criteria   models.FilterCriteria `json:"criteria"`
}

type EventsScreen struct {
	api EventsAPI
	nav flow.Navigator
	loc *time.Location

	mu       sync.Mutex
	life     lifecycle
	all      []models.EventRecord
	criteria models.FilterCriteria
}

// NewEventsScreen builds the screen; loc is the zone days are counted in.
func NewEventsScreen(api EventsAPI, history *flow.History, loc *time.Location) *EventsScreen {
	if loc == nil {
		loc = time.Local
	}
	s := &EventsScreen{api: api, nav: history, loc: loc, life: lifecycle{path: EventsPath}}
	history.Subscribe(s.onNavigate)
	return s
}

func (s *EventsScreen) Location() *time.Location { return s.loc }

func (s *EventsScreen) onNavigate(path string) {
	if path != s.life.path {
		s.Unmount()
	}
}

func (s *EventsScreen) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.life.mounted = false
}

func (s *EventsScreen) Mount(ctx context.Context) (bool, error) {
	s.nav.Navigate(EventsPath)

	s.mu.Lock()
	gen := s.life.mount()
	s.all = []models.EventRecord{}
	s.mu.Unlock()

	records, authed, err := s.api.ListEvents(ctx, EventsPath)
	if err != nil || !authed {
		return authed, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.life.current(gen) {
		log.Printf("Screens: discarding events response for stale mount %d", gen)
		return true, ErrStale
	}
	s.all = records
	return true, nil
}

// SetCriteria replaces the active filter. The fetched log is never touched.
func (s *EventsScreen) SetCriteria(c models.FilterCriteria) EventsView {
	s.mu.Lock()
	s.criteria = c
	s.mu.Unlock()
	return s.View()
}

func (s *EventsScreen) View() EventsView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EventsView{
		Events:     events.ApplyFiltersIn(s.all, s.criteria, s.loc),
		Buckets:    events.AggregateByDayIn(s.all, s.loc),
		UserIDs:    events.DistinctUserIDs(s.all),
		EventTypes: models.EventTypes,
		Criteria:   s.criteria,
	}
}
