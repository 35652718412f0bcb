// Package journal implements the coffee journal operations on top of a
// record store: inventory, brew logging, presets, cafe visits and summaries.
package journal

import (
	"errors"
	"time"

	"tangled.org/arabica.social/brewjournal/internal/autofill"
	"tangled.org/arabica.social/brewjournal/internal/database"
	"tangled.org/arabica.social/brewjournal/internal/events"
)

// Service errors
var (
	ErrBeanNotFound        = errors.New("referenced bean does not exist")
	ErrAutofillUnavailable = errors.New("autofill is not configured")
	ErrInvalidDose         = errors.New("dose must be greater than zero")
)

// dateLayout is the calendar date format records store
const dateLayout = "2006-01-02"

// Service coordinates the store, change notifications and the autofill lookup.
type Service struct {
	store  database.Store
	events events.Publisher
	lookup autofill.Lookup
	now    func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithPublisher sends change notifications to p.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithLookup enables autofill through l.
func WithLookup(l autofill.Lookup) Option {
	return func(s *Service) { s.lookup = l }
}

// WithClock overrides the clock used for default dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a journal over store.
func NewService(store database.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		events: events.Nop{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AutofillEnabled reports whether a lookup is configured.
func (s *Service) AutofillEnabled() bool {
	return s.lookup != nil
}

func (s *Service) publish(t events.Type, id string) {
	s.events.Publish(events.New(t, id))
}

func (s *Service) today() string {
	return s.now().Format(dateLayout)
}
