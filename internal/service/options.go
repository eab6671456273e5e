package service

import (
	"log/slog"
	"time"

	"github.com/media2net-app/byeauto/internal/domain"
)

type options struct {
	now      func() time.Time
	loc      *time.Location
	observer UseCaseObserver
	logger   *slog.Logger
	roster   []string
	seed     []domain.NewWorkItem
}

// Option configures a store or the timer. Options that do not apply to a
// component are ignored by it.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation sets the workshop's local time zone used for opening hours.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

func WithObserver(obs UseCaseObserver) Option {
	return func(o *options) { o.observer = obs }
}

// WithLogger sets the logger used for corrupt-data warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRoster restricts assignees to names. An empty roster allows anyone.
func WithRoster(names []string) Option {
	return func(o *options) { o.roster = append([]string(nil), names...) }
}

// WithSeed sets the board loaded when nothing is stored yet or the stored
// board is unreadable. Pass no items for an empty board.
func WithSeed(items ...domain.NewWorkItem) Option {
	return func(o *options) { o.seed = append([]domain.NewWorkItem{}, items...) }
}

func buildOptions(opts []Option) options {
	o := options{
		now:    time.Now,
		loc:    time.Local,
		logger: slog.New(slog.DiscardHandler),
		roster: domain.DefaultRoster,
		seed:   domain.ExampleWorkItems(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.observer = useCaseObserverOrNoop([]UseCaseObserver{o.observer})
	if o.loc == nil {
		o.loc = time.Local
	}
	return o
}

// localNow is the clock reading in the workshop's time zone.
func (o options) localNow() time.Time {
	return o.now().In(o.loc)
}
