package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/media2net-app/byeauto/internal/db"
	"github.com/media2net-app/byeauto/internal/domain"
	"github.com/media2net-app/byeauto/internal/testutil"
	"github.com/stretchr/testify/require"
)

// monday1430 is a Monday afternoon in UTC.
var monday1430 = time.Date(2025, 6, 16, 14, 30, 0, 0, time.UTC)

type fixture struct {
	db    *sql.DB
	uow   db.UnitOfWork
	clock *testutil.Clock
	hours *OpeningHoursStore
	items *WorkItemStore
}

// newFixture wires both stores on a fresh in-memory database with an empty
// seed board, loaded and ready.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	f := &fixture{
		db:    database,
		uow:   testutil.NewTestUoW(database),
		clock: testutil.NewClock(monday1430),
	}
	base := []Option{WithClock(f.clock.Now), WithLocation(time.UTC), WithSeed()}
	opts = append(base, opts...)
	f.hours = NewOpeningHoursStore(f.uow, opts...)
	f.items = NewWorkItemStore(f.uow, f.hours, opts...)
	require.NoError(t, f.hours.Load(context.Background()))
	require.NoError(t, f.items.Load(context.Background()))
	return f
}

func (f *fixture) add(t *testing.T, n domain.NewWorkItem) *domain.WorkItem {
	t.Helper()
	w, err := f.items.Add(context.Background(), n)
	require.NoError(t, err)
	return w
}

func bmwOilChange() domain.NewWorkItem {
	return domain.NewWorkItem{
		Vehicle:       "BMW X5",
		Client:        "Ion Popescu",
		WorkType:      "Oil Change",
		Priority:      domain.PriorityMedium,
		EstimatedTime: "2h",
		AssignedTo:    "Marius",
		Status:        domain.StatusPending,
	}
}

// writeDocument stores a raw body under key, bypassing the stores.
func writeDocument(t *testing.T, database *sql.DB, key, body string) {
	t.Helper()
	_, err := database.Exec(`INSERT INTO documents (key, body, version, revision, updated_at)
		VALUES (?, ?, 1, 1, '2025-06-16T10:00:00Z')
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, revision = revision + 1`, key, body)
	require.NoError(t, err)
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, ev UseCaseEvent) {
	r.events = append(r.events, ev)
}

func (r *recordingObserver) names() []string {
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Name
	}
	return out
}
