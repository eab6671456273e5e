package service

import (
	"context"
	"testing"
	"time"

	"github.com/media2net-app/byeauto/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayOnly(open, close string) domain.OpeningHours {
	oh := domain.DefaultOpeningHours()
	for k := range oh {
		oh[k] = domain.DayHours{Open: domain.MustTimeOfDay("08:00"), Close: domain.MustTimeOfDay("18:00")}
	}
	oh["monday"] = domain.DayHours{Open: domain.MustTimeOfDay(open), Close: domain.MustTimeOfDay(close), Enabled: true}
	return oh
}

func TestOpeningHours_DefaultSchedule(t *testing.T) {
	f := newFixture(t)

	sched := f.hours.Schedule()
	require.Len(t, sched, 7)
	for _, wd := range domain.Weekdays {
		d, ok := sched.Day(wd)
		require.True(t, ok)
		assert.True(t, d.Enabled)
		assert.Equal(t, "08:00", d.Open.String())
		assert.Equal(t, "18:00", d.Close.String())
	}
}

func TestOpeningHours_RemainingAndEndTime(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.hours.SetSchedule(context.Background(), mondayOnly("08:00", "18:00")))

	assert.InDelta(t, 3.5, f.hours.RemainingHoursToday(), 1e-9)

	end, ok := f.hours.WorkEndTime(2.5)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 16, 20, 30, 0, 0, time.UTC), end)
}

func TestOpeningHours_IsCurrentlyOpenBoundary(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.hours.SetSchedule(context.Background(), mondayOnly("08:00", "18:00")))

	f.clock.Set(time.Date(2025, 6, 16, 17, 59, 0, 0, time.UTC))
	assert.True(t, f.hours.IsCurrentlyOpen(), "one minute before close")

	f.clock.Set(time.Date(2025, 6, 16, 18, 0, 0, 0, time.UTC))
	assert.False(t, f.hours.IsCurrentlyOpen(), "exactly at close")

	f.clock.Set(time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC))
	assert.True(t, f.hours.IsCurrentlyOpen(), "exactly at open")

	f.clock.Set(time.Date(2025, 6, 16, 7, 59, 0, 0, time.UTC))
	assert.False(t, f.hours.IsCurrentlyOpen())
}

func TestOpeningHours_DisabledDay(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.hours.SetSchedule(context.Background(), mondayOnly("08:00", "18:00")))
	f.clock.Set(time.Date(2025, 6, 17, 10, 0, 0, 0, time.UTC)) // Tuesday

	assert.False(t, f.hours.IsCurrentlyOpen())
	assert.Zero(t, f.hours.RemainingHoursToday())
	for _, extra := range []float64{0, 1.5, 10} {
		_, ok := f.hours.WorkEndTime(extra)
		assert.False(t, ok, "extra=%v", extra)
	}
}

func TestOpeningHours_PastCloseHasNoRemaining(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2025, 6, 16, 19, 0, 0, 0, time.UTC))

	assert.Zero(t, f.hours.RemainingHoursToday())
}

func TestOpeningHours_LocationShiftsWeekday(t *testing.T) {
	bucharest := time.FixedZone("EEST", 3*60*60)
	f := newFixture(t, WithLocation(bucharest))
	require.NoError(t, f.hours.SetSchedule(context.Background(), mondayOnly("08:00", "18:00")))

	// Sunday 22:30 UTC is Monday 01:30 in Bucharest.
	f.clock.Set(time.Date(2025, 6, 15, 22, 30, 0, 0, time.UTC))
	assert.True(t, f.hours.CurrentDayHours().Enabled)
	assert.False(t, f.hours.IsCurrentlyOpen())
	assert.InDelta(t, 16.5, f.hours.RemainingHoursToday(), 1e-9)
}

func TestOpeningHours_SetScheduleRejectsInvertedDay(t *testing.T) {
	f := newFixture(t)
	before := f.hours.Schedule()

	bad := domain.DefaultOpeningHours()
	bad["friday"] = domain.DayHours{Open: domain.MustTimeOfDay("18:00"), Close: domain.MustTimeOfDay("08:00"), Enabled: true}
	err := f.hours.SetSchedule(context.Background(), bad)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, before, f.hours.Schedule(), "schedule unchanged")
}

func TestOpeningHours_SetScheduleRejectsMissingDay(t *testing.T) {
	f := newFixture(t)
	bad := domain.DefaultOpeningHours()
	delete(bad, "sunday")

	var verr *domain.ValidationError
	require.ErrorAs(t, f.hours.SetSchedule(context.Background(), bad), &verr)
}

func TestOpeningHours_DisabledDayMayKeepAnyTimes(t *testing.T) {
	f := newFixture(t)
	err := f.hours.SetDay(context.Background(), time.Sunday, domain.DayHours{
		Open: domain.MustTimeOfDay("18:00"), Close: domain.MustTimeOfDay("08:00"), Enabled: false,
	})
	require.NoError(t, err)
}

func TestOpeningHours_SetDayPersists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sat := domain.DayHours{Open: domain.MustTimeOfDay("09:00"), Close: domain.MustTimeOfDay("13:00"), Enabled: true}
	require.NoError(t, f.hours.SetDay(ctx, time.Saturday, sat))

	reloaded := NewOpeningHoursStore(f.uow, WithClock(f.clock.Now), WithLocation(time.UTC))
	require.NoError(t, reloaded.Load(ctx))
	d, _ := reloaded.Schedule().Day(time.Saturday)
	assert.Equal(t, sat, d)
}

func TestOpeningHours_CorruptFallsBackToDefault(t *testing.T) {
	f := newFixture(t)
	writeDocument(t, f.db, OpeningHoursKey, `{"version":1,"data":{"monday":{"open":"nonsense"}}}`)

	err := f.hours.Load(context.Background())

	var corrupt *domain.CorruptDataError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, OpeningHoursKey, corrupt.Key)
	assert.Equal(t, domain.DefaultOpeningHours(), f.hours.Schedule())
}

func TestOpeningHours_CorruptRecordIsReplacedOnNextWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	writeDocument(t, f.db, OpeningHoursKey, `not json`)
	require.Error(t, f.hours.Load(ctx))

	require.NoError(t, f.hours.SetDay(ctx, time.Sunday, domain.DayHours{Open: 480, Close: 720}))
	require.NoError(t, f.hours.Load(ctx))
	d, _ := f.hours.Schedule().Day(time.Sunday)
	assert.False(t, d.Enabled)
}

func TestOpeningHours_WriteAfterAnotherWriterKeepsBothDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.hours.Flush(ctx))

	sunday := domain.DayHours{Open: domain.MustTimeOfDay("10:00"), Close: domain.MustTimeOfDay("14:00"), Enabled: true}
	other := NewOpeningHoursStore(f.uow, WithClock(f.clock.Now), WithLocation(time.UTC))
	require.NoError(t, other.Load(ctx))
	require.NoError(t, other.SetDay(ctx, time.Sunday, sunday))

	closed := domain.DayHours{Open: 480, Close: 720}
	require.NoError(t, f.hours.SetDay(ctx, time.Saturday, closed))
	d, _ := f.hours.Schedule().Day(time.Sunday)
	assert.Equal(t, sunday, d, "the other writer's day is adopted")

	reloaded := NewOpeningHoursStore(f.uow, WithClock(f.clock.Now), WithLocation(time.UTC))
	require.NoError(t, reloaded.Load(ctx))
	d, _ = reloaded.Schedule().Day(time.Sunday)
	assert.Equal(t, sunday, d)
	d, _ = reloaded.Schedule().Day(time.Saturday)
	assert.False(t, d.Enabled)
}

func TestOpeningHours_FlushAdoptsScheduleStoredFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sunday := domain.DayHours{Open: domain.MustTimeOfDay("10:00"), Close: domain.MustTimeOfDay("14:00"), Enabled: true}
	other := NewOpeningHoursStore(f.uow, WithClock(f.clock.Now), WithLocation(time.UTC))
	require.NoError(t, other.Load(ctx))
	require.NoError(t, other.SetDay(ctx, time.Sunday, sunday))

	require.NoError(t, f.hours.Flush(ctx))
	d, _ := f.hours.Schedule().Day(time.Sunday)
	assert.Equal(t, sunday, d)
}
