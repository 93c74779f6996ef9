package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agencyhub/internal/domain/schedule"
)

type fakeTemplates struct {
	byDay map[time.Weekday][]schedule.WeeklyTemplateSlot
	calls int
}

func (f *fakeTemplates) ListActiveByWeekday(_ context.Context, day time.Weekday) ([]schedule.WeeklyTemplateSlot, error) {
	f.calls++
	return f.byDay[day], nil
}

type fakeBlocked map[string]bool

func (f fakeBlocked) IsBlocked(_ context.Context, date string) (bool, error) {
	return f[date], nil
}

type fakeTaken map[string][]string

func (f fakeTaken) TakenSlots(_ context.Context, date string) ([]string, error) {
	return f[date], nil
}

type mockTaken struct{ mock.Mock }

func (m *mockTaken) TakenSlots(ctx context.Context, date string) ([]string, error) {
	args := m.Called(ctx, date)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func newFixture() (*fakeTemplates, fakeBlocked, fakeTaken) {
	templates := &fakeTemplates{byDay: map[time.Weekday][]schedule.WeeklyTemplateSlot{
		time.Wednesday: {tpl(time.Wednesday, "09:00", "12:00", 30)},
		time.Thursday:  {tpl(time.Thursday, "09:00", "12:00", 60)},
	}}
	return templates, fakeBlocked{}, fakeTaken{}
}

func TestResolver_SubtractsTakenSlots(t *testing.T) {
	templates, blocked, taken := newFixture()
	taken["2025-01-02"] = []string{"10:00"}
	r := NewResolver(templates, blocked, taken, time.UTC, fixedClock(time.Date(2024, 12, 30, 8, 0, 0, 0, time.UTC)))

	assert.Equal(t, []string{"09:00", "11:00"}, r.AvailableSlots(context.Background(), "2025-01-02"))
}

func TestResolver_BlockedDateShortCircuits(t *testing.T) {
	templates, blocked, taken := newFixture()
	blocked["2025-01-01"] = true
	r := NewResolver(templates, blocked, taken, time.UTC, fixedClock(time.Date(2024, 12, 30, 8, 0, 0, 0, time.UTC)))

	slots := r.AvailableSlots(context.Background(), "2025-01-01")
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
	assert.Zero(t, templates.calls)
}

func TestResolver_NoTemplatesForWeekday(t *testing.T) {
	templates, blocked, taken := newFixture()
	r := NewResolver(templates, blocked, taken, time.UTC, fixedClock(time.Date(2024, 12, 30, 8, 0, 0, 0, time.UTC)))

	// 2025-01-04 is a Saturday
	slots, err := r.Resolve(context.Background(), "2025-01-04")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestResolver_AppliesLeadBuffer(t *testing.T) {
	templates, blocked, taken := newFixture()
	r := NewResolver(templates, blocked, taken, time.UTC, fixedClock(time.Date(2025, 1, 1, 9, 10, 0, 0, time.UTC)))

	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30"}, r.AvailableSlots(context.Background(), "2025-01-01"))
}

func TestResolver_InvalidDate(t *testing.T) {
	templates, blocked, taken := newFixture()
	r := NewResolver(templates, blocked, taken, time.UTC)

	_, err := r.Resolve(context.Background(), "01/02/2025")
	assert.ErrorIs(t, err, schedule.ErrInvalidDate)
	assert.Equal(t, []string{}, r.AvailableSlots(context.Background(), "01/02/2025"))
}

func TestResolver_StoreErrorDegradesToEmpty(t *testing.T) {
	templates, blocked, _ := newFixture()
	taken := &mockTaken{}
	taken.On("TakenSlots", mock.Anything, "2025-01-02").Return(nil, errors.New("connection reset"))
	r := NewResolver(templates, blocked, taken, time.UTC, fixedClock(time.Date(2024, 12, 30, 8, 0, 0, 0, time.UTC)))

	_, err := r.Resolve(context.Background(), "2025-01-02")
	require.Error(t, err)

	assert.Equal(t, []string{}, r.AvailableSlots(context.Background(), "2025-01-02"))
	taken.AssertExpectations(t)
}

func TestResolver_IsOffered(t *testing.T) {
	templates, blocked, taken := newFixture()
	taken["2025-01-02"] = []string{"10:00"}
	r := NewResolver(templates, blocked, taken, time.UTC, fixedClock(time.Date(2024, 12, 30, 8, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	ok, err := r.IsOffered(ctx, "2025-01-02", schedule.MustWallClock("09:00"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.IsOffered(ctx, "2025-01-02", schedule.MustWallClock("10:00"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.IsOffered(ctx, "2025-01-02", schedule.MustWallClock("09:30"))
	require.NoError(t, err)
	assert.False(t, ok)
}
