package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agencyhub/internal/database"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(fmt.Sprintf("file:schedule_%s?mode=memory&cache=shared", t.Name()), nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, Models(), nil))
	return db
}

func newTestService(t *testing.T) *Service {
	db := openTestDB(t)
	return NewService(NewTemplateRepository(db), NewBlockedDateRepository(db), time.UTC, nil)
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestService_CreateTemplate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tpl, err := svc.CreateTemplate(ctx, TemplateRequest{
		DayOfWeek: intPtr(1), StartTime: "09:00", EndTime: "12:00", DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.NotZero(t, tpl.ID)
	assert.True(t, tpl.IsActive)
	assert.Equal(t, time.Monday, tpl.DayOfWeek)

	list, err := svc.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "09:00", list[0].StartTime.String())
	assert.Equal(t, "12:00", list[0].EndTime.String())
}

func TestService_CreateTemplate_Invalid(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []TemplateRequest{
		{DayOfWeek: intPtr(1), StartTime: "12:00", EndTime: "09:00", DurationMinutes: 30},
		{DayOfWeek: intPtr(1), StartTime: "09:00", EndTime: "09:20", DurationMinutes: 30},
		{DayOfWeek: intPtr(7), StartTime: "09:00", EndTime: "12:00", DurationMinutes: 30},
		{DayOfWeek: intPtr(1), StartTime: "9am", EndTime: "12:00", DurationMinutes: 30},
		{DayOfWeek: nil, StartTime: "09:00", EndTime: "12:00", DurationMinutes: 30},
	}
	for i, req := range cases {
		_, err := svc.CreateTemplate(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidTemplate, "case %d", i)
	}
}

func TestService_CreateTemplate_RejectsOverlap(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTemplate(ctx, TemplateRequest{DayOfWeek: intPtr(2), StartTime: "09:00", EndTime: "12:00", DurationMinutes: 30})
	require.NoError(t, err)

	_, err = svc.CreateTemplate(ctx, TemplateRequest{DayOfWeek: intPtr(2), StartTime: "10:00", EndTime: "13:00", DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrTemplateOverlap)

	// adjacent windows and other weekdays are fine
	_, err = svc.CreateTemplate(ctx, TemplateRequest{DayOfWeek: intPtr(2), StartTime: "12:00", EndTime: "13:00", DurationMinutes: 30})
	assert.NoError(t, err)
	_, err = svc.CreateTemplate(ctx, TemplateRequest{DayOfWeek: intPtr(3), StartTime: "10:00", EndTime: "13:00", DurationMinutes: 30})
	assert.NoError(t, err)

	// inactive templates are not checked
	_, err = svc.CreateTemplate(ctx, TemplateRequest{DayOfWeek: intPtr(2), StartTime: "09:30", EndTime: "11:00", DurationMinutes: 30, IsActive: boolPtr(false)})
	assert.NoError(t, err)
}

func TestService_UpdateTemplate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateTemplate(ctx, TemplateRequest{DayOfWeek: intPtr(4), StartTime: "09:00", EndTime: "12:00", DurationMinutes: 30})
	require.NoError(t, err)
	_, err = svc.CreateTemplate(ctx, TemplateRequest{DayOfWeek: intPtr(4), StartTime: "14:00", EndTime: "16:00", DurationMinutes: 60})
	require.NoError(t, err)

	// growing a into b is an overlap, but overlapping its own old window is not
	_, err = svc.UpdateTemplate(ctx, a.ID, TemplateRequest{DayOfWeek: intPtr(4), StartTime: "09:00", EndTime: "15:00", DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrTemplateOverlap)

	updated, err := svc.UpdateTemplate(ctx, a.ID, TemplateRequest{DayOfWeek: intPtr(4), StartTime: "08:00", EndTime: "13:00", DurationMinutes: 45, IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "08:00", updated.StartTime.String())
	assert.Equal(t, 45, updated.DurationMinutes)
	assert.False(t, updated.IsActive)

	_, err = svc.UpdateTemplate(ctx, 9999, TemplateRequest{DayOfWeek: intPtr(4), StartTime: "08:00", EndTime: "13:00", DurationMinutes: 45})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestService_DeleteTemplate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tpl, err := svc.CreateTemplate(ctx, TemplateRequest{DayOfWeek: intPtr(5), StartTime: "09:00", EndTime: "10:00", DurationMinutes: 30})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTemplate(ctx, tpl.ID))
	assert.ErrorIs(t, svc.DeleteTemplate(ctx, tpl.ID), ErrTemplateNotFound)
}

func TestService_BlockedDates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	b, err := svc.BlockDate(ctx, BlockDateRequest{Date: "2099-12-25", Reason: "Holiday"})
	require.NoError(t, err)
	assert.Equal(t, "2099-12-25", b.Date)

	_, err = svc.BlockDate(ctx, BlockDateRequest{Date: "2099-12-25"})
	assert.ErrorIs(t, err, ErrDateAlreadyBlocked)

	_, err = svc.BlockDate(ctx, BlockDateRequest{Date: "25/12/2099"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.BlockDate(ctx, BlockDateRequest{Date: "2000-01-01"})
	require.NoError(t, err)

	all, err := svc.ListBlockedDates(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	upcoming, err := svc.ListBlockedDates(ctx, true)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "2099-12-25", upcoming[0].Date)

	require.NoError(t, svc.UnblockDate(ctx, b.ID))
	assert.ErrorIs(t, svc.UnblockDate(ctx, b.ID), ErrBlockedDateNotFound)
}

func TestBlockedDateRepository_IsBlocked(t *testing.T) {
	db := openTestDB(t)
	repo := NewBlockedDateRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &BlockedDate{Date: "2025-01-01", Reason: "New year"}))

	blocked, err := repo.IsBlocked(ctx, "2025-01-01")
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = repo.IsBlocked(ctx, "2025-01-02")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestTemplateRepository_ListActiveByWeekday(t *testing.T) {
	db := openTestDB(t)
	repo := NewTemplateRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &WeeklyTemplateSlot{DayOfWeek: time.Wednesday, StartTime: MustWallClock("14:00"), EndTime: MustWallClock("16:00"), DurationMinutes: 30, IsActive: true}))
	require.NoError(t, repo.Create(ctx, &WeeklyTemplateSlot{DayOfWeek: time.Wednesday, StartTime: MustWallClock("09:00"), EndTime: MustWallClock("12:00"), DurationMinutes: 30, IsActive: true}))
	require.NoError(t, repo.Create(ctx, &WeeklyTemplateSlot{DayOfWeek: time.Wednesday, StartTime: MustWallClock("18:00"), EndTime: MustWallClock("19:00"), DurationMinutes: 30, IsActive: false}))
	require.NoError(t, repo.Create(ctx, &WeeklyTemplateSlot{DayOfWeek: time.Thursday, StartTime: MustWallClock("09:00"), EndTime: MustWallClock("12:00"), DurationMinutes: 30, IsActive: true}))

	list, err := repo.ListActiveByWeekday(ctx, time.Wednesday)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "09:00", list[0].StartTime.String())
	assert.Equal(t, "14:00", list[1].StartTime.String())
}
