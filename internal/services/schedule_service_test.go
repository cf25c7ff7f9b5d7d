package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbeckers/worldvault/internal/models"
)

func newScheduleService(t *testing.T) *ScheduleService {
	t.Helper()
	db := newTestDB(t)
	return NewScheduleService(db, NewEventService(db, nil))
}

func TestCreateSchedule(t *testing.T) {
	svc := newScheduleService(t)

	created, err := svc.CreateSchedule(models.Schedule{
		ID:             uuid.New().String(),
		Name:           "nightly",
		CronExpression: "0 4 * * *",
		IsActive:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, "nightly", created.Name)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.NextRunAt)
	assert.True(t, created.NextRunAt.After(time.Now()))
	assert.Nil(t, created.LastRunAt)
}

func TestCreateScheduleInvalidCron(t *testing.T) {
	svc := newScheduleService(t)

	_, err := svc.CreateSchedule(models.Schedule{
		ID:             uuid.New().String(),
		Name:           "broken",
		CronExpression: "not a cron",
	})
	assert.Error(t, err)
}

func TestGetAllActiveSchedules(t *testing.T) {
	svc := newScheduleService(t)

	_, err := svc.CreateSchedule(models.Schedule{ID: uuid.New().String(), Name: "on", CronExpression: "@hourly", IsActive: true})
	require.NoError(t, err)
	_, err = svc.CreateSchedule(models.Schedule{ID: uuid.New().String(), Name: "off", CronExpression: "@daily", IsActive: false})
	require.NoError(t, err)

	active, err := svc.GetAllActiveSchedules()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "on", active[0].Name)

	all, err := svc.GetAllSchedules()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateSchedule(t *testing.T) {
	svc := newScheduleService(t)

	created, err := svc.CreateSchedule(models.Schedule{ID: uuid.New().String(), Name: "nightly", CronExpression: "0 4 * * *", IsActive: true})
	require.NoError(t, err)

	updated, err := svc.UpdateSchedule(created.ID, models.Schedule{Name: "weekly", CronExpression: "0 4 * * 0", IsActive: false})
	require.NoError(t, err)
	assert.Equal(t, "weekly", updated.Name)
	assert.False(t, updated.IsActive)
}

func TestUpdateScheduleRunTimes(t *testing.T) {
	svc := newScheduleService(t)

	created, err := svc.CreateSchedule(models.Schedule{ID: uuid.New().String(), Name: "nightly", CronExpression: "@daily", IsActive: true})
	require.NoError(t, err)

	last := time.Now().Truncate(time.Second)
	next := last.Add(24 * time.Hour)
	require.NoError(t, svc.UpdateScheduleRunTimes(created.ID, last, next))

	got, err := svc.GetScheduleByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastRunAt)
	assert.WithinDuration(t, last, *got.LastRunAt, time.Second)
	require.NotNil(t, got.NextRunAt)
	assert.WithinDuration(t, next, *got.NextRunAt, time.Second)
}

func TestDeleteSchedule(t *testing.T) {
	svc := newScheduleService(t)

	created, err := svc.CreateSchedule(models.Schedule{ID: uuid.New().String(), Name: "nightly", CronExpression: "@daily", IsActive: true})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSchedule(created.ID))
	_, err = svc.GetScheduleByID(created.ID)
	assert.Error(t, err)

	assert.Error(t, svc.DeleteSchedule("missing"))
}
