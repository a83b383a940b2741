package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fptrack/internal/database"
	"fptrack/internal/device"
	"fptrack/internal/repository"
)

func newTestService(t *testing.T) (*Service, *repository.AttendanceLogRepository) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.AutoMigrate(db))

	logs := repository.NewAttendanceLogRepository(db)
	return NewService(logs, nil), logs
}

func TestIngest_StoresPunches(t *testing.T) {
	svc, logs := newTestService(t)
	ctx := context.Background()

	n, err := svc.Ingest(ctx, "192.168.1.201", []device.PunchLog{
		{UserID: "17", Time: "2026-08-27 08:00:00", CheckStatus: "Check In"},
		{UserID: "18", Time: "2026-08-27 08:01:30", CheckStatus: "Check In"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stored, err := logs.List(ctx, repository.AttendanceLogFilter{})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	assert.Equal(t, "192.168.1.201", stored[0].DeviceIP)
}

func TestIngest_SkipsDuplicates(t *testing.T) {
	svc, logs := newTestService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "192.168.1.201", []device.PunchLog{
		{UserID: "17", Time: "2026-08-27 08:00:00", CheckStatus: "Check In"},
	})
	require.NoError(t, err)

	// Exact replay and a double press inside the two-minute window.
	n, err := svc.Ingest(ctx, "192.168.1.201", []device.PunchLog{
		{UserID: "17", Time: "2026-08-27 08:00:00", CheckStatus: "Check In"},
		{UserID: "17", Time: "2026-08-27 08:01:15", CheckStatus: "Check In"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Past the window it is a fresh punch again.
	n, err = svc.Ingest(ctx, "192.168.1.201", []device.PunchLog{
		{UserID: "17", Time: "2026-08-27 08:03:00", CheckStatus: "Check In"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := logs.List(ctx, repository.AttendanceLogFilter{DeviceUserID: "17"})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestIngest_DifferentStatusInsideWindow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// A Check Out right after a Check In is legitimate, not a double press.
	n, err := svc.Ingest(ctx, "192.168.1.201", []device.PunchLog{
		{UserID: "17", Time: "2026-08-27 08:00:00", CheckStatus: "Check In"},
		{UserID: "17", Time: "2026-08-27 08:01:00", CheckStatus: "Check Out"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIngest_SkipsMalformedEntries(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	n, err := svc.Ingest(ctx, "192.168.1.201", []device.PunchLog{
		{UserID: "", Time: "2026-08-27 08:00:00", CheckStatus: "Check In"},
		{UserID: "17", Time: "", CheckStatus: "Check In"},
		{UserID: "17", Time: "yesterday at noon", CheckStatus: "Check In"},
		{UserID: "17", Time: "2026-08-27T08:00:00", CheckStatus: "Check In"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only the parseable punch with a user id is stored")
}

func TestList_Filters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "192.168.1.201", []device.PunchLog{
		{UserID: "17", Time: "2026-08-27 08:00:00", CheckStatus: "Check In"},
		{UserID: "17", Time: "2026-08-27 17:00:00", CheckStatus: "Check Out"},
		{UserID: "18", Time: "2026-08-27 08:05:00", CheckStatus: "Check In"},
	})
	require.NoError(t, err)

	byUser, err := svc.List(ctx, repository.AttendanceLogFilter{DeviceUserID: "18"})
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	from := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	afterNoon, err := svc.List(ctx, repository.AttendanceLogFilter{From: &from})
	require.NoError(t, err)
	assert.Len(t, afterNoon, 1)
	assert.Equal(t, "Check Out", afterNoon[0].CheckStatus)
}
