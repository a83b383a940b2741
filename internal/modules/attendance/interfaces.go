package attendance

import (
	"context"
	"time"

	"fptrack/internal/device"
	"fptrack/internal/domain"
	"fptrack/internal/repository"
)

// LogRepositoryInterface — storage for punches.
type LogRepositoryInterface interface {
	Create(ctx context.Context, l *domain.AttendanceLog) error
	ExistsSimilar(ctx context.Context, deviceUserID string, t time.Time, checkStatus string) (bool, error)
	List(ctx context.Context, f repository.AttendanceLogFilter) ([]domain.AttendanceLog, error)
}

// DeviceReader pulls the punch buffer from one terminal. Implemented in
// internal/device.
type DeviceReader interface {
	ReadLogs(ctx context.Context, deviceIP string) ([]device.PunchLog, error)
}
