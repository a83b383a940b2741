package repository

import (
	"context"
	"time"

	"fptrack/internal/domain"

	"gorm.io/gorm"
)

type AttendanceLogRepository struct {
	db *gorm.DB
}

func NewAttendanceLogRepository(db *gorm.DB) *AttendanceLogRepository {
	return &AttendanceLogRepository{db: db}
}

func (r *AttendanceLogRepository) Create(ctx context.Context, l *domain.AttendanceLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// ExistsSimilar reports whether a punch is a duplicate of one already stored:
// either the exact same user+timestamp, or the same user+status within a
// two-minute window (devices frequently register double presses).
func (r *AttendanceLogRepository) ExistsSimilar(ctx context.Context, deviceUserID string, t time.Time, checkStatus string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&domain.AttendanceLog{}).
		Where("device_user_id = ?", deviceUserID)
	if checkStatus != "" {
		q = q.Where("time = ? OR (check_status = ? AND time >= ? AND time <= ?)",
			t, checkStatus, t.Add(-2*time.Minute), t.Add(2*time.Minute))
	} else {
		q = q.Where("time = ?", t)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

type AttendanceLogFilter struct {
	DeviceUserID string
	From         *time.Time
	To           *time.Time
	Limit        int
}

func (r *AttendanceLogRepository) List(ctx context.Context, f AttendanceLogFilter) ([]domain.AttendanceLog, error) {
	q := r.db.WithContext(ctx).Model(&domain.AttendanceLog{})
	if f.DeviceUserID != "" {
		q = q.Where("device_user_id = ?", f.DeviceUserID)
	}
	if f.From != nil {
		q = q.Where("time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("time < ?", *f.To)
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []domain.AttendanceLog
	err := q.Order("time DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
