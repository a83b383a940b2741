package domain

import "time"

// AttendanceLog is a single punch read from a fingerprint terminal.
// DeviceUserID is the identity on the device, not our user id; the linkage
// lives on User.DeviceUserID.
type AttendanceLog struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	DeviceUserID string    `json:"deviceUserId" gorm:"size:32;index;not null"`
	DeviceIP     string    `json:"deviceIp" gorm:"size:64"`
	Time         time.Time `json:"time" gorm:"index;not null"`
	CheckStatus  string    `json:"checkStatus" gorm:"size:16"`
	CreatedAt    time.Time `json:"createdAt"`
}
