package attendance

import (
	"time"

	"fptrack/internal/domain"
)

// LogResponse is the wire shape of one punch.
type LogResponse struct {
	ID           int64     `json:"id"`
	DeviceUserID string    `json:"deviceUserId"`
	DeviceIP     string    `json:"deviceIp"`
	Time         time.Time `json:"time"`
	CheckStatus  string    `json:"checkStatus"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toLogResponse(l domain.AttendanceLog) LogResponse {
	return LogResponse{
		ID:           l.ID,
		DeviceUserID: l.DeviceUserID,
		DeviceIP:     l.DeviceIP,
		Time:         l.Time,
		CheckStatus:  l.CheckStatus,
		CreatedAt:    l.CreatedAt,
	}
}

func toLogResponses(logs []domain.AttendanceLog) []LogResponse {
	out := make([]LogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, toLogResponse(l))
	}
	return out
}
