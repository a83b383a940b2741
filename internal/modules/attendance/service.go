package attendance

import (
	"context"
	"log"
	"strings"
	"time"

	"fptrack/internal/device"
	"fptrack/internal/domain"
	"fptrack/internal/repository"
)

// Device clocks report local wall time in a couple of formats depending on
// firmware; try them in order.
var deviceTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Service ingests punches from the terminals and answers log queries.
type Service struct {
	logs LogRepositoryInterface
	hub  *Hub
}

func NewService(logs LogRepositoryInterface, hub *Hub) *Service {
	return &Service{logs: logs, hub: hub}
}

// Ingest stores the punches read from one device, skipping malformed entries
// and duplicates. Returns how many rows were actually written.
func (s *Service) Ingest(ctx context.Context, deviceIP string, punches []device.PunchLog) (int, error) {
	stored := 0
	for _, p := range punches {
		if p.UserID == "" || p.Time == "" {
			continue
		}
		t, ok := parseDeviceTime(p.Time)
		if !ok {
			log.Printf("attendance: unparseable punch time device=%s user=%s time=%q", deviceIP, p.UserID, p.Time)
			continue
		}

		exists, err := s.logs.ExistsSimilar(ctx, p.UserID, t, p.CheckStatus)
		if err != nil {
			return stored, err
		}
		if exists {
			continue
		}

		entry := &domain.AttendanceLog{
			DeviceUserID: p.UserID,
			DeviceIP:     deviceIP,
			Time:         t,
			CheckStatus:  p.CheckStatus,
		}
		if err := s.logs.Create(ctx, entry); err != nil {
			return stored, err
		}
		stored++

		if s.hub != nil {
			s.hub.BroadcastPunch(entry)
		}
	}
	return stored, nil
}

func (s *Service) List(ctx context.Context, f repository.AttendanceLogFilter) ([]domain.AttendanceLog, error) {
	return s.logs.List(ctx, f)
}

func parseDeviceTime(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range deviceTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
