package attendance

import (
	"context"
	"log"
	"time"
)

// Poller drains the punch buffer of every configured terminal on a fixed
// interval. One bad device or one bad cycle never stops the loop.
type Poller struct {
	service  *Service
	reader   DeviceReader
	devices  []string
	interval time.Duration
}

func NewPoller(service *Service, reader DeviceReader, devices []string, interval time.Duration) *Poller {
	return &Poller{
		service:  service,
		reader:   reader,
		devices:  devices,
		interval: interval,
	}
}

func (p *Poller) Run(ctx context.Context) {
	if len(p.devices) == 0 {
		log.Println("device poller disabled: no devices configured")
		return
	}
	log.Printf("device poller started: devices=%d interval=%s", len(p.devices), p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("device poller stopped")
			return
		case <-ticker.C:
			p.pollAll(ctx)
		}
	}
}

func (p *Poller) pollAll(ctx context.Context) {
	for _, ip := range p.devices {
		punches, err := p.reader.ReadLogs(ctx, ip)
		if err != nil {
			log.Printf("device poll failed: device=%s err=%v", ip, err)
			continue
		}
		n, err := p.service.Ingest(ctx, ip, punches)
		if err != nil {
			log.Printf("punch ingest failed: device=%s err=%v", ip, err)
			continue
		}
		if n > 0 {
			log.Printf("punches ingested: device=%s new=%d", ip, n)
		}
	}
}
