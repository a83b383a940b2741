package auth

import (
	"context"
	"log"
	"time"
)

// Sweeper hard-deletes refresh tokens past their expiry, revoked or not.
// Revocation keeps the audit trail while a token could still matter; once the
// expiry window has passed the row is just noise.
type Sweeper struct {
	tokens   RefreshTokenRepositoryInterface
	interval time.Duration
}

func NewSweeper(tokens RefreshTokenRepositoryInterface, interval time.Duration) *Sweeper {
	return &Sweeper{tokens: tokens, interval: interval}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
// A failed cycle is logged and the loop carries on; the next tick retries.
func (s *Sweeper) Run(ctx context.Context) {
	log.Printf("token sweeper started: interval=%s", s.interval)

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("token sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.tokens.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("token sweep failed: %v", err)
		return
	}
	log.Printf("token sweep completed: deleted=%d", n)
}
