package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fptrack/internal/domain"
)

func TestSweeperDeletesExpiredTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	seed := []domain.RefreshToken{
		{UserID: 1, Token: "expired-active", ExpiresAt: now.Add(-time.Hour)},
		{UserID: 1, Token: "expired-revoked", ExpiresAt: now.Add(-time.Hour), RevokedAt: &now},
		{UserID: 1, Token: "still-valid", ExpiresAt: now.Add(time.Hour)},
		{UserID: 1, Token: "valid-revoked", ExpiresAt: now.Add(time.Hour), RevokedAt: &now},
	}
	for i := range seed {
		require.NoError(t, env.tokens.Create(ctx, &seed[i]))
	}

	sweeper := NewSweeper(env.tokens, time.Hour)
	sweeper.sweep(ctx)

	// Expired tokens are gone regardless of revocation state.
	for _, token := range []string{"expired-active", "expired-revoked"} {
		_, err := env.tokens.GetByToken(ctx, token)
		assert.Error(t, err, "token %q should have been deleted", token)
	}

	// Unexpired tokens survive, revoked or not; revocation is audit state.
	for _, token := range []string{"still-valid", "valid-revoked"} {
		_, err := env.tokens.GetByToken(ctx, token)
		assert.NoError(t, err, "token %q should have survived", token)
	}
}

func TestSweeperSweepsEveryTick(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	expired := domain.RefreshToken{
		UserID:    1,
		Token:     "expired-later",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	require.NoError(t, env.tokens.Create(ctx, &expired))

	sweeper := NewSweeper(env.tokens, 10*time.Millisecond)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	go func() {
		sweeper.Run(runCtx)
		close(done)
	}()

	// The row disappears within a couple of ticks.
	deadline := time.After(5 * time.Second)
	for {
		if _, err := env.tokens.GetByToken(ctx, "expired-later"); err != nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("expired token was never swept")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
