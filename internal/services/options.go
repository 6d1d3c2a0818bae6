package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"
)

// Options carries the tuning shared by the services.
type Options struct {
	// Timeout bounds each service call. Zero means no extra deadline.
	Timeout time.Duration
	// TxMaxAttempts bounds how many times a transaction is retried after a commit conflict.
	TxMaxAttempts int
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.TxMaxAttempts <= 0 {
		o.TxMaxAttempts = 3
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	return o
}

func (o Options) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.Timeout)
}

// retryTx runs fn until it succeeds, fails with something other than a commit
// conflict, or the attempt budget is spent. Exhaustion yields ErrTransient.
func (o Options) retryTx(ctx context.Context, operation string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= o.TxMaxAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, domain.ErrTxConflict) {
			return err
		}
		o.Metrics.RecordTxRetry(operation)
		o.Logger.Debug("transaction conflict", "operation", operation, "attempt", attempt)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return fmt.Errorf("%w: %s gave up after %d attempts: %v", domain.ErrTransient, operation, o.TxMaxAttempts, err)
}

// ensureProfile loads the caller's profile, creating it on first access.
func ensureProfile(ctx context.Context, repo domain.ProfileRepository, caller domain.Identity, now time.Time) (*domain.Profile, error) {
	if caller.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	p, err := repo.GetByID(ctx, caller.UserID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	displayName := caller.Name
	if displayName == "" {
		displayName = caller.Email
	}
	if err := repo.Create(ctx, domain.NewProfile(caller.UserID, displayName, caller.Email, now)); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	// Re-read so a concurrent first access wins consistently.
	p, err = repo.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}
