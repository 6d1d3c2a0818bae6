package services

import (
	"context"
	"log/slog"
	"time"

	"conferencecentral/internal/domain"
)

// RunAnnouncementRefresher recomputes the announcement immediately and then on
// every tick of interval until ctx is cancelled.
func RunAnnouncementRefresher(ctx context.Context, svc domain.ConferenceService, interval time.Duration, logger *slog.Logger) error {
	refresh := func() {
		msg, err := svc.RefreshAnnouncement(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("refresh announcement", "error", err)
			}
			return
		}
		logger.Debug("announcement refreshed", "announcement", msg)
	}

	refresh()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			refresh()
		}
	}
}
