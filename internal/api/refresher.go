package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Subscription names one tracker of one player to keep fresh.
type Subscription struct {
	PlayerUID  int64
	TrackerKey string
}

// Refresher periodically refreshes a fixed set of trackers.
type Refresher struct {
	mu       sync.Mutex
	client   *Client
	updater  Updater
	subs     []Subscription
	interval time.Duration
	log      *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewRefresher creates a Refresher. interval <= 0 defaults to 30s.
func NewRefresher(client *Client, u Updater, subs []Subscription, interval time.Duration, log *zap.Logger) *Refresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Refresher{
		client:   client,
		updater:  u,
		subs:     append([]Subscription(nil), subs...),
		interval: interval,
		log:      log,
	}
}

// Start runs one Update and then refreshes on every tick until Stop or ctx ends.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return fmt.Errorf("refresher already started")
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.mu.Unlock()

	// Initial update
	r.Update(ctx)

	go r.run(ctx)
	return nil
}

func (r *Refresher) run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Update(ctx)
		}
	}
}

// Update refreshes every subscription once, in order. Failures are logged
// and the remaining subscriptions still run. It returns the number of failures.
func (r *Refresher) Update(ctx context.Context) int {
	failed := 0
	for _, s := range r.subs {
		if err := r.client.RefreshTracker(ctx, s.PlayerUID, s.TrackerKey, r.updater); err != nil {
			failed++
			r.log.Warn("tracker refresh failed",
				zap.Int64("player_uid", s.PlayerUID),
				zap.String("tracker_key", s.TrackerKey),
				zap.Error(err))
		}
	}
	return failed
}

// Stop stops periodic refreshes and waits for the loop to exit.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel = nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
