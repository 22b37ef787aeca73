package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pefman/tracker-detail/internal/tracker"
	"go.uber.org/zap"
)

// TrackerDataPath is the backend route serving tracker totals.
const TrackerDataPath = "/_get_tracker_data"

const defaultTimeout = 8 * time.Second

// Updater consumes decoded tracker totals.
type Updater interface {
	UpdateAllTrackers(trackerKey string, totals tracker.Totals)
}

// Config holds API configuration
type Config struct {
	// ScriptRoot is the base path the tracker route hangs off.
	ScriptRoot string
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api status %d", e.StatusCode)
}

type Client struct {
	config     Config
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

// WithLogger sets the logger used for asynchronous refresh failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(scriptRoot string, opts ...Option) *Client {
	c := &Client{
		config:     Config{ScriptRoot: scriptRoot},
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) apiGet(ctx context.Context, path string, query url.Values) (tracker.Totals, error) {
	base := strings.TrimRight(c.config.ScriptRoot, "/")
	u := base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return tracker.Totals{}, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return tracker.Totals{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return tracker.Totals{}, &StatusError{StatusCode: resp.StatusCode}
	}
	return tracker.DecodeResponse(resp.Body)
}

// FetchTracker reads the totals of trackerKey for a player.
func (c *Client) FetchTracker(ctx context.Context, playerUID int64, trackerKey string) (tracker.Totals, error) {
	q := url.Values{}
	q.Set("player_uid", strconv.FormatInt(playerUID, 10))
	q.Set("tracker_key", trackerKey)
	totals, err := c.apiGet(ctx, TrackerDataPath, q)
	if err != nil {
		return tracker.Totals{}, fmt.Errorf("fetch tracker %q for player %d: %w", trackerKey, playerUID, err)
	}
	return totals, nil
}

// RefreshTracker fetches the totals and hands them to u. On error u is not called.
func (c *Client) RefreshTracker(ctx context.Context, playerUID int64, trackerKey string, u Updater) error {
	totals, err := c.FetchTracker(ctx, playerUID, trackerKey)
	if err != nil {
		return err
	}
	u.UpdateAllTrackers(trackerKey, totals)
	return nil
}

// RefreshTrackerAsync runs RefreshTracker in the background. Failures are
// logged and otherwise dropped. The returned channel is closed when it finishes.
func (c *Client) RefreshTrackerAsync(ctx context.Context, playerUID int64, trackerKey string, u Updater) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := c.RefreshTracker(ctx, playerUID, trackerKey, u); err != nil {
			c.log.Warn("tracker refresh failed",
				zap.Int64("player_uid", playerUID),
				zap.String("tracker_key", trackerKey),
				zap.Error(err))
		}
	}()
	return done
}
