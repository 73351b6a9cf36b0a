package milwatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"milwatch/internal/models"
	"milwatch/shared/config"
	"milwatch/shared/storage"
)

// FeedClient fetches military aircraft records from the ADS-B feed.
// Every request goes through the shared rate guard, and transport
// failures are retried with exponential backoff. The caller decides what
// an exhausted retry budget means (the poller degrades to an empty batch).
type FeedClient struct {
	url     string
	retries int
	backoff time.Duration
	guard   *storage.RateGuard
	client  *http.Client
}

func NewFeedClient(cfg *config.FeedConfig, guard *storage.RateGuard) *FeedClient {
	return &FeedClient{
		url:     cfg.URL,
		retries: cfg.Retries,
		backoff: time.Duration(cfg.BackoffSeconds) * time.Second,
		guard:   guard,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Fetch returns the raw records of the current feed snapshot, or the
// last error once the retry budget is spent.
func (f *FeedClient) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	if err := f.guard.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("rate guard: %w", err)
	}

	backoff := f.backoff
	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(backoff)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			}
			backoff *= 2
		}
		batch, err := f.fetchOnce(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		return batch, nil
	}
	return nil, lastErr
}

func (f *FeedClient) fetchOnce(ctx context.Context) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed response: %w", err)
	}
	return decodeBatch(body), nil
}

// decodeBatch accepts the feed's known response shapes: an object with
// an "ac" list, an object with an "aircraft" list, or a bare list.
// Anything else yields an empty batch.
func decodeBatch(body []byte) []json.RawMessage {
	var envelope struct {
		AC       []json.RawMessage `json:"ac"`
		Aircraft []json.RawMessage `json:"aircraft"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.AC != nil {
			return envelope.AC
		}
		if envelope.Aircraft != nil {
			return envelope.Aircraft
		}
		return nil
	}

	var bare []json.RawMessage
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare
	}
	return nil
}

var errSkipRecord = errors.New("record skipped")

// normalize converts one raw feed record into an Observation. Records
// that are not JSON objects or carry no usable hex are skipped; bad
// optional values simply leave their field unset, the way the feed's
// loosely typed payloads demand.
func normalize(raw json.RawMessage) (*models.Observation, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: not an object", errSkipRecord)
	}

	hex := strings.ToLower(asString(m["hex"]))
	if hex == "" {
		return nil, fmt.Errorf("%w: missing hex", errSkipRecord)
	}

	reg := strings.TrimSpace(asString(m["r"]))
	if reg == "" {
		reg = strings.TrimSpace(asString(m["reg"]))
	}

	ts := asFloat(m["seen_pos_timestamp"])
	if ts == nil {
		ts = asFloat(m["seen_timestamp"])
	}

	return &models.Observation{
		Hex:         hex,
		Flight:      strings.TrimSpace(asString(m["flight"])),
		Lat:         asFloat(m["lat"]),
		Lon:         asFloat(m["lon"]),
		AltFt:       asInt(m["alt_baro"]),
		GroundSpeed: asFloat(m["gs"]),
		Timestamp:   ts,
		Reg:         reg,
		Squawk:      strings.TrimSpace(asString(m["squawk"])),
		Ground:      asBool(m["ground"]),
		ModelDesc:   asString(m["desc"]),
		ModelType:   asString(m["t"]),
	}, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) *float64 {
	switch x := v.(type) {
	case float64:
		return &x
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return &f
		}
	}
	return nil
}

func asInt(v any) *int {
	switch x := v.(type) {
	case float64:
		n := int(x)
		return &n
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return &n
		}
	}
	return nil
}

func asBool(v any) *bool {
	switch x := v.(type) {
	case bool:
		return &x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "yes":
			t := true
			return &t
		case "false", "0", "no":
			f := false
			return &f
		}
	}
	return nil
}
