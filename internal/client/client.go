// Package client talks to the score service on behalf of the game. Every
// call degrades to the device-local score list when the service cannot be
// reached, so a finished run is never lost and a leaderboard can always be
// shown.
//
// # Usage
//
//	c := client.New(client.Config{BaseURL: "http://localhost:3000"}, local)
//	res, err := c.SubmitScore(ctx, leaderboard.NewRecord(name, score, level, time.Now()))
//	top, err := c.FetchTop(ctx, leaderboard.DefaultTop)
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/MJE43/runner-go/internal/leaderboard"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// localWriteTimeout bounds the local append, which outlives the caller's
// context.
const localWriteTimeout = 2 * time.Second

// Source tells where a result came from.
type Source string

const (
	SourceRemote        Source = "remote"
	SourceLocalFallback Source = "local-fallback"
)

// LocalStore is the device-local score list used as fallback.
type LocalStore interface {
	LocalScores(ctx context.Context) ([]leaderboard.Record, error)
	AppendScore(ctx context.Context, rec leaderboard.Record) error
}

// Config holds configuration for the score service client.
type Config struct {
	// BaseURL is the service root, e.g. "http://localhost:3000".
	BaseURL string

	// Timeout bounds each request. Defaults to 5 seconds if zero.
	Timeout time.Duration

	// HTTPClient allows injecting a custom HTTP client (useful for testing).
	HTTPClient *http.Client

	Logger *log.Logger
}

// SubmitResult reports how a submission was stored.
type SubmitResult struct {
	Source Source
	Record leaderboard.Record
	// RemoteErr is the service failure that caused a fallback, if any.
	RemoteErr error
}

// FetchResult is a leaderboard ready to display.
type FetchResult struct {
	Source    Source
	Records   []leaderboard.Record
	RemoteErr error
}

// Client submits and fetches scores.
type Client struct {
	config Config
	http   *http.Client
	local  LocalStore
	logger *log.Logger
}

// New creates a client that falls back to local.
func New(cfg Config, local LocalStore) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[CLIENT] ", log.LstdFlags)
	}

	return &Client{
		config: cfg,
		http:   httpClient,
		local:  local,
		logger: logger,
	}
}

// SubmitScore sends rec to the service and appends it to the local list.
// The local copy is kept even when the service accepted the record so the
// device leaderboard stays complete offline. An error is returned only when
// the record could be stored nowhere.
//
// The local append ignores ctx cancellation: a deadline that cut the remote
// call short must not also drop the local copy.
func (c *Client) SubmitScore(ctx context.Context, rec leaderboard.Record) (SubmitResult, error) {
	res := SubmitResult{Source: SourceRemote, Record: rec}

	remoteErr := c.postScore(ctx, rec)
	if remoteErr != nil {
		res.Source = SourceLocalFallback
		res.RemoteErr = remoteErr
		c.logger.Printf("submit_fallback score=%d err=%v", rec.Score, remoteErr)
	}

	localCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), localWriteTimeout)
	defer cancel()
	localErr := c.local.AppendScore(localCtx, rec)
	if localErr != nil {
		c.logger.Printf("local_append_failed score=%d err=%v", rec.Score, localErr)
		if remoteErr != nil {
			return res, multierr.Combine(remoteErr, localErr)
		}
	}
	return res, nil
}

// FetchTop returns the best n records, n <= 0 meaning
// leaderboard.DefaultTop. A reachable service yields its list merged with
// the local one; otherwise the local list alone is returned.
func (c *Client) FetchTop(ctx context.Context, n int) (FetchResult, error) {
	if n <= 0 {
		n = leaderboard.DefaultTop
	}

	local, localErr := c.local.LocalScores(ctx)
	if localErr != nil {
		c.logger.Printf("local_read_failed err=%v", localErr)
		local = nil
	}

	remote, remoteErr := c.getScores(ctx)
	if remoteErr != nil {
		c.logger.Printf("fetch_fallback err=%v", remoteErr)
		if localErr != nil {
			return FetchResult{Source: SourceLocalFallback, Records: []leaderboard.Record{}},
				multierr.Combine(remoteErr, localErr)
		}
		records := make([]leaderboard.Record, len(local))
		copy(records, local)
		leaderboard.Sort(records)
		return FetchResult{
			Source:    SourceLocalFallback,
			Records:   leaderboard.Top(records, n),
			RemoteErr: remoteErr,
		}, nil
	}

	return FetchResult{
		Source:  SourceRemote,
		Records: leaderboard.Merge(remote, local, n),
	}, nil
}

// --- Core request methods ---

func (c *Client) postScore(ctx context.Context, rec leaderboard.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("client: marshal record: %w", err)
	}
	_, err = c.doRequest(ctx, http.MethodPost, "/scores", body)
	return err
}

// getScores fetches the service list. A body that is not a JSON array of
// records counts as an empty list.
func (c *Client) getScores(ctx context.Context) ([]leaderboard.Record, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/scores", nil)
	if err != nil {
		return nil, err
	}

	var records []leaderboard.Record
	if err := json.Unmarshal(respBody, &records); err != nil {
		c.logger.Printf("fetch_unexpected_body err=%v", err)
		return []leaderboard.Record{}, nil
	}
	if records == nil {
		records = []leaderboard.Record{}
	}
	return records, nil
}

// doRequest sends a single request to the service and returns the response
// body of a 2xx answer.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if c.config.BaseURL == "" {
		return nil, errors.New("client: no service URL configured")
	}
	url := c.config.BaseURL + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}
