package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/MJE43/runner-go/internal/leaderboard"
	"github.com/MJE43/runner-go/internal/localstore"
)

type memLocal struct {
	mu        sync.Mutex
	records   []leaderboard.Record
	appendErr error
	readErr   error
}

func (m *memLocal) LocalScores(ctx context.Context) ([]leaderboard.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make([]leaderboard.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memLocal) AppendScore(ctx context.Context, rec leaderboard.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.records = append(m.records, rec)
	leaderboard.Sort(m.records)
	return nil
}

func newTestClient(baseURL string, local LocalStore) *Client {
	return New(Config{BaseURL: baseURL, Logger: log.New(io.Discard, "", 0)}, local)
}

// unreachable returns the URL of a server that is already closed.
func unreachable(t *testing.T) string {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func TestSubmitScoreRemote(t *testing.T) {
	var got leaderboard.Record
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/scores" {
			t.Errorf("Expected POST /scores, got %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode body: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	local := &memLocal{}
	rec := leaderboard.Record{Name: "Ana", Score: 120, Level: 1, Date: "2025-01-01T00:00:00Z"}

	res, err := newTestClient(srv.URL, local).SubmitScore(context.Background(), rec)
	if err != nil {
		t.Fatalf("SubmitScore failed: %v", err)
	}
	if res.Source != SourceRemote || res.RemoteErr != nil {
		t.Errorf("Expected remote source without error, got %s %v", res.Source, res.RemoteErr)
	}
	if got != rec {
		t.Errorf("Expected server to receive %+v, got %+v", rec, got)
	}
	if len(local.records) != 1 {
		t.Errorf("Expected record kept locally exactly once, got %d", len(local.records))
	}
}

func TestSubmitScoreServiceDown(t *testing.T) {
	local := &memLocal{}
	rec := leaderboard.Record{Name: "Ana", Score: 120, Level: 1}

	res, err := newTestClient(unreachable(t), local).SubmitScore(context.Background(), rec)
	if err != nil {
		t.Fatalf("SubmitScore failed: %v", err)
	}
	if res.Source != SourceLocalFallback || res.RemoteErr == nil {
		t.Errorf("Expected local fallback with remote error, got %s %v", res.Source, res.RemoteErr)
	}
	if len(local.records) != 1 || local.records[0] != rec {
		t.Fatalf("Expected fallback to append exactly once, got %+v", local.records)
	}
}

func TestSubmitScoreDeadlineStillStoresLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	local, err := localstore.New(":memory:")
	if err != nil {
		t.Fatalf("localstore.New failed: %v", err)
	}
	defer local.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	rec := leaderboard.Record{Name: "Ana", Score: 120, Level: 1}
	res, err := newTestClient(srv.URL, local).SubmitScore(ctx, rec)
	if err != nil {
		t.Fatalf("Expected record to be kept locally, got %v", err)
	}
	if res.Source != SourceLocalFallback {
		t.Errorf("Expected local fallback, got %s", res.Source)
	}
	if !errors.Is(res.RemoteErr, context.DeadlineExceeded) {
		t.Errorf("Expected deadline error from the service call, got %v", res.RemoteErr)
	}

	records, err := local.LocalScores(context.Background())
	if err != nil {
		t.Fatalf("LocalScores failed: %v", err)
	}
	if len(records) != 1 || records[0] != rec {
		t.Errorf("Expected the record in local storage, got %+v", records)
	}
}

func TestSubmitScoreCancelledContextStoresLocally(t *testing.T) {
	local, err := localstore.New(":memory:")
	if err != nil {
		t.Fatalf("localstore.New failed: %v", err)
	}
	defer local.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestClient(unreachable(t), local).SubmitScore(ctx, leaderboard.Record{Name: "p", Score: 9}); err != nil {
		t.Fatalf("Expected record to be kept locally, got %v", err)
	}
	records, err := local.LocalScores(context.Background())
	if err != nil {
		t.Fatalf("LocalScores failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected 1 local record, got %d", len(records))
	}
}

func TestSubmitScoreRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid name"}`))
	}))
	defer srv.Close()

	local := &memLocal{}
	res, err := newTestClient(srv.URL, local).SubmitScore(context.Background(), leaderboard.Record{Score: 1})
	if err != nil {
		t.Fatalf("SubmitScore failed: %v", err)
	}
	if res.Source != SourceLocalFallback {
		t.Errorf("Expected local fallback, got %s", res.Source)
	}

	var httpErr *HTTPError
	if !errors.As(res.RemoteErr, &httpErr) {
		t.Fatalf("Expected *HTTPError, got %T", res.RemoteErr)
	}
	if !httpErr.IsValidation() || httpErr.IsRetryable() {
		t.Errorf("Expected a non-retryable validation error, got %+v", httpErr)
	}
	if len(local.records) != 1 {
		t.Errorf("Expected 1 local record, got %d", len(local.records))
	}
}

func TestSubmitScoreStoredNowhere(t *testing.T) {
	diskFull := errors.New("disk full")
	local := &memLocal{appendErr: diskFull}

	_, err := newTestClient(unreachable(t), local).SubmitScore(context.Background(), leaderboard.Record{Score: 1})
	if !errors.Is(err, diskFull) {
		t.Errorf("Expected error wrapping the local failure, got %v", err)
	}
}

func TestSubmitScoreLocalFailureIgnoredWhenRemoteOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	local := &memLocal{appendErr: errors.New("disk full")}
	res, err := newTestClient(srv.URL, local).SubmitScore(context.Background(), leaderboard.Record{Score: 1})
	if err != nil {
		t.Fatalf("Expected no error when the service stored the record, got %v", err)
	}
	if res.Source != SourceRemote {
		t.Errorf("Expected remote source, got %s", res.Source)
	}
}

func TestFetchTopMergesLocal(t *testing.T) {
	remote := []leaderboard.Record{
		{Name: "r1", Score: 300, Level: 1, Date: "a"},
		{Name: "r2", Score: 200, Level: 1, Date: "b"},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(remote)
	}))
	defer srv.Close()

	local := &memLocal{records: []leaderboard.Record{
		{Name: "offline", Score: 250, Level: 1, Date: "c"},
		remote[0],
	}}

	res, err := newTestClient(srv.URL, local).FetchTop(context.Background(), 0)
	if err != nil {
		t.Fatalf("FetchTop failed: %v", err)
	}
	if res.Source != SourceRemote {
		t.Errorf("Expected remote source, got %s", res.Source)
	}
	want := []string{"r1", "offline", "r2"}
	if len(res.Records) != len(want) {
		t.Fatalf("Expected %d records, got %+v", len(want), res.Records)
	}
	for i, name := range want {
		if res.Records[i].Name != name {
			t.Errorf("Record %d: expected %s, got %s", i, name, res.Records[i].Name)
		}
	}
}

func TestFetchTopFallback(t *testing.T) {
	local := &memLocal{}
	for i := 1; i <= 12; i++ {
		local.records = append(local.records, leaderboard.Record{Name: "p", Score: i * 10, Level: 1})
	}

	res, err := newTestClient(unreachable(t), local).FetchTop(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchTop failed: %v", err)
	}
	if res.Source != SourceLocalFallback || res.RemoteErr == nil {
		t.Errorf("Expected local fallback with remote error, got %s %v", res.Source, res.RemoteErr)
	}
	if len(res.Records) != 10 {
		t.Fatalf("Expected 10 records, got %d", len(res.Records))
	}
	if res.Records[0].Score != 120 || res.Records[9].Score != 30 {
		t.Errorf("Expected scores 120..30, got %d..%d", res.Records[0].Score, res.Records[9].Score)
	}
}

func TestFetchTopServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	local := &memLocal{records: []leaderboard.Record{{Name: "me", Score: 5}}}
	res, err := newTestClient(srv.URL, local).FetchTop(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchTop failed: %v", err)
	}
	if res.Source != SourceLocalFallback {
		t.Errorf("Expected local fallback, got %s", res.Source)
	}

	var httpErr *HTTPError
	if !errors.As(res.RemoteErr, &httpErr) || !httpErr.IsRetryable() {
		t.Errorf("Expected retryable *HTTPError, got %v", res.RemoteErr)
	}
	if len(res.Records) != 1 {
		t.Errorf("Expected 1 record, got %d", len(res.Records))
	}
}

func TestFetchTopNonArrayBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"scores":"nope"}`))
	}))
	defer srv.Close()

	local := &memLocal{records: []leaderboard.Record{{Name: "me", Score: 5}}}
	res, err := newTestClient(srv.URL, local).FetchTop(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchTop failed: %v", err)
	}
	if res.Source != SourceRemote {
		t.Errorf("Expected remote source, got %s", res.Source)
	}
	if len(res.Records) != 1 || res.Records[0].Name != "me" {
		t.Errorf("Expected only the local record, got %+v", res.Records)
	}
}

func TestFetchTopNothingAvailable(t *testing.T) {
	local := &memLocal{readErr: errors.New("locked")}
	res, err := newTestClient(unreachable(t), local).FetchTop(context.Background(), 10)
	if err == nil {
		t.Fatal("Expected error when both sources fail")
	}
	if len(res.Records) != 0 {
		t.Errorf("Expected no records, got %+v", res.Records)
	}
}

func TestNewDefaults(t *testing.T) {
	c := New(Config{BaseURL: "http://example.test/"}, &memLocal{})
	if c.config.BaseURL != "http://example.test" {
		t.Errorf("Expected trailing slash trimmed, got %q", c.config.BaseURL)
	}
	if c.config.Timeout == 0 {
		t.Error("Expected a default timeout")
	}
}
