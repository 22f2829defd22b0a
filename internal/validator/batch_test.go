package validator

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/HelicopterHelicopter/AssetHound/internal/cache"
	"github.com/HelicopterHelicopter/AssetHound/internal/domain"
	"github.com/HelicopterHelicopter/AssetHound/internal/probe"
)

func newTestCoordinator(timeout time.Duration, maxConcurrent int) *Coordinator {
	v, _ := newTestValidator(timeout)
	return NewCoordinator(v, maxConcurrent, zap.NewNop())
}

func TestValidateBatch_EmptyInput(t *testing.T) {
	co := newTestCoordinator(time.Second, 5)

	results := co.ValidateBatch(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("ValidateBatch(nil) = %d results, want 0", len(results))
	}
	results = co.ValidateBatch(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("ValidateBatch([]) = %d results, want 0", len(results))
	}
}

func TestValidateBatch_Deduplicates(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	co := newTestCoordinator(2*time.Second, 5)
	u := srv.URL + "/asset.png"
	results := co.ValidateBatch(context.Background(), []string{u, u, u})

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].URL != u {
		t.Errorf("result URL = %q, want %q", results[0].URL, u)
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("server saw %d requests, want 1", n)
	}
}

func TestValidateBatch_ConcurrencyBounded(t *testing.T) {
	var inFlight, maxInFlight atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := inFlight.Add(1)
		for {
			prev := maxInFlight.Load()
			if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		inFlight.Add(-1)
	}))
	defer srv.Close()

	urls := make([]string, 12)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/asset/%d", srv.URL, i)
	}

	co := newTestCoordinator(2*time.Second, 4)
	results := co.ValidateBatch(context.Background(), urls)

	if len(results) != len(urls) {
		t.Fatalf("got %d results, want %d", len(results), len(urls))
	}
	for i, out := range results {
		if out.URL != urls[i] {
			t.Errorf("results[%d].URL = %q, want %q (window order preserved)", i, out.URL, urls[i])
		}
		if !out.IsValid {
			t.Errorf("results[%d] broken, want valid: %+v", i, out)
		}
	}
	if max := maxInFlight.Load(); max > 4 {
		t.Errorf("max in-flight probes = %d, want <= 4", max)
	}
}

// blockingServer holds every request open until released or the
// request's own context is cancelled.
func blockingServer(started chan<- struct{}, release <-chan struct{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case started <- struct{}{}:
		default:
		}
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
}

func TestValidateBatch_NewBatchSupersedesPrevious(t *testing.T) {
	started := make(chan struct{}, 16)
	release := make(chan struct{})
	defer close(release)
	slow := blockingServer(started, release)
	defer slow.Close()

	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer fast.Close()

	v, _ := newTestValidator(5 * time.Second)
	co := NewCoordinator(v, 2, zap.NewNop())

	slowURLs := []string{slow.URL + "/a", slow.URL + "/b", slow.URL + "/c", slow.URL + "/d"}
	aDone := make(chan []domain.ValidationOutcome, 1)
	go func() {
		aDone <- co.ValidateBatch(context.Background(), slowURLs)
	}()

	// Wait until batch A is actually probing before superseding it.
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("batch A never reached the network")
	}

	bResults := co.ValidateBatch(context.Background(), []string{fast.URL + "/x"})
	if len(bResults) != 1 || !bResults[0].IsValid || bResults[0].Error != "" {
		t.Fatalf("batch B results = %+v, want one clean valid outcome", bResults)
	}

	select {
	case aResults := <-aDone:
		// A was cancelled: it must return at most partial results and
		// never a broken outcome caused by the cancellation.
		if len(aResults) > len(slowURLs) {
			t.Errorf("batch A returned %d results, want <= %d", len(aResults), len(slowURLs))
		}
		for _, out := range aResults {
			if !out.IsValid {
				t.Errorf("cancelled batch produced broken outcome: %+v", out)
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("superseded batch A did not terminate")
	}
}

func TestCoordinator_CancelAbortsInFlightBatch(t *testing.T) {
	started := make(chan struct{}, 16)
	release := make(chan struct{})
	defer close(release)
	slow := blockingServer(started, release)
	defer slow.Close()

	v, _ := newTestValidator(5 * time.Second)
	co := NewCoordinator(v, 2, zap.NewNop())

	urls := []string{slow.URL + "/a", slow.URL + "/b", slow.URL + "/c", slow.URL + "/d", slow.URL + "/e"}
	done := make(chan []domain.ValidationOutcome, 1)
	go func() {
		done <- co.ValidateBatch(context.Background(), urls)
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("batch never reached the network")
	}
	co.Cancel()

	select {
	case results := <-done:
		if len(results) >= len(urls) {
			t.Errorf("got %d results after cancel, want partial (< %d)", len(results), len(urls))
		}
		for _, out := range results {
			if !out.IsValid {
				t.Errorf("cancelled batch produced broken outcome: %+v", out)
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled batch did not terminate")
	}
}

func TestValidateBatch_SharedCacheAcrossBatches(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	c := cache.NewMemoryCache(5 * time.Minute)
	v := New(c, probe.NewProber(2*time.Second), nil, nil, zap.NewNop())
	co := NewCoordinator(v, 5, zap.NewNop())

	u := srv.URL + "/asset.css"
	co.ValidateBatch(context.Background(), []string{u})
	co.ValidateBatch(context.Background(), []string{u})

	if n := requests.Load(); n != 1 {
		t.Errorf("server saw %d requests across two batches, want 1 (second served from cache)", n)
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"a", "b", "a", "c", "b", "a"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("dedupe() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dedupe()[%d] = %q, want %q (first-occurrence order)", i, got[i], want[i])
		}
	}
}
