package validator

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/HelicopterHelicopter/AssetHound/internal/cache"
	"github.com/HelicopterHelicopter/AssetHound/internal/domain"
	"github.com/HelicopterHelicopter/AssetHound/internal/monitoring"
	"github.com/HelicopterHelicopter/AssetHound/internal/probe"
)

// User-visible failure messages. Cancelled checks intentionally report
// valid=true so an abandoned batch never surfaces false "broken"
// diagnostics.
const (
	msgCancelled   = "Request cancelled"
	msgTimeout     = "Request timeout"
	msgDNS         = "Domain not found"
	msgRefused     = "Connection refused"
	msgUnknown     = "Unknown error"
	msgNotFoundCDN = "Not Found (CDN)"
	msgProtected   = "Protected"
)

// Recorder persists terminal outcomes for later status queries. It is
// optional; the engine runs fine without one.
type Recorder interface {
	SaveOutcome(ctx context.Context, outcome domain.ValidationOutcome) error
}

// Validator classifies a single URL as valid or broken using a
// cache-then-HEAD-then-GET probing strategy.
type Validator struct {
	cache    cache.ResultCache
	prober   *probe.Prober
	recorder Recorder
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

func New(c cache.ResultCache, p *probe.Prober, r Recorder, m *monitoring.Metrics, l *zap.Logger) *Validator {
	return &Validator{cache: c, prober: p, recorder: r, metrics: m, logger: l}
}

// Validate resolves one URL to a terminal outcome. A cache hit
// short-circuits everything and returns the stored outcome unchanged.
// Every terminal non-cancelled outcome is written through to the cache
// before being returned; cancelled checks are never cached.
func (v *Validator) Validate(ctx context.Context, rawURL string) domain.ValidationOutcome {
	if out, ok := v.cache.Get(ctx, rawURL); ok {
		v.metrics.IncCacheLookup("hit")
		return out
	}
	v.metrics.IncCacheLookup("miss")

	if ctx.Err() != nil {
		return v.cancelled(rawURL)
	}

	head, err := v.probe(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return v.failure(ctx, rawURL, err)
	}

	switch {
	case liveStatus(head.StatusCode):
		// Fast path; most links land here.
		return v.finish(ctx, outcomeFor(rawURL, head, true, ""))
	case head.StatusCode == http.StatusNotFound || head.StatusCode == http.StatusGone:
		return v.finish(ctx, outcomeFor(rawURL, head, false, ""))
	case head.StatusCode == http.StatusForbidden || head.StatusCode == http.StatusMethodNotAllowed:
		return v.escalate(ctx, rawURL)
	default:
		return v.finish(ctx, outcomeFor(rawURL, head, false, ""))
	}
}

// escalate retries a blocked or refused HEAD as a cheap ranged GET so
// the response body can be inspected for CDN error markers.
func (v *Validator) escalate(ctx context.Context, rawURL string) domain.ValidationOutcome {
	if ctx.Err() != nil {
		return v.cancelled(rawURL)
	}

	get, err := v.probe(ctx, http.MethodGet, rawURL, map[string]string{"Range": "bytes=0-1023"})
	if err != nil {
		return v.failure(ctx, rawURL, err)
	}

	switch {
	case liveStatus(get.StatusCode):
		// HEAD was blocked but the resource exists.
		return v.finish(ctx, outcomeFor(rawURL, get, true, ""))
	case get.StatusCode == http.StatusForbidden:
		if looksLikeMissingResource(get) {
			return v.finish(ctx, outcomeFor(rawURL, get, false, msgNotFoundCDN))
		}
		// No markers: assume hotlink protection rather than a dead link.
		return v.finish(ctx, outcomeFor(rawURL, get, true, msgProtected))
	default:
		return v.finish(ctx, outcomeFor(rawURL, get, liveStatus(get.StatusCode), ""))
	}
}

func (v *Validator) probe(ctx context.Context, method, rawURL string, headers map[string]string) (*probe.Response, error) {
	start := time.Now()
	resp, err := v.prober.Do(ctx, method, rawURL, headers)
	v.metrics.ObserveProbe(method, time.Since(start).Seconds())
	return resp, err
}

// finish is the single exit point for resolved checks: write-through
// to the cache, record history, count, and hand the outcome back.
func (v *Validator) finish(ctx context.Context, out domain.ValidationOutcome) domain.ValidationOutcome {
	v.cache.Set(ctx, out.URL, out)
	if v.recorder != nil {
		if err := v.recorder.SaveOutcome(ctx, out); err != nil {
			v.logger.Warn("failed to record outcome", zap.String("url", out.URL), zap.Error(err))
		}
	}
	if out.IsValid {
		v.metrics.IncValidation("valid")
	} else {
		v.metrics.IncValidation("broken")
		v.logger.Info("broken URL detected",
			zap.String("url", out.URL),
			zap.Int("status", out.StatusCode),
			zap.String("error", out.Error))
	}
	return out
}

func (v *Validator) failure(ctx context.Context, rawURL string, err error) domain.ValidationOutcome {
	kind, message := classifyTransportError(err)
	v.metrics.IncProbeError(kind)
	if kind == "cancelled" {
		return v.cancelled(rawURL)
	}
	return v.finish(ctx, domain.ValidationOutcome{URL: rawURL, IsValid: false, Error: message})
}

func (v *Validator) cancelled(rawURL string) domain.ValidationOutcome {
	v.metrics.IncValidation("cancelled")
	return domain.ValidationOutcome{URL: rawURL, IsValid: true, Error: msgCancelled}
}

// classifyTransportError normalizes the failure taxonomy: cancellation,
// timeout, DNS failure, connection refusal, then everything else with
// the raw message.
func classifyTransportError(err error) (kind, message string) {
	switch {
	case errors.Is(err, context.Canceled):
		return "cancelled", msgCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout", msgTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return "refused", msgRefused
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns", msgDNS
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout", msgTimeout
	}
	if msg := err.Error(); msg != "" {
		return "other", msg
	}
	return "other", msgUnknown
}

func liveStatus(code int) bool {
	return code >= 200 && code < 400
}

func outcomeFor(rawURL string, resp *probe.Response, valid bool, message string) domain.ValidationOutcome {
	return domain.ValidationOutcome{
		URL:        rawURL,
		IsValid:    valid,
		StatusCode: resp.StatusCode,
		StatusText: resp.Status,
		Error:      message,
	}
}
