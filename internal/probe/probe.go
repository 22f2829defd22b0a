package probe

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	// maxRedirects bounds how many redirect hops a single probe will
	// follow; past the bound the last hop's response is returned as-is.
	maxRedirects = 5
	// maxBodyBytes caps how much of a GET body is read. The body only
	// exists so error pages can be inspected, so excess is discarded.
	maxBodyBytes = 10 * 1024

	// Browser-like request headers. Many CDNs serve hotlink-protection
	// pages to unknown agents; the heuristics downstream depend on
	// seeing the same responses a browser would.
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/107.0.0.0 Safari/537.36"
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
)

// Response is the normalized descriptor of a single probe. It lives
// for one classification round and is never persisted.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       string
}

func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// Prober performs conditional HTTP requests honoring method, headers,
// a per-probe timeout, cancellation, and the redirect-count limit.
type Prober struct {
	client  *http.Client
	timeout time.Duration
}

func NewProber(timeout time.Duration) *Prober {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   timeout,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	client := &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				// Better to report the last redirect than nothing.
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	return &Prober{client: client, timeout: timeout}
}

// Do issues exactly one HEAD or GET request against rawURL. Relative
// redirect Locations are resolved against the current URL by the
// underlying client. For HEAD the body is never read; for GET at most
// maxBodyBytes are read. The per-probe timeout spans connection and
// response; cancellation of ctx aborts the request immediately.
func (p *Prober) Do(ctx context.Context, method, rawURL string, extraHeaders map[string]string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	if ref := originOf(req.URL); ref != "" {
		req.Header.Set("Referer", ref)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &Response{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		Header:     resp.Header,
	}
	if method == http.MethodGet {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, err
		}
		out.Body = string(body)
	}
	return out, nil
}

// originOf derives the Referer sent with every probe: the target's own
// origin, which is what hotlink-protection checks expect to see.
func originOf(u *url.URL) string {
	if u == nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/"
}
