package validator

import (
	"strings"

	"github.com/HelicopterHelicopter/AssetHound/internal/probe"
)

// missingMarkers are substrings of CDN-synthesized "no such object"
// error pages (S3-style XML bodies and generic HTML error pages),
// matched against the lowercased response body.
var missingMarkers = []string{
	"accessdenied",
	"nosuchkey",
	"not found",
	"does not exist",
	"<error>",
	"the specified key does not exist",
}

// looksLikeMissingResource reports whether an ambiguous response is a
// CDN error page for a resource that does not exist. Only XML and HTML
// bodies carrying a known marker count as missing; everything else
// (empty or binary bodies included) stays ambiguous, so a 403 without
// markers resolves to "valid but protected". The heuristic is
// deliberately conservative toward valid: a false "broken" warning is
// worse than a missed one.
func looksLikeMissingResource(resp *probe.Response) bool {
	contentType := strings.ToLower(resp.ContentType())
	if !strings.Contains(contentType, "xml") && !strings.Contains(contentType, "text/html") {
		return false
	}
	body := strings.ToLower(resp.Body)
	for _, marker := range missingMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}
