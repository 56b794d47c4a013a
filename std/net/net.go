// Package net loads scenario scripts published over HTTP.
package net

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "flowframe/1.0 (scenario loader; Go)"

// MaxBodySize caps the size of a scenario script.
const MaxBodySize = 4 << 20

// scriptAccept prefers script media types over anything else a server offers.
const scriptAccept = "application/javascript, text/javascript, text/plain;q=0.9, */*;q=0.1"

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// Fetch downloads a scenario script. It returns the script body and the
// server's content type; a non-2xx status or a body over MaxBodySize is an
// error.
func Fetch(ctx context.Context, rawURL string) (body []byte, contentType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("scenario request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", scriptAccept)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("loading scenario %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("loading scenario %s: server answered %s", rawURL, resp.Status)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading scenario %s: %w", rawURL, err)
	}
	if len(body) > MaxBodySize {
		return nil, "", fmt.Errorf("scenario %s is larger than %d bytes", rawURL, MaxBodySize)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// ResolveURL resolves a scenario reference against the URL of the scenario
// that names it. Unparseable input is returned unchanged.
func ResolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// IsNetworkURL reports whether a scenario location must be fetched over HTTP
// rather than read from disk.
func IsNetworkURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// IsScriptType reports whether a content type can carry a scenario script.
// An empty content type is accepted.
func IsScriptType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "" {
		return true
	}
	return strings.HasPrefix(ct, "text/") ||
		strings.Contains(ct, "javascript") ||
		strings.Contains(ct, "ecmascript") ||
		strings.HasPrefix(ct, "application/octet-stream")
}
