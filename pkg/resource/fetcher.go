package resource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	stdnet "flowframe/std/net"
)

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher fetches scenario scripts from local files or over
// HTTP/HTTPS, resolving relative URIs against a base.
type DefaultFetcher struct {
	base string
}

// NewFetcher creates a DefaultFetcher. base is either a URL or a directory;
// relative URIs passed to Fetch are resolved against it.
func NewFetcher(base string) *DefaultFetcher {
	return &DefaultFetcher{base: base}
}

// Fetch retrieves the resource at the given URI.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	resolved := f.Resolve(uri)
	if stdnet.IsNetworkURL(resolved) {
		return stdnet.Fetch(ctx, resolved)
	}
	body, err := os.ReadFile(resolved)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", resolved, err)
	}
	return body, "", nil
}

// Resolve returns the location Fetch would read for uri.
func (f *DefaultFetcher) Resolve(uri string) string {
	switch {
	case stdnet.IsNetworkURL(uri), f.base == "":
		return uri
	case stdnet.IsNetworkURL(f.base):
		return stdnet.ResolveURL(f.base, uri)
	case filepath.IsAbs(uri):
		return uri
	default:
		return filepath.Join(f.base, uri)
	}
}

// FetchScript fetches a scenario script and returns its source.
// Returns an error if the content type does not look like a script.
func (f *DefaultFetcher) FetchScript(ctx context.Context, uri string) (string, error) {
	body, contentType, err := f.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	if !stdnet.IsScriptType(contentType) {
		return "", fmt.Errorf("unexpected content type for script: %s", contentType)
	}
	return string(body), nil
}
