package resource

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"webshot/pkg/images"
	stdnet "webshot/std/net"
)

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher fetches http(s), file and data URIs and local paths,
// resolving relative URIs against a base URL.
type DefaultFetcher struct {
	baseURL string
}

// NewFetcher creates a DefaultFetcher with the given base URL.
// Relative URIs passed to Fetch will be resolved against this base.
func NewFetcher(baseURL string) *DefaultFetcher {
	return &DefaultFetcher{baseURL: baseURL}
}

// Fetch retrieves the resource at the given URI.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	uri = strings.TrimSpace(uri)
	if images.IsDataURI(uri) {
		return images.DecodeDataURI(uri)
	}

	resolved := uri
	if !stdnet.IsNetworkURL(uri) && !stdnet.IsFileURL(uri) && f.baseURL != "" {
		resolved = stdnet.ResolveURL(f.baseURL, uri)
	}

	switch {
	case stdnet.IsNetworkURL(resolved):
		return stdnet.Fetch(ctx, resolved)
	case stdnet.IsFileURL(resolved):
		path, err := stdnet.FilePath(resolved)
		if err != nil {
			return nil, "", err
		}
		return readFile(ctx, path)
	default:
		return readFile(ctx, resolved)
	}
}

func readFile(ctx context.Context, path string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return body, mime.TypeByExtension(filepath.Ext(path)), nil
}

// FetchCSS fetches a stylesheet URI and returns its text content.
// Returns an error if the content type does not look like CSS or text.
func FetchCSS(ctx context.Context, f Fetcher, uri string) (string, error) {
	body, contentType, err := f.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("unexpected content type for CSS: %s", contentType)
	}
	return string(body), nil
}

// FetchImage fetches an image URI and returns its raw bytes.
func FetchImage(ctx context.Context, f Fetcher, uri string) ([]byte, error) {
	body, _, err := f.Fetch(ctx, uri)
	return body, err
}
