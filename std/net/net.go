package net

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

const userAgent = "webshot/1.0 (compatible; Go)"

// MaxBodySize bounds how much of a response is read.
const MaxBodySize = 32 << 20

// httpClient is a shared HTTP client. Per-request deadlines come from the
// caller's context; the client timeout is a backstop.
var httpClient = &http.Client{
	Timeout: 60 * time.Second,
}

// Fetch retrieves the content at the given URL via HTTP/HTTPS.
// Returns the response body, content type, and any error.
func Fetch(ctx context.Context, rawURL string) (body []byte, contentType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, rawURL)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}

	contentType = resp.Header.Get("Content-Type")
	return body, contentType, nil
}

// ResolveURL resolves a possibly-relative URI against a base URL.
// If ref is already absolute, it is returned as-is.
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

// IsNetworkURL returns true if the string looks like an HTTP or HTTPS URL.
func IsNetworkURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsFileURL reports whether s is a file: URL.
func IsFileURL(s string) bool {
	return strings.HasPrefix(s, "file:")
}

// FilePath returns the local path named by a file: URL.
func FilePath(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", fileURL, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("not a file URL: %s", fileURL)
	}
	if u.Path == "" {
		return u.Opaque, nil
	}
	return filepath.FromSlash(u.Path), nil
}

// NormalizeURI turns a command-line argument into an absolute URI: URLs
// with a scheme pass through, anything else is taken as a local path.
func NormalizeURI(arg string) (string, error) {
	if IsNetworkURL(arg) || IsFileURL(arg) || strings.HasPrefix(arg, "data:") {
		return arg, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", arg, err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
