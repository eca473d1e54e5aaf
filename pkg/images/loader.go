package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageFetcher returns the raw bytes of an image URI.
type ImageFetcher func(uri string) ([]byte, error)

// defaultSVGSize is used for SVGs without a viewBox.
const defaultSVGSize = 150

// Loader loads and caches images by URI.
type Loader struct {
	fetch ImageFetcher

	mu    sync.RWMutex
	cache map[string]image.Image
}

// NewLoader creates a loader. With a nil fetch only data URIs load.
func NewLoader(fetch ImageFetcher) *Loader {
	return &Loader{fetch: fetch, cache: make(map[string]image.Image)}
}

// Load returns the decoded image for uri.
func (l *Loader) Load(uri string) (image.Image, error) {
	l.mu.RLock()
	if img, ok := l.cache[uri]; ok {
		l.mu.RUnlock()
		return img, nil
	}
	l.mu.RUnlock()

	var data []byte
	var err error
	switch {
	case IsDataURI(uri):
		data, _, err = DecodeDataURI(uri)
	case l.fetch != nil:
		data, err = l.fetch(uri)
	default:
		err = fmt.Errorf("no fetcher for %s", uri)
	}
	if err != nil {
		return nil, err
	}

	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", truncate(uri), err)
	}

	l.mu.Lock()
	l.cache[uri] = img
	l.mu.Unlock()
	return img, nil
}

// Decode decodes PNG, JPEG, GIF, BMP, WebP or SVG data.
func Decode(data []byte) (image.Image, error) {
	if looksLikeSVG(data) {
		return decodeSVG(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

func looksLikeSVG(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

func decodeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing SVG: %w", err)
	}
	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = defaultSVGSize, defaultSVGSize
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}

// IsDataURI reports whether s is a data: URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DecodeDataURI returns the payload and media type of a data: URI.
func DecodeDataURI(uri string) ([]byte, string, error) {
	if !IsDataURI(uri) {
		return nil, "", errors.New("not a data URI")
	}
	meta, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return nil, "", errors.New("data URI has no payload")
	}
	mediaType := meta
	if strings.HasSuffix(meta, ";base64") {
		mediaType = strings.TrimSuffix(meta, ";base64")
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("data URI base64: %w", err)
		}
		return data, mediaType, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", fmt.Errorf("data URI escape: %w", err)
	}
	return []byte(text), mediaType, nil
}

func truncate(uri string) string {
	if len(uri) > 64 {
		return uri[:64] + "..."
	}
	return uri
}
