package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageSource yields the encoded bytes of a background image.
type ImageSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads a background from disk.
type FileSource string

func (f FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return os.Open(string(f))
}

// URLSource fetches a background over HTTP(S).
type URLSource struct {
	URL    string
	Client *http.Client
}

func (u URLSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u.URL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %s", u.URL, resp.Status)
	}
	return resp.Body, nil
}

// BytesSource is an already-fetched encoded image.
type BytesSource []byte

func (b BytesSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

// SourceFor picks an ImageSource for a background reference: an http(s) URL, a base64 data
// URL or a file path.
func SourceFor(ref string) (ImageSource, error) {
	switch {
	case ref == "":
		return nil, errors.New("empty image reference")
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return URLSource{URL: ref}, nil
	case strings.HasPrefix(ref, "data:"):
		comma := strings.IndexByte(ref, ',')
		if comma < 0 || !strings.HasSuffix(ref[:comma], ";base64") {
			return nil, errors.New("unsupported data URL")
		}
		data, err := base64.StdEncoding.DecodeString(ref[comma+1:])
		if err != nil {
			return nil, fmt.Errorf("decode data URL: %w", err)
		}
		return BytesSource(data), nil
	default:
		return FileSource(ref), nil
	}
}

// DecodeImage opens and decodes src, applying EXIF orientation.
func DecodeImage(ctx context.Context, src ImageSource) (image.Image, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	img, err := imaging.Decode(rc, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// SetBackgroundSource replaces the background, loading it asynchronously. A load already in
// flight is cancelled.
func (e *Engine) SetBackgroundSource(src ImageSource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startLoad(src)
}

// SetBackgroundImage replaces the background with an already decoded image and fits it.
func (e *Engine) SetBackgroundImage(img image.Image) {
	e.update(func() effect {
		if e.cancelLoad != nil {
			e.cancelLoad()
			e.cancelLoad = nil
		}
		e.loadDone = closedChan()
		e.background = img
		e.fitted = false
		if img != nil {
			e.fitted = e.fitBackground()
		}
		return effect{redraw: true}
	})
}

// BackgroundDone is closed when the current background load attempt has finished, whether
// or not it succeeded.
func (e *Engine) BackgroundDone() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadDone
}

// startLoad must be called with e.mu held.
func (e *Engine) startLoad(src ImageSource) {
	if e.cancelLoad != nil {
		e.cancelLoad()
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.cancelLoad = cancel
	e.loadDone = done
	go e.loadBackground(ctx, src, done)
}

func (e *Engine) loadBackground(ctx context.Context, src ImageSource, done chan struct{}) {
	defer close(done)

	img, err := DecodeImage(ctx, src)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("[engine] background load failed: %v", err)
		}
		return
	}

	if e.settleDelay > 0 {
		t := time.NewTimer(e.settleDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}

	e.update(func() effect {
		if ctx.Err() != nil {
			return effect{}
		}
		e.background = img
		e.fitted = e.fitBackground()
		return effect{redraw: true}
	})
}
