package tabbar

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/stayliquid/tabbar/imop"

	// Image decoders for the supported raster formats. SVG sources pass the
	// classifier but carry no raster decoder, so they resolve to fallback.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	// DefaultFetchTimeout bounds a single image retrieval end to end.
	DefaultFetchTimeout = 15 * time.Second

	fetchAttempts = 3
	fetchMaxDelay = 2 * time.Second
)

// Fetcher retrieves remote images over HTTPS, enforcing the supported media
// type set and the response size ceiling before a bitmap is admitted
// downstream.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	log     *slog.Logger
}

// NewFetcher creates a remote image fetcher. A nil client falls back to
// http.DefaultClient and a nil logger to slog.Default.
func NewFetcher(client *http.Client, timeout time.Duration, log *slog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{client: client, timeout: timeout, log: log}
}

// Fetch issues a single GET for url and decodes the response into a bitmap.
// Transient network errors and server-side failures are retried with an
// exponential backoff; validation failures are not. Every failure mode maps
// to a distinct FetchError kind.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*image.NRGBA, error) {
	var body []byte
	var ctype string

	err := retry.Do(func() error {
		reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Unrecoverable(&FetchError{Kind: FetchNetwork, URL: url, Err: err})
		}
		req.Header.Set("Accept", "image/*")

		res, err := f.client.Do(req)
		if err != nil {
			return &FetchError{Kind: FetchNetwork, URL: url, Err: err}
		}
		defer res.Body.Close()

		if res.StatusCode < 200 || res.StatusCode > 299 {
			ferr := &FetchError{Kind: FetchBadStatus, URL: url, Err: fmt.Errorf("status %s", res.Status)}
			if res.StatusCode >= 500 {
				return ferr
			}
			return retry.Unrecoverable(ferr)
		}

		// The Content-Type header is authoritative even when the URL
		// extension suggested otherwise.
		ctype = res.Header.Get("Content-Type")
		if !SupportedMIME(ctype) {
			return retry.Unrecoverable(&FetchError{
				Kind: FetchBadContentType,
				URL:  url,
				Err:  fmt.Errorf("content type %q", ctype),
			})
		}

		body, err = io.ReadAll(io.LimitReader(res.Body, MaxImageBytes+1))
		if err != nil {
			return &FetchError{Kind: FetchNetwork, URL: url, Err: err}
		}
		if len(body) > MaxImageBytes {
			return retry.Unrecoverable(&FetchError{Kind: FetchTooLarge, URL: url})
		}
		return nil
	},
		retry.Attempts(fetchAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxDelay(fetchMaxDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			f.log.Warn("image fetch retry", "url", url, "attempt", n+1, "error", err)
		}),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, err
	}

	bm, err := DecodeImage(body)
	if err != nil {
		return nil, &FetchError{Kind: FetchUndecodable, URL: url, Err: err}
	}
	return bm, nil
}

// DecodeImage decodes raw image bytes into an NRGBA bitmap using the
// registered decoders.
func DecodeImage(data []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not decode the image data: %w", err)
	}
	return imop.ToNRGBA(img), nil
}
