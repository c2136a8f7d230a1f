package tabbar

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("could not encode the test image: %v", err)
	}
	return buf.Bytes()
}

func newTestFetcher(srv *httptest.Server) *Fetcher {
	return NewFetcher(srv.Client(), time.Second, discardLogger())
}

func TestFetchSuccess(t *testing.T) {
	var accept atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept.Store(r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes(t, 10, 10))
	}))
	defer srv.Close()

	bm, err := newTestFetcher(srv).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if bm.Bounds().Dx() != 10 || bm.Bounds().Dy() != 10 {
		t.Errorf("expected a 10x10 bitmap, got %dx%d", bm.Bounds().Dx(), bm.Bounds().Dy())
	}
	if got := accept.Load(); got != "image/*" {
		t.Errorf("expected the Accept: image/* hint, got %v", got)
	}
}

func TestFetchBadStatusNotRetried(t *testing.T) {
	var hits int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv).Fetch(context.Background(), srv.URL)
	assertFetchErrorKind(t, err, FetchBadStatus)

	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("expected a single request for a client error, got %d", n)
	}
}

func TestFetchServerErrorRetried(t *testing.T) {
	var hits int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes(t, 4, 4))
	}))
	defer srv.Close()

	if _, err := newTestFetcher(srv).Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("expected the fetch to recover after retries, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Errorf("expected 3 requests, got %d", n)
	}
}

func TestFetchRejectsContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv).Fetch(context.Background(), srv.URL)
	assertFetchErrorKind(t, err, FetchBadContentType)
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(make([]byte, MaxImageBytes+10))
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv).Fetch(context.Background(), srv.URL)
	assertFetchErrorKind(t, err, FetchTooLarge)
}

func TestFetchRejectsUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("these are not image bytes"))
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv).Fetch(context.Background(), srv.URL)
	assertFetchErrorKind(t, err, FetchUndecodable)
}

func assertFetchErrorKind(t *testing.T, err error, kind FetchErrorKind) {
	t.Helper()

	if err == nil {
		t.Fatal("expected the fetch to fail")
	}
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected a FetchError, got %T: %v", err, err)
	}
	if ferr.Kind != kind {
		t.Errorf("expected fetch error kind %q, got %q", kind, ferr.Kind)
	}
}
