package tabbar

import (
	"context"
	"image"
	"log/slog"
	"sync"
)

// Resolver turns a declarative icon spec into a renderable bitmap: it
// classifies the source, loads the bytes (through the cache for remote
// sources), and hands the decoded bitmap to the compositor.
//
// Per tab id resolutions are serialized: a new request supersedes a prior
// in-flight one by canceling its context, and only the most recent
// request's result is delivered. Resolutions for different tab ids proceed
// independently and in parallel.
type Resolver struct {
	cache   *Cache
	fetcher *Fetcher
	comp    *Compositor
	log     *slog.Logger

	mu       sync.Mutex
	inflight map[string]*resolution
	gen      uint64
}

type resolution struct {
	gen    uint64
	cancel context.CancelFunc
}

// NewResolver creates an icon resolution service wired to the given cache,
// fetcher and compositor. A nil logger falls back to slog.Default.
func NewResolver(cache *Cache, fetcher *Fetcher, comp *Compositor, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		cache:    cache,
		fetcher:  fetcher,
		comp:     comp,
		log:      log,
		inflight: make(map[string]*resolution),
	}
}

// Resolve starts an asynchronous resolution for tabID and returns
// immediately. When the pipeline completes and the request is still the
// authoritative one for its tab, apply is invoked with the rendered bitmap
// or the resolution error; a superseded request is discarded silently.
func (r *Resolver) Resolve(ctx context.Context, tabID string, spec IconSpec, ringColor RGBA, apply func(*image.NRGBA, error)) {
	rctx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if prev, ok := r.inflight[tabID]; ok {
		prev.cancel()
	}
	r.gen++
	gen := r.gen
	r.inflight[tabID] = &resolution{gen: gen, cancel: cancel}
	r.mu.Unlock()

	go func() {
		defer cancel()
		bm, err := r.run(rctx, spec, ringColor)

		r.mu.Lock()
		cur, ok := r.inflight[tabID]
		authoritative := ok && cur.gen == gen
		if authoritative {
			delete(r.inflight, tabID)
		}
		r.mu.Unlock()

		if !authoritative || rctx.Err() != nil {
			return
		}
		apply(bm, err)
	}()
}

// CancelAll abandons every in-flight resolution. Used when a new
// configuration replaces the tab set wholesale.
func (r *Resolver) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, res := range r.inflight {
		res.cancel()
		delete(r.inflight, id)
	}
}

// run executes the classify, load and composite pipeline.
func (r *Resolver) run(ctx context.Context, spec IconSpec, ringColor RGBA) (*image.NRGBA, error) {
	var (
		bm  *image.NRGBA
		err error
	)

	src := ClassifySource(spec.Image)
	switch src.Kind {
	case SourceBase64:
		// Inline sources skip the cache: they carry no network cost.
		bm, err = DecodeImage(src.Payload)
	case SourceRemote:
		url := src.URL.String()
		bm, err = r.cache.Resolve(ctx, url, func(fctx context.Context) (*image.NRGBA, error) {
			return r.fetcher.Fetch(fctx, url)
		})
	default:
		err = &SourceError{Source: spec.Image}
	}
	if err != nil {
		return nil, err
	}
	if cerr := ctx.Err(); cerr != nil {
		return nil, cerr
	}

	return r.comp.Render(bm, spec, ringColor), nil
}
