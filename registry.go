package tabbar

import (
	"context"
	"image"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// The platform default icon colors substituted when a configured color is
// unset or fails to parse.
var (
	DefaultSelectedColor   = RGBA{R: 0, G: 0.478, B: 1, A: 1}
	DefaultUnselectedColor = RGBA{R: 0.6, G: 0.6, B: 0.6, A: 1}
)

// Registry owns the tab bar state: the configured item set, the selected
// tab, badge values, visibility and the per-tab icon resolution states.
// All mutations funnel through its mutex, which models the single
// UI-affine writer; icon work runs on background goroutines and re-enters
// through an apply hook that re-validates before touching shared state.
type Registry struct {
	mu sync.Mutex

	items    []TabItem
	index    map[string]int
	selected string
	visible  bool

	selColor   RGBA
	unselColor RGBA

	badges   map[string]Badge
	states   map[string]IconState
	rendered map[string]*image.NRGBA
	insets   Insets

	baseCtx context.Context

	listeners    map[int]func(id string)
	nextListener int

	cache    *Cache
	resolver *Resolver
	log      *slog.Logger

	resolveHook func(id string, state IconState)

	iconSize     int
	cacheTTL     time.Duration
	fetchTimeout time.Duration
	httpClient   *http.Client
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the structured logger used across the registry and its
// resolution pipeline.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// WithHTTPClient sets the client used for remote icon fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Registry) { r.httpClient = c }
}

// WithIconSize sets the square target box edge icons are rendered into.
func WithIconSize(px int) Option {
	return func(r *Registry) { r.iconSize = px }
}

// WithCacheTTL sets the retention window of fetched remote images.
func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Registry) { r.cacheTTL = ttl }
}

// WithFetchTimeout bounds a single remote image retrieval.
func WithFetchTimeout(d time.Duration) Option {
	return func(r *Registry) { r.fetchTimeout = d }
}

// WithResolveHook registers a callback invoked after every icon state
// transition out of Loading. Used by command line tooling and tests to
// observe resolution completion.
func WithResolveHook(hook func(id string, state IconState)) Option {
	return func(r *Registry) { r.resolveHook = hook }
}

// New creates an empty tab bar registry. The registry holds no
// configuration until the first Configure call.
func New(opts ...Option) *Registry {
	r := &Registry{
		index:     make(map[string]int),
		badges:    make(map[string]Badge),
		states:    make(map[string]IconState),
		rendered:  make(map[string]*image.NRGBA),
		listeners: make(map[int]func(id string)),
		visible:   true,
		baseCtx:   context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = slog.Default()
	}

	r.cache = NewCache(r.cacheTTL)
	fetcher := NewFetcher(r.httpClient, r.fetchTimeout, r.log)
	comp := NewCompositor(r.iconSize)
	r.resolver = NewResolver(r.cache, fetcher, comp, r.log)

	return r
}

// Configure validates cfg and replaces any prior configuration wholesale.
// Structural errors reject the whole call with no partial state committed.
// Icon resolution for items carrying an image icon is kicked off in the
// background: Configure returns once the descriptors are accepted, not
// once every icon has finished loading. Per-icon failures downgrade the
// affected tab to its fallback icon and never fail the call.
func (r *Registry) Configure(ctx context.Context, cfg Config) error {
	if len(cfg.Items) == 0 {
		return &ConfigError{Reason: "the item list is empty"}
	}

	seen := make(map[string]struct{}, len(cfg.Items))
	for _, it := range cfg.Items {
		if it.ID == "" {
			return &ConfigError{Reason: "a tab id is empty"}
		}
		if _, dup := seen[it.ID]; dup {
			return &ConfigError{Reason: "duplicate tab id " + it.ID}
		}
		seen[it.ID] = struct{}{}

		if icon := it.ImageIcon; icon != nil {
			if !icon.Shape.Valid() {
				return &ConfigError{Reason: "unknown icon shape " + string(icon.Shape)}
			}
			if !icon.Size.Valid() {
				return &ConfigError{Reason: "unknown icon sizing mode " + string(icon.Size)}
			}
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}

	selColor := r.parseColor(cfg.SelectedIconColor, DefaultSelectedColor, "selectedIconColor")
	unselColor := r.parseColor(cfg.UnselectedIconColor, DefaultUnselectedColor, "unselectedIconColor")

	selected := cfg.Items[0].ID
	if cfg.InitialID != "" {
		if _, ok := seen[cfg.InitialID]; ok {
			selected = cfg.InitialID
		} else {
			r.log.Warn("initial tab id not present in the item set, falling back to the first item",
				"initialId", cfg.InitialID, "fallback", selected)
		}
	}

	r.resolver.CancelAll()

	r.mu.Lock()
	r.items = make([]TabItem, len(cfg.Items))
	copy(r.items, cfg.Items)

	r.index = make(map[string]int, len(r.items))
	r.badges = make(map[string]Badge, len(r.items))
	r.states = make(map[string]IconState, len(r.items))
	r.rendered = make(map[string]*image.NRGBA)

	for i, it := range r.items {
		r.index[it.ID] = i
		if it.Badge != nil {
			r.badges[it.ID] = *it.Badge
		}
		if it.ImageIcon != nil {
			r.states[it.ID] = IconLoading
		} else {
			r.states[it.ID] = IconIdle
		}
	}

	r.selected = selected
	r.selColor = selColor
	r.unselColor = unselColor
	r.visible = cfg.Visible == nil || *cfg.Visible
	r.baseCtx = ctx

	kicks := r.pendingResolutions()
	r.mu.Unlock()

	for _, k := range kicks {
		r.startResolution(ctx, k)
	}

	return nil
}

// Select programmatically changes the selected tab. The selection change
// triggers a ring recompute for both the newly selected and the newly
// deselected tab when either carries a ring-enabled image icon. No
// selected event is emitted: events are reserved for user-driven taps.
func (r *Registry) Select(id string) error {
	return r.selectTab(id, false)
}

// UserSelect records a user-driven tab tap. It behaves like Select and
// additionally emits the selected event to the subscribed listeners.
func (r *Registry) UserSelect(id string) error {
	return r.selectTab(id, true)
}

func (r *Registry) selectTab(id string, byUser bool) error {
	r.mu.Lock()
	if _, ok := r.index[id]; !ok {
		r.mu.Unlock()
		return &UnknownIDError{Op: "select", ID: id}
	}

	prev := r.selected
	r.selected = id

	var kicks []iconRequest
	if prev != id {
		for _, affected := range []string{prev, id} {
			if k, ok := r.ringResolution(affected); ok {
				r.states[affected] = IconLoading
				kicks = append(kicks, k)
			}
		}
	}

	ctx := r.baseCtx
	var fns []func(string)
	if byUser {
		for _, fn := range r.listeners {
			fns = append(fns, fn)
		}
	}
	r.mu.Unlock()

	for _, k := range kicks {
		r.startResolution(ctx, k)
	}
	for _, fn := range fns {
		fn(id)
	}

	return nil
}

// SetBadge updates the badge value for a tab id. The update is synchronous;
// an unknown id rejects only this call.
func (r *Registry) SetBadge(id string, b Badge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[id]; !ok {
		return &UnknownIDError{Op: "setBadge", ID: id}
	}
	r.badges[id] = b
	return nil
}

// Show makes the tab bar visible. A pure state flip with no icon work.
func (r *Registry) Show() {
	r.mu.Lock()
	r.visible = true
	r.mu.Unlock()
}

// Hide conceals the tab bar. A pure state flip with no icon work.
func (r *Registry) Hide() {
	r.mu.Lock()
	r.visible = false
	r.mu.Unlock()
}

// SetSafeAreaInsets records the hosting window safe area, reported by the
// platform adapter.
func (r *Registry) SetSafeAreaInsets(in Insets) {
	r.mu.Lock()
	r.insets = in
	r.mu.Unlock()
}

// SafeAreaInsets returns the current safe area insets.
func (r *Registry) SafeAreaInsets() Insets {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insets
}

// OnSelected subscribes fn to the selected event, emitted only on
// user-driven tab taps. The returned handle unsubscribes.
func (r *Registry) OnSelected(fn func(id string)) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextListener
	r.nextListener++
	r.listeners[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// ClearCache releases every cached remote bitmap. Fetches in flight are not
// disturbed; they complete and repopulate the cache.
func (r *Registry) ClearCache() {
	r.cache.Clear()
}

// Display is the renderable icon of one tab. Exactly one of the fields is
// meaningful: the resolved bitmap when the resolution succeeded, otherwise
// the system icon identifier, the bundled asset identifier, or nothing (an
// empty glyph).
type Display struct {
	Bitmap     *image.NRGBA
	SystemIcon string
	Asset      string
}

// DisplayIcon returns what the tab identified by id should currently show,
// applying the fallback chain for unresolved or failed image icons.
func (r *Registry) DisplayIcon(id string) (Display, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return Display{}, false
	}
	it := r.items[i]

	// A stale bitmap is kept on display while a ring recompute is in
	// flight; it is dropped on resolution failure or reconfigure.
	if bm, ok := r.rendered[id]; ok {
		return Display{Bitmap: bm}, true
	}
	if it.SystemIcon != "" {
		return Display{SystemIcon: it.SystemIcon}, true
	}
	if it.Image != "" {
		return Display{Asset: it.Image}, true
	}
	return Display{}, true
}

// Snapshot is a read-only view of the registry state.
type Snapshot struct {
	IDs      []string
	Selected string
	Visible  bool
	Badges   map[string]Badge
	States   map[string]IconState
}

// Snapshot returns a consistent copy of the current tab bar state.
func (r *Registry) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Snapshot{
		Selected: r.selected,
		Visible:  r.visible,
		Badges:   make(map[string]Badge, len(r.badges)),
		States:   make(map[string]IconState, len(r.states)),
	}
	for _, it := range r.items {
		s.IDs = append(s.IDs, it.ID)
	}
	for id, b := range r.badges {
		s.Badges[id] = b
	}
	for id, st := range r.states {
		s.States[id] = st
	}
	return s
}

// iconRequest captures everything needed to start one icon resolution.
type iconRequest struct {
	id        string
	spec      IconSpec
	ringColor RGBA
}

// pendingResolutions lists the resolutions to kick off after a Configure.
// Caller must hold the lock.
func (r *Registry) pendingResolutions() []iconRequest {
	var kicks []iconRequest
	for _, it := range r.items {
		if it.ImageIcon == nil {
			continue
		}
		kicks = append(kicks, iconRequest{
			id:        it.ID,
			spec:      *it.ImageIcon,
			ringColor: r.ringColorLocked(it.ID),
		})
	}
	return kicks
}

// ringResolution prepares the re-resolution of a tab whose ring color
// changed with the selection. Caller must hold the lock.
func (r *Registry) ringResolution(id string) (iconRequest, bool) {
	i, ok := r.index[id]
	if !ok {
		return iconRequest{}, false
	}
	icon := r.items[i].ImageIcon
	if icon == nil || icon.Ring == nil || !icon.Ring.Enabled {
		return iconRequest{}, false
	}
	return iconRequest{id: id, spec: *icon, ringColor: r.ringColorLocked(id)}, true
}

// ringColorLocked derives the ring color from the selection state. Caller
// must hold the lock.
func (r *Registry) ringColorLocked(id string) RGBA {
	if id == r.selected {
		return r.selColor
	}
	return r.unselColor
}

// startResolution hands one icon request to the resolver. The apply
// callback re-enters the registry lock and is only invoked for the
// authoritative request of its tab id.
func (r *Registry) startResolution(ctx context.Context, k iconRequest) {
	r.resolver.Resolve(ctx, k.id, k.spec, k.ringColor, func(bm *image.NRGBA, err error) {
		r.applyIcon(k.id, bm, err)
	})
}

// applyIcon installs the outcome of a finished resolution. Failures
// downgrade the tab to its fallback display and are logged, never
// propagated.
func (r *Registry) applyIcon(id string, bm *image.NRGBA, err error) {
	r.mu.Lock()
	if _, ok := r.index[id]; !ok {
		// The tab set was replaced while the resolution was in flight.
		r.mu.Unlock()
		return
	}

	var state IconState
	if err != nil {
		state = IconError
		delete(r.rendered, id)
	} else {
		state = IconLoaded
		r.rendered[id] = bm
	}
	r.states[id] = state
	hook := r.resolveHook
	r.mu.Unlock()

	if err != nil {
		r.log.Warn("icon resolution failed, using fallback", "tab", id, "error", err)
	}
	if hook != nil {
		hook(id, state)
	}
}

// parseColor resolves a configured color spec, logging a warning and
// substituting the platform default when the spec is unset or invalid.
func (r *Registry) parseColor(spec string, def RGBA, field string) RGBA {
	if spec == "" {
		return def
	}
	c, err := ParseColor(spec)
	if err != nil {
		r.log.Warn("invalid color spec, using the platform default", "field", field, "spec", spec, "error", err)
		return def
	}
	return c
}
