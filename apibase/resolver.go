// Package apibase finds a reachable analytics backend among an ordered list of
// candidate origins and remembers the choice.
//
// A Resolver probes candidates one at a time with a short, bounded health
// check and keeps the first origin that answers 2xx in a single-slot cache
// backed by an optional persistent Store. Once an origin is cached it is
// returned without touching the network until Clear is called.
//
// Without a Store there is nowhere to remember a probe result, so Resolve
// skips probing entirely and returns the first configured candidate.
package apibase

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTimeout    = 700 * time.Millisecond
	DefaultHealthPath = "/sessions"
)

type Resolver struct {
	candidates []string
	healthPath string
	timeout    time.Duration
	client     *http.Client
	store      Store
	lggr       *zap.SugaredLogger

	group singleflight.Group

	mu          sync.Mutex
	slot        string
	lastAttempt []ProbeResult
}

type Option func(*Resolver)

// WithStore enables persistence. Without it the resolver never probes.
func WithStore(s Store) Option {
	return func(r *Resolver) { r.store = s }
}

func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithHealthPath(p string) Option {
	return func(r *Resolver) {
		if p != "" {
			r.healthPath = p
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		if c != nil {
			r.client = c
		}
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.lggr = l
		}
	}
}

// New builds a Resolver over candidates, highest priority first. Candidates are
// normalized and de-duplicated; their order is kept.
func New(candidates []string, opts ...Option) *Resolver {
	r := &Resolver{
		candidates: normalizeCandidates(candidates),
		healthPath: DefaultHealthPath,
		timeout:    DefaultTimeout,
		client:     http.DefaultClient,
		lggr:       zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Candidates returns the normalized candidate list.
func (r *Resolver) Candidates() []string {
	return append([]string(nil), r.candidates...)
}

// Resolve returns the backend origin to use, or ok=false when no candidate is
// reachable. Per-candidate failures are never reported to the caller.
func (r *Resolver) Resolve(ctx context.Context) (origin string, ok bool) {
	if r.store == nil {
		if len(r.candidates) == 0 {
			return "", false
		}
		return r.candidates[0], true
	}

	if origin, ok := r.cached(); ok {
		return origin, true
	}
	if ctx.Err() != nil {
		return "", false
	}

	// Concurrent callers share one probe cycle. The cycle outlives any single
	// caller; each probe is still bounded by the timeout.
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan("resolve", func() (any, error) {
		if origin, ok := r.cached(); ok {
			return origin, nil
		}

		persisted, found, err := r.store.Load(shared)
		if err != nil {
			r.lggr.Warnw("Reading persisted api base failed, probing instead", "err", err)
		} else if found && persisted != "" {
			r.setSlot(persisted)
			r.lggr.Debugw("Using persisted api base", "origin", persisted)
			return persisted, nil
		}

		return r.probeCandidates(shared), nil
	})

	select {
	case res := <-ch:
		origin, _ = res.Val.(string)
		return origin, origin != ""
	case <-ctx.Done():
		return "", false
	}
}

func (r *Resolver) probeCandidates(ctx context.Context) string {
	results := make([]ProbeResult, 0, len(r.candidates))
	defer func() {
		r.mu.Lock()
		r.lastAttempt = results
		r.mu.Unlock()
	}()

	for _, c := range r.candidates {
		if ctx.Err() != nil {
			break
		}

		res := probe(ctx, r.client, c, r.healthPath, r.timeout)
		results = append(results, res)
		if !res.OK() {
			r.lggr.Debugw("Candidate skipped", "origin", c, "status", res.Status, "err", res.Error)
			continue
		}

		r.setSlot(c)
		if err := r.store.Save(ctx, c); err != nil {
			r.lggr.Warnw("Persisting api base failed", "origin", c, "err", err)
		}
		r.lggr.Infow("🏁 Resolved api base", "origin", c, "latency", res.Latency)
		return c
	}

	r.lggr.Warnw("No api base candidate reachable", "candidates", len(r.candidates))
	return ""
}

// Clear forgets the cached origin in memory and in the store, so the next
// Resolve probes again.
func (r *Resolver) Clear(ctx context.Context) error {
	r.mu.Lock()
	r.slot = ""
	r.mu.Unlock()

	if r.store == nil {
		return nil
	}
	return r.store.Clear(ctx)
}

// LastAttempt returns the probe results of the most recent probe cycle.
func (r *Resolver) LastAttempt() []ProbeResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ProbeResult(nil), r.lastAttempt...)
}

// Persistent reports whether the resolver has a store to remember origins in.
func (r *Resolver) Persistent() bool {
	return r.store != nil
}

func (r *Resolver) cached() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slot, r.slot != ""
}

func (r *Resolver) setSlot(origin string) {
	r.mu.Lock()
	r.slot = origin
	r.mu.Unlock()
}
