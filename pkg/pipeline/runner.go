package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reflow/pkg/cache"
	"github.com/matzehuels/reflow/pkg/config"
	"github.com/matzehuels/reflow/pkg/snapshot"
)

// DefaultTTL is how long layouts and artifacts stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Runner chains the pipeline stages with caching. It holds no per-run state,
// so one Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses the default keys.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, TTL: DefaultTTL}
}

// Execute settles spec and renders every requested artifact. The scene is
// only built when the layout snapshot or some artifact misses the cache.
func (r *Runner) Execute(ctx context.Context, spec *config.Scene, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := SceneHash(spec)
	if err != nil {
		return nil, err
	}
	result := &Result{SceneHash: hash, Artifacts: make(map[Artifact][]byte)}

	var missing []Artifact
	for _, a := range opts.Artifacts() {
		if data, ok := r.get(ctx, r.Keyer.RenderKey(hash, opts.RenderKeyOpts(a)), opts); ok {
			result.Artifacts[a] = data
			result.CacheInfo.RenderHits++
			continue
		}
		missing = append(missing, a)
	}
	if len(missing) == 0 {
		opts.Logger.Debug("all artifacts cached", "scene", spec.Name, "artifacts", len(result.Artifacts))
		return result, nil
	}

	layoutStart := time.Now()
	frame, hit, err := r.layout(ctx, spec, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Frame, result.Built = frame, true
	result.CacheInfo.LayoutHit = hit
	result.Stats.LayoutTime = time.Since(layoutStart)

	renderStart := time.Now()
	for _, a := range missing {
		data, err := Render(ctx, frame, a, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", a, err)
		}
		r.set(ctx, r.Keyer.RenderKey(hash, opts.RenderKeyOpts(a)), data, opts)
		result.Artifacts[a] = data
	}
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Debug("rendered",
		"scene", spec.Name,
		"artifacts", len(missing),
		"layout_hit", hit,
		"layout", result.Stats.LayoutTime,
		"render", result.Stats.RenderTime)
	return result, nil
}

// Layout settles spec with caching and reports whether the frame came from
// the cache.
func (r *Runner) Layout(ctx context.Context, spec *config.Scene, opts Options) (snapshot.Frame, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return snapshot.Frame{}, false, err
	}
	hash, err := SceneHash(spec)
	if err != nil {
		return snapshot.Frame{}, false, err
	}
	return r.layout(ctx, spec, hash, opts)
}

func (r *Runner) layout(ctx context.Context, spec *config.Scene, hash string, opts Options) (snapshot.Frame, bool, error) {
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())
	if data, ok := r.get(ctx, key, opts); ok {
		f, err := snapshot.UnmarshalBSON(data)
		if err == nil {
			return f, true, nil
		}
		opts.Logger.Warn("discarding unreadable cached layout", "err", err)
	}

	f, err := Settle(spec, opts.Ticks, opts.Logger)
	if err != nil {
		return snapshot.Frame{}, false, err
	}
	if data, err := snapshot.MarshalBSON(f); err == nil {
		r.set(ctx, key, data, opts)
	}
	return f, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

func (r *Runner) get(ctx context.Context, key string, opts Options) ([]byte, bool) {
	if opts.Refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	return data, hit
}

func (r *Runner) set(ctx context.Context, key string, data []byte, opts Options) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		opts.Logger.Warn("cache write failed", "err", err)
	}
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
