package corpus

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"buddyfarm/internal/config"
	"buddyfarm/internal/logger"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 250 * time.Millisecond

// ChangeListener is called with the new snapshot after a successful reload.
type ChangeListener func(Snapshot)

// Registry holds the current snapshot and swaps it whole on reload.
type Registry struct {
	cfg  config.DataConfig
	load func(context.Context, config.DataConfig) (Snapshot, error)

	// reloadMu serializes whole reloads so versions follow load order.
	reloadMu sync.Mutex

	mu        sync.RWMutex
	snapshot  Snapshot
	listeners []ChangeListener
}

// NewRegistry performs the initial load. A failure here is fatal to the
// caller; later reload failures keep the previous snapshot.
func NewRegistry(ctx context.Context, cfg config.DataConfig) (*Registry, error) {
	r := &Registry{cfg: cfg, load: Load}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Snapshot returns the current snapshot.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Subscribe registers fn for future reloads.
func (r *Registry) Subscribe(fn ChangeListener) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// Reload loads the data directory again and publishes the result.
func (r *Registry) Reload(ctx context.Context) error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	snap, err := r.load(ctx, r.cfg)
	if err != nil {
		return err
	}
	r.mu.Lock()
	snap.Version = r.snapshot.Version + 1
	r.snapshot = snap
	listeners := append([]ChangeListener(nil), r.listeners...)
	r.mu.Unlock()
	logger.Infof("corpus v%d loaded: %d locations, %d search entries", snap.Version, snap.Locations.Len(), snap.Catalog.Len())
	for _, fn := range listeners {
		go func(cb ChangeListener) {
			defer safeRecover("corpus listener")
			cb(snap)
		}(fn)
	}
	return nil
}

// Watch reloads when data or manifest files change, until ctx is done.
// Bursts of events are coalesced into one reload.
func (r *Registry) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher failed: %w", err)
	}
	defer w.Close()
	for _, dir := range r.watchDirs() {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s failed: %w", dir, err)
		}
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(evt) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("corpus watcher error: %v", err)
		case <-fire:
			fire = nil
			if err := r.Reload(ctx); err != nil {
				logger.Errorf("corpus reload failed, keeping v%d: %v", r.Snapshot().Version, err)
			}
		}
	}
}

func (r *Registry) watchDirs() []string {
	dirs := []string{filepath.Clean(r.cfg.Dir)}
	extra := []string{r.cfg.LocationsPath()}
	if m := strings.TrimSpace(r.cfg.Manifest); m != "" {
		extra = append(extra, m)
	}
	for _, file := range extra {
		dir := filepath.Clean(filepath.Dir(file))
		dup := false
		for _, d := range dirs {
			if d == dir {
				dup = true
				break
			}
		}
		if !dup {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func relevant(evt fsnotify.Event) bool {
	if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) && !evt.Has(fsnotify.Remove) {
		return false
	}
	switch strings.ToLower(filepath.Ext(evt.Name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func safeRecover(tag string) {
	if r := recover(); r != nil {
		logger.Errorf("%s panic: %v", tag, r)
	}
}
