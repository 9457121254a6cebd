// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package watcher invalidates cached listings and pages when a vertical's
// JSON files change on disk.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a vertical's files must stay quiet before its
// caches are dropped.
const DefaultDebounce = 250 * time.Millisecond

// Invalidator drops everything cached for one vertical.
type Invalidator interface {
	InvalidateVertical(ctx context.Context, vertical string)
}

// Watcher watches {dataDir}/{vertical}/*.json for the configured verticals.
type Watcher struct {
	mu        sync.Mutex
	fsw       *fsnotify.Watcher
	dataDir   string
	verticals map[string]bool
	targets   []Invalidator
	debounce  time.Duration
	pending   map[string]time.Time
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// New creates a watcher for the named verticals under dataDir. Nil targets
// are skipped.
func New(dataDir string, verticals []string, targets ...Invalidator) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}

	w := &Watcher{
		fsw:       fsw,
		dataDir:   dataDir,
		verticals: make(map[string]bool, len(verticals)),
		debounce:  DefaultDebounce,
		pending:   make(map[string]time.Time),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	for _, name := range verticals {
		w.verticals[name] = true
	}
	for _, t := range targets {
		if t != nil {
			w.targets = append(w.targets, t)
		}
	}
	return w, nil
}

// SetDebounce overrides DefaultDebounce. Call it before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start adds the data directory and every existing vertical directory, then
// watches in the background until Stop or ctx is cancelled. Vertical
// directories created later are picked up from the data directory's events.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fsw.Add(w.dataDir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("watch %s: %w", w.dataDir, err)
	}
	for name := range w.verticals {
		w.addVerticalDir(filepath.Join(w.dataDir, name))
	}

	go w.run(ctx)
	slog.Info("watching content files", "dir", w.dataDir, "verticals", len(w.verticals))
	return nil
}

// Stop ends the event loop and releases the OS watcher. It is safe to call
// more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.fsw.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fsw.Close(); err != nil {
		slog.Warn("close fs watcher failed", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := time.NewTicker(max(w.debounce/4, 10*time.Millisecond))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("fs watcher error", "error", err)
		case <-tick.C:
			w.flush(ctx)
		}
	}
}

// handle records a change to a vertical's JSON file. A vertical directory
// appearing in the data directory is added to the watch list.
func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}

	if filepath.Dir(event.Name) == filepath.Clean(w.dataDir) {
		name := filepath.Base(event.Name)
		if event.Has(fsnotify.Create) && w.verticals[name] {
			w.addVerticalDir(event.Name)
			w.mark(name)
		}
		return
	}

	if !strings.HasSuffix(event.Name, ".json") {
		return
	}
	vertical := filepath.Base(filepath.Dir(event.Name))
	if !w.verticals[vertical] {
		return
	}
	w.mark(vertical)
}

func (w *Watcher) mark(vertical string) {
	w.mu.Lock()
	w.pending[vertical] = time.Now()
	w.mu.Unlock()
}

// flush invalidates verticals whose last change is older than the debounce
// window.
func (w *Watcher) flush(ctx context.Context) {
	now := time.Now()
	var settled []string

	w.mu.Lock()
	for vertical, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			settled = append(settled, vertical)
			delete(w.pending, vertical)
		}
	}
	w.mu.Unlock()

	for _, vertical := range settled {
		slog.Info("content changed, invalidating caches", "vertical", vertical)
		for _, t := range w.targets {
			t.InvalidateVertical(ctx, vertical)
		}
	}
}

func (w *Watcher) addVerticalDir(dir string) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsw.Add(dir); err != nil {
		slog.Warn("watch vertical dir failed", "dir", dir, "error", err)
	}
}
