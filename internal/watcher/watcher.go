// Package watcher reloads the decorator registry when its definition
// source tree changes on disk. It polls on a background timer loop; the
// registry swaps in each rebuilt definition set whole, so concurrent
// readers only ever see a fully loaded registry.
package watcher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/promptdeco/promptdeco/internal/decorator"
	"github.com/promptdeco/promptdeco/internal/logger"
)

// Watcher polls a definition directory and drives registry reloads.
type Watcher struct {
	cron        *cron.Cron
	reg         *decorator.Registry
	dir         string
	interval    string
	fingerprint string
	mu          sync.Mutex
}

// New creates a watcher over reg's source directory. interval is a
// duration string such as "30s".
func New(reg *decorator.Registry, dir, interval string) *Watcher {
	if interval == "" {
		interval = "30s"
	}
	return &Watcher{
		cron:     cron.New(),
		reg:      reg,
		dir:      dir,
		interval: interval,
	}
}

// Start records the current fingerprint and begins polling.
func (w *Watcher) Start() error {
	w.fingerprint = w.scan()

	if _, err := w.cron.AddFunc("@every "+w.interval, w.poll); err != nil {
		return fmt.Errorf("schedule registry watcher: %w", err)
	}
	w.cron.Start()
	logger.Info("[Watcher] Watching %s every %s", w.dir, w.interval)
	return nil
}

// Stop halts polling and waits for an in-flight reload to finish.
func (w *Watcher) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	logger.Info("[Watcher] Stopped")
}

// poll compares the source tree fingerprint against the last seen one and
// reloads on change. The mutex serializes overlapping ticks.
func (w *Watcher) poll() {
	w.mu.Lock()
	defer w.mu.Unlock()

	fp := w.scan()
	if fp == w.fingerprint {
		return
	}

	logger.Info("[Watcher] Definition sources changed, reloading")
	if err := w.reg.Reload(); err != nil {
		logger.Error("[Watcher] Reload failed: %v", err)
		return
	}
	w.fingerprint = fp
	logger.Info("[Watcher] Reloaded %d decorator definitions", w.reg.Len())
}

// scan fingerprints the source tree from each document's path, size, and
// modification time. Unreadable paths contribute their error string so a
// vanished directory still changes the fingerprint.
func (w *Watcher) scan() string {
	h := sha256.New()
	_ = filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			fmt.Fprintf(h, "%s|%v\n", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			fmt.Fprintf(h, "%s|%v\n", path, err)
			return nil
		}
		fmt.Fprintf(h, "%s|%d|%d\n", path, info.Size(), info.ModTime().UnixNano())
		return nil
	})
	return hex.EncodeToString(h.Sum(nil))
}
