package manager

import (
	"context"
	"time"

	"github.com/jmercier/habitflow/internal/logger"
)

// WatchStore polls the store's fingerprint until the context is
// cancelled, reloading and firing a load event whenever another
// process changed the store underneath us. Last write wins; there is
// no merging of concurrent edits.
func (m *Manager) WatchStore(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.checkExternalChange(); err != nil {
				logger.Warn("failed to check store for changes", "error", err)
			}
		}
	}
}

// checkExternalChange reloads when the fingerprint moved. The
// fingerprint is cheap but coarse, so the reloaded state is hashed
// and compared before firing: our own writes and no-op rewrites stay
// silent.
func (m *Manager) checkExternalChange() error {
	m.mu.Lock()
	fp, err := m.store.Fingerprint()
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if fp == m.lastFingerprint {
		m.mu.Unlock()
		return nil
	}

	if err := m.store.Load(); err != nil {
		m.mu.Unlock()
		return err
	}
	if err := m.loadState(); err != nil {
		m.mu.Unlock()
		return err
	}
	prevHash := m.lastHash
	m.rememberState()
	changed := m.lastHash != prevHash
	m.mu.Unlock()

	if changed {
		m.notify(Event{Type: EventLoad})
	}
	return nil
}
