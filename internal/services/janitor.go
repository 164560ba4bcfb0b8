package services

import (
	"context"
	"sync"
	"time"

	"alfredoptarigan/careerpulse/internal/logger"
)

// Janitor periodically evicts idle conversations from a store.
type Janitor interface {
	Start(ctx context.Context)
	Stop()
}

type janitor struct {
	store    ConversationStore
	ttl      time.Duration
	interval time.Duration
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewJanitor(store ConversationStore, ttl, interval time.Duration) Janitor {
	return &janitor{
		store:    store,
		ttl:      ttl,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start implements Janitor.
func (j *janitor) Start(ctx context.Context) {
	logger.Info().Dur("ttl", j.ttl).Dur("interval", j.interval).Msg("🚀 Starting session janitor")

	j.wg.Add(1)
	go j.sweep(ctx)
}

// Stop implements Janitor.
func (j *janitor) Stop() {
	j.stopOnce.Do(func() {
		logger.Info().Msg("🛑 Stopping session janitor...")
		close(j.stopChan)
		j.wg.Wait()
		logger.Info().Msg("✅ Session janitor stopped")
	})
}

func (j *janitor) sweep(ctx context.Context) {
	defer j.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := j.store.EvictIdle(j.ttl); n > 0 {
				logger.Info().Int("evicted", n).Int("remaining", j.store.Len()).Msg("🧹 Evicted idle chat sessions")
			}
		}
	}
}
