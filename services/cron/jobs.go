package cron

import (
	"context"
	"fmt"
	"time"
)

// SweepChatSessions removes chat sessions that have been idle past their TTL
func (m *CronManager) SweepChatSessions() (string, error) {
	removed := m.sessions.SweepIdle(m.now())
	return fmt.Sprintf("removed %d idle sessions, %d remaining", removed, m.sessions.Len()), nil
}

// ReportCacheStats logs search cache hits and misses since the previous run
func (m *CronManager) ReportCacheStats() (string, error) {
	stats := m.stats.Stats()
	hits := stats.Hits - m.lastHits
	misses := stats.Misses - m.lastMisses
	m.lastHits, m.lastMisses = stats.Hits, stats.Misses

	ratio := 0.0
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return fmt.Sprintf("search cache: %d hits, %d misses (%.0f%% hit rate)", hits, misses, ratio*100), nil
}

// PingDatabase checks the catalog database is still reachable
func (m *CronManager) PingDatabase() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.db.HealthCheck(ctx); err != nil {
		return "", fmt.Errorf("database unreachable: %w", err)
	}
	return "database reachable", nil
}
