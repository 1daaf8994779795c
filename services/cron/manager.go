package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sahilchouksey/edupath-api/catalog"
	"github.com/sahilchouksey/edupath-api/utils/logger"
)

// SessionSweeper drops chat sessions idle since before now
type SessionSweeper interface {
	SweepIdle(now time.Time) int
	Len() int
}

// StatsSource exposes search cache counters
type StatsSource interface {
	Stats() catalog.CacheStats
}

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Schedules use the six-field (with seconds) cron format
const (
	SweepSessionsSchedule = "0 */5 * * * *"
	CacheStatsSchedule    = "0 */15 * * * *"
	DatabasePingSchedule  = "30 */10 * * * *"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron     *cron.Cron
	sessions SessionSweeper
	stats    StatsSource
	db       HealthChecker
	log      *logger.Logger
	now      func() time.Time

	lastHits   int64
	lastMisses int64
}

// NewCronManager creates a new cron manager. stats and db may be nil.
func NewCronManager(sessions SessionSweeper, stats StatsSource, db HealthChecker, log *logger.Logger) *CronManager {
	if log == nil {
		log = logger.Nop()
	}
	return &CronManager{
		cron:     cron.New(cron.WithSeconds()),
		sessions: sessions,
		stats:    stats,
		db:       db,
		log:      log.With("component", "cron"),
		now:      time.Now,
	}
}

// Start registers and starts all cron jobs
func (m *CronManager) Start() error {
	m.log.Info("starting cron jobs")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()
	m.log.Info("cron jobs started", "entries", len(m.cron.Entries()))
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (m *CronManager) Stop() {
	m.log.Info("stopping cron jobs")
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.log.Info("cron jobs stopped")
}

func (m *CronManager) registerJobs() error {
	if m.sessions != nil {
		if _, err := m.cron.AddFunc(SweepSessionsSchedule, m.run("sweep_chat_sessions", m.SweepChatSessions)); err != nil {
			return err
		}
	}

	if m.stats != nil {
		if _, err := m.cron.AddFunc(CacheStatsSchedule, m.run("report_cache_stats", m.ReportCacheStats)); err != nil {
			return err
		}
	}

	if m.db != nil {
		if _, err := m.cron.AddFunc(DatabasePingSchedule, m.run("ping_database", m.PingDatabase)); err != nil {
			return err
		}
	}

	m.log.Info("all cron jobs registered")
	return nil
}

// run wraps a job with start/completion logging
func (m *CronManager) run(jobName string, job func() (string, error)) func() {
	return func() {
		started := m.now()
		m.log.Debug("starting job", "job", jobName)

		message, err := job()
		if err != nil {
			m.log.Error("job failed", "job", jobName, "error", err, "duration", time.Since(started))
			return
		}
		m.log.Info("job completed", "job", jobName, "message", message, "duration", time.Since(started))
	}
}
