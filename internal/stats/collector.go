// Package stats tracks per-instance usage counters and emits a periodic
// heartbeat to the log. Nothing leaves the process.
package stats

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const beatInterval = 1 * time.Hour

// TableCountsFunc is called on each heartbeat to gather current row counts.
type TableCountsFunc func(ctx context.Context) (people, sales int64, err error)

// Snapshot is the point-in-time view served by the stats endpoint.
type Snapshot struct {
	InstanceID    string  `json:"instance_id"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	QueriesTotal  int64   `json:"queries_total"`
	FailuresTotal int64   `json:"failures_total"`
	PeopleRows    int64   `json:"sales_people_rows"`
	SalesRows     int64   `json:"sales_rows"`
}

// Collector counts queries and failures for one process lifetime.
type Collector struct {
	instanceID string
	startedAt  time.Time
	logger     *slog.Logger

	queries  atomic.Int64
	failures atomic.Int64

	countsFn TableCountsFunc
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a Collector with a fresh anonymous instance ID.
func New(logger *slog.Logger) *Collector {
	return &Collector{
		instanceID: uuid.New().String(),
		startedAt:  time.Now(),
		logger:     logger,
	}
}

// RecordQuery counts one completed query. Failed envelopes count twice, once
// in the total and once in failures.
func (c *Collector) RecordQuery(success bool) {
	if c == nil {
		return
	}
	c.queries.Add(1)
	if !success {
		c.failures.Add(1)
	}
}

// Counters returns the running totals.
func (c *Collector) Counters() (queries, failures int64) {
	if c == nil {
		return 0, 0
	}
	return c.queries.Load(), c.failures.Load()
}

// Snapshot gathers the current state, including live table counts when a
// counts function is available.
func (c *Collector) Snapshot(ctx context.Context) Snapshot {
	if c == nil {
		return Snapshot{}
	}
	s := Snapshot{
		InstanceID:    c.instanceID,
		UptimeSeconds: time.Since(c.startedAt).Seconds(),
		QueriesTotal:  c.queries.Load(),
		FailuresTotal: c.failures.Load(),
	}
	if c.countsFn != nil {
		if people, sales, err := c.countsFn(ctx); err == nil {
			s.PeopleRows = people
			s.SalesRows = sales
		}
	}
	return s
}

// Start begins the heartbeat loop. It logs one beat immediately and then
// repeats every hour. Non-blocking.
func (c *Collector) Start(countsFn TableCountsFunc) {
	if c == nil {
		return
	}
	c.countsFn = countsFn

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		c.beat(ctx)

		ticker := time.NewTicker(beatInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.beat(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Shutdown stops the loop and logs a final beat.
func (c *Collector) Shutdown() {
	if c == nil {
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	c.beat(context.Background())
}

func (c *Collector) beat(ctx context.Context) {
	if c.logger == nil {
		return
	}
	s := c.Snapshot(ctx)
	c.logger.Info("heartbeat",
		"instance_id", s.InstanceID,
		"uptime_seconds", int64(s.UptimeSeconds),
		"queries_total", s.QueriesTotal,
		"failures_total", s.FailuresTotal,
		"sales_people_rows", s.PeopleRows,
		"sales_rows", s.SalesRows,
	)
}
