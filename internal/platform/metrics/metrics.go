// Package metrics keeps in-process request counters for the admin metrics endpoint.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"
)

type Collector struct {
	started         time.Time
	totalRequests   atomic.Uint64
	clientErrors    atomic.Uint64
	serverErrors    atomic.Uint64
	rateLimited     atomic.Uint64
	unauthorized    atomic.Uint64
	totalDurationMs atomic.Uint64
	overdueMarked   atomic.Uint64
}

func New() *Collector {
	return &Collector{started: time.Now()}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.totalRequests.Add(1)
	switch {
	case status >= 500:
		c.serverErrors.Add(1)
	case status >= 400:
		c.clientErrors.Add(1)
	}
	switch status {
	case http.StatusTooManyRequests:
		c.rateLimited.Add(1)
	case http.StatusUnauthorized:
		c.unauthorized.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
}

// AddOverdue counts payroll records moved to overdue by the sweep.
func (c *Collector) AddOverdue(n int) {
	if n > 0 {
		c.overdueMarked.Add(uint64(n))
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := c.totalRequests.Load()
	totalMs := c.totalDurationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"uptimeSeconds":       int64(time.Since(c.started).Seconds()),
		"requestsTotal":       total,
		"clientErrorsTotal":   c.clientErrors.Load(),
		"serverErrorsTotal":   c.serverErrors.Load(),
		"rateLimitedTotal":    c.rateLimited.Load(),
		"unauthorizedTotal":   c.unauthorized.Load(),
		"avgDurationMs":       avg,
		"payrollOverdueTotal": c.overdueMarked.Load(),
	}
}
