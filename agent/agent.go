// Package agent implements the metrics collection agent: a single
// synchronous sampling loop that collects every metric in a fixed
// order, publishes the bundle to the dashboard, and reports collection
// issues through the notification channel.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/coraldeck/protocol"
)

// ErrNotImplemented signals that a metric has no sensor on this
// hardware. Expected and benign: the metric is omitted from the bundle
// without being reported as an issue.
var ErrNotImplemented = errors.New("agent: metric not implemented")

// DefaultNotifyThreshold is how long an issue popup stays up after the
// last (re)trigger before the agent sends a clearing notification.
const DefaultNotifyThreshold = 10 * time.Second

// Metric pairs a widget identifier with its collector function. The
// identifier is the join key with the dashboard layout.
type Metric struct {
	Name    string
	Collect func(ctx context.Context) (protocol.Reading, error)
}

// Publisher is the agent's transport to the dashboard.
type Publisher interface {
	// Configure sends the palette and widget layout.
	Configure(ctx context.Context, palette []protocol.StyleRule, widgets []protocol.Descriptor, title string) error

	// Publish pushes a metric bundle. Returns the identifiers the
	// dashboard applied.
	Publish(ctx context.Context, title string, data map[string]protocol.Reading) ([]string, error)

	// Notify shows a popup message; an empty message clears it.
	Notify(ctx context.Context, title, message string) error
}

// Config assembles an Agent. The metric table, palette and widgets come
// from one layout so every renderable widget has exactly one collector.
type Config struct {
	Publisher Publisher
	Metrics   []Metric
	Palette   []protocol.StyleRule
	Widgets   []protocol.Descriptor

	// Title is a template; {timestamp} is filled per iteration and
	// {version} is left for the dashboard to expand.
	Title string

	Period          time.Duration
	NotifyThreshold time.Duration
	Logger          *slog.Logger
}

// Agent runs the sampling loop.
type Agent struct {
	publisher Publisher
	metrics   []Metric
	palette   []protocol.StyleRule
	widgets   []protocol.Descriptor
	title     string
	period    time.Duration
	threshold time.Duration
	logger    *slog.Logger

	iteration        int
	overruns         int
	lastNotification time.Time
}

// New creates an Agent from its configuration.
func New(cfg Config) *Agent {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	threshold := cfg.NotifyThreshold
	if threshold == 0 {
		threshold = DefaultNotifyThreshold
	}
	return &Agent{
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		palette:   cfg.Palette,
		widgets:   cfg.Widgets,
		title:     cfg.Title,
		period:    cfg.Period,
		threshold: threshold,
		logger:    logger,
	}
}

// Overruns returns how many iterations exceeded the sampling period.
func (a *Agent) Overruns() int { return a.overruns }

// formatTitle expands the {timestamp} placeholder with the current
// time, second precision.
func (a *Agent) formatTitle(now time.Time) string {
	return strings.ReplaceAll(a.title, "{timestamp}", now.Format("2006-01-02T15:04:05"))
}

// Run configures the dashboard and then samples until ctx is
// cancelled. Configuration failure is fatal: without a layout the push
// phase is meaningless. Everything after that is best effort.
func (a *Agent) Run(ctx context.Context) error {
	if err := a.publisher.Configure(ctx, a.palette, a.widgets, a.formatTitle(time.Now())); err != nil {
		return fmt.Errorf("agent: configure dashboard: %w", err)
	}
	a.logger.Info("dashboard configured", "metrics", len(a.metrics), "period", a.period)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("agent stopped", "iterations", a.iteration)
			return nil
		default:
		}

		start := time.Now()
		a.iterate(ctx, start)
		a.pace(ctx, start)
		a.iteration++
	}
}

// iterate runs one collect/publish/notify cycle. Transport errors are
// logged and swallowed: the agent keeps sampling on schedule even when
// the dashboard is down, dropping this iteration's data.
func (a *Agent) iterate(ctx context.Context, start time.Time) {
	bundle, issues := a.collect(ctx)
	title := a.formatTitle(start)

	if len(bundle) > 0 {
		pushed, err := a.publisher.Publish(ctx, title, bundle)
		if err != nil {
			a.logger.Error("publish failed", "iteration", a.iteration, "error", err)
		} else {
			a.logger.Debug("published", "iteration", a.iteration, "pushed", pushed)
		}
	} else {
		a.logger.Warn("no metrics collected", "iteration", a.iteration)
	}

	a.notify(ctx, start, title, issues)
}

// collect invokes every collector in table order. A collector that is
// not implemented on this hardware is silently omitted; any other
// failure omits the metric and appends a human-readable issue.
func (a *Agent) collect(ctx context.Context) (map[string]protocol.Reading, []string) {
	bundle := make(map[string]protocol.Reading, len(a.metrics))
	var issues []string

	for _, metric := range a.metrics {
		reading, err := metric.Collect(ctx)
		switch {
		case errors.Is(err, ErrNotImplemented):
			a.logger.Info("metric not implemented, ignoring", "metric", metric.Name)
		case err != nil:
			a.logger.Error("collect failed", "metric", metric.Name, "error", err)
			issues = append(issues, fmt.Sprintf("%s: %v", metric.Name, err))
		default:
			bundle[metric.Name] = reading
		}
	}
	return bundle, issues
}

// notify reports collection issues, or clears a previously shown
// notification once the quiet threshold has elapsed.
func (a *Agent) notify(ctx context.Context, now time.Time, title string, issues []string) {
	switch {
	case len(issues) > 0:
		a.logger.Warn("issues detected", "iteration", a.iteration, "count", len(issues))
		message := strings.Join(append([]string{"Issues Detected:"}, issues...), "\n")
		if err := a.publisher.Notify(ctx, title, message); err != nil {
			a.logger.Error("notify failed", "iteration", a.iteration, "error", err)
			return
		}
		a.lastNotification = now

	case !a.lastNotification.IsZero() && now.Sub(a.lastNotification) >= a.threshold:
		if err := a.publisher.Notify(ctx, title, ""); err != nil {
			a.logger.Error("notify clear failed", "iteration", a.iteration, "error", err)
			return
		}
		a.lastNotification = time.Time{}
	}
}

// pace sleeps out the remainder of the sampling period. When the
// iteration already overran the period, it does not sleep at all and
// logs the deficit; missed ticks are lost, never queued.
func (a *Agent) pace(ctx context.Context, start time.Time) {
	wait := a.period - time.Since(start)
	if wait <= 0 {
		a.overruns++
		a.logger.Error("behind schedule", "iteration", a.iteration, "deficit", -wait)
		return
	}

	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}
}
