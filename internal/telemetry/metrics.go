// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/assetwatch-io/assetwatch/internal/config"
)

// prometheusNewFn is the function used to create Prometheus exporters.
// It is a package-level variable so tests can replace it to simulate errors.
var prometheusNewFn = prometheus.New

// DefaultMetricsPath is the default HTTP path for the Prometheus scrape endpoint.
const DefaultMetricsPath = "/metrics"

// InitMeter initializes the OpenTelemetry meter provider with a Prometheus exporter.
// It returns the HTTP handler for the scrape endpoint, the resolved path,
// a shutdown function, and any initialization error.
func InitMeter(
	cfg config.MetricsConfig,
) (http.Handler, string, func(context.Context) error, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultMetricsPath
	}

	exporter, err := prometheusNewFn()
	if err != nil {
		return nil, "", nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(mp)

	return promhttp.Handler(), path, mp.Shutdown, nil
}

// MonitorMetrics holds instruments recorded by the anomaly monitor.
type MonitorMetrics struct {
	// Ticks counts completed evaluation ticks.
	Ticks metric.Int64Counter
	// TickErrors counts ticks that ended with an error.
	TickErrors metric.Int64Counter
	// AnomaliesRaised counts anomalies persisted and fanned out.
	AnomaliesRaised metric.Int64Counter
	// AnomaliesSuppressed counts anomalies dropped by the dedup window.
	AnomaliesSuppressed metric.Int64Counter
	// NotifyFailures counts failed notification deliveries per sink.
	NotifyFailures metric.Int64Counter
}

// NewMonitorMetrics registers the monitor's instruments on the global meter.
func NewMonitorMetrics() (*MonitorMetrics, error) {
	meter := otel.Meter("assetwatch/monitor")

	ticks, err := meter.Int64Counter(
		"assetwatch_monitor_ticks_total",
		metric.WithDescription("Completed anomaly monitor evaluation ticks."),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}

	tickErrors, err := meter.Int64Counter(
		"assetwatch_monitor_tick_errors_total",
		metric.WithDescription("Anomaly monitor ticks that ended with an error."),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick errors counter: %w", err)
	}

	raised, err := meter.Int64Counter(
		"assetwatch_anomalies_raised_total",
		metric.WithDescription("Anomalies persisted and fanned out."),
	)
	if err != nil {
		return nil, fmt.Errorf("creating anomalies raised counter: %w", err)
	}

	suppressed, err := meter.Int64Counter(
		"assetwatch_anomalies_suppressed_total",
		metric.WithDescription("Anomalies suppressed by the dedup window."),
	)
	if err != nil {
		return nil, fmt.Errorf("creating anomalies suppressed counter: %w", err)
	}

	notifyFailures, err := meter.Int64Counter(
		"assetwatch_notify_failures_total",
		metric.WithDescription("Failed notification deliveries."),
	)
	if err != nil {
		return nil, fmt.Errorf("creating notify failures counter: %w", err)
	}

	return &MonitorMetrics{
		Ticks:               ticks,
		TickErrors:          tickErrors,
		AnomaliesRaised:     raised,
		AnomaliesSuppressed: suppressed,
		NotifyFailures:      notifyFailures,
	}, nil
}
