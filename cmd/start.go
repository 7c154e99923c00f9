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

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/assetwatch-io/assetwatch/internal/archive"
	"github.com/assetwatch-io/assetwatch/internal/cli"
	"github.com/assetwatch-io/assetwatch/internal/messaging"
	"github.com/assetwatch-io/assetwatch/internal/monitor"
	"github.com/assetwatch-io/assetwatch/internal/notify"
	"github.com/assetwatch-io/assetwatch/internal/telemetry"
)

// startCmd represents the top-level start command.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start all components (broker, API server, monitor)",
	Long: `Start the embedded NATS broker, API server, and anomaly monitor in a
single process.

This is the recommended way to run assetwatch on a single host. Components
start in order (broker → API → monitor) and shut down gracefully on
SIGINT/SIGTERM. Anomalies feed the in-app alert center directly and are
still published on the NATS subject for any external subscribers.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		shutdownTracer, err := telemetry.InitTracer(
			ctx,
			"assetwatch",
			appConfig.Telemetry.Tracing,
		)
		if err != nil {
			cli.LogFatal(logger, "failed to initialize tracer", err)
		}

		metricsHandler, metricsPath, shutdownMeter, err := telemetry.InitMeter(
			appConfig.Telemetry.Metrics,
		)
		if err != nil {
			cli.LogFatal(logger, "failed to initialize meter", err)
		}

		natsServer := setupNATSServer(logger.With("component", "broker"))

		apiLog := logger.With("component", "api")
		monitorLog := logger.With("component", "monitor")

		stores := openStores(ctx, apiLog)

		center := notify.NewCenter(
			apiLog,
			stores.logs,
			durationFromConfig(appConfig.Notify.RepeatWindow),
		)

		nc, err := messaging.Connect(monitorLog, appConfig.NATS.Connection)
		if err != nil {
			cli.LogFatal(monitorLog, "failed to connect to nats", err)
		}
		conn, err := messaging.Conn(nc)
		if err != nil {
			cli.LogFatal(monitorLog, "failed to unwrap nats connection", err)
		}

		natsCheck := func() error {
			if !conn.IsConnected() {
				return errNATSDisconnected
			}

			return nil
		}

		sm := setupAPIServer(apiLog, stores, center, natsCheck, metricsHandler, metricsPath)

		metrics, err := telemetry.NewMonitorMetrics()
		if err != nil {
			cli.LogFatal(monitorLog, "failed to create monitor metrics", err)
		}

		fanout := notify.NewFanout(monitorLog)
		fanout.Add("center", center)
		fanout.Add("webhook", notify.NewWebhookNotifier(
			monitorLog,
			appConfig.Notify.Webhook,
			appConfig.Environment,
		))
		fanout.Add("nats", messaging.NewPublisher(monitorLog, conn, appConfig.NATS.Subject))

		m := monitor.New(
			monitorLog,
			stores.logs,
			stores.rules,
			fanout,
			metrics,
			appConfig.Monitor,
		)

		components := []cli.Lifecycle{
			sm,
			&runnerLifecycle{run: m.Run},
			&natsLifecycle{server: natsServer},
		}
		if appConfig.Retention.Enabled {
			components = append(components, &archiveLifecycle{
				archiver: archive.New(monitorLog, stores.logs, appConfig.Retention),
				logger:   monitorLog,
			})
		}

		composite := &compositeLifecycle{components: components}

		composite.Start()
		cli.RunServer(ctx, composite, func() {
			messaging.Close(nc)
			stores.close()
			_ = shutdownMeter(context.Background())
			_ = shutdownTracer(context.Background())
		})
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
