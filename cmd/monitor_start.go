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

// monitorStartCmd represents the monitorStart command.
var monitorStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the anomaly monitor",
	Long: `Start the anomaly monitor loop.

Raised anomalies are appended to the audit trail, posted to the configured
webhook, and published on the NATS anomaly subject when a connection is
configured. The retention archiver runs alongside when enabled.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		log := logger.With("component", "monitor")

		shutdownTracer, err := telemetry.InitTracer(
			ctx,
			"assetwatch",
			appConfig.Telemetry.Tracing,
		)
		if err != nil {
			cli.LogFatal(log, "failed to initialize tracer", err)
		}

		stores := openStores(ctx, log)

		metrics, err := telemetry.NewMonitorMetrics()
		if err != nil {
			cli.LogFatal(log, "failed to create monitor metrics", err)
		}

		fanout := notify.NewFanout(log)
		fanout.Add("webhook", notify.NewWebhookNotifier(
			log,
			appConfig.Notify.Webhook,
			appConfig.Environment,
		))

		var nc messaging.NATSClient
		if appConfig.NATS.Connection.Host != "" {
			nc, err = messaging.Connect(log, appConfig.NATS.Connection)
			if err != nil {
				cli.LogFatal(log, "failed to connect to nats", err)
			}

			conn, err := messaging.Conn(nc)
			if err != nil {
				cli.LogFatal(log, "failed to unwrap nats connection", err)
			}

			fanout.Add("nats", messaging.NewPublisher(log, conn, appConfig.NATS.Subject))
		}

		m := monitor.New(log, stores.logs, stores.rules, fanout, metrics, appConfig.Monitor)

		components := []cli.Lifecycle{
			&runnerLifecycle{run: m.Run},
		}
		if appConfig.Retention.Enabled {
			components = append(components, &archiveLifecycle{
				archiver: archive.New(log, stores.logs, appConfig.Retention),
				logger:   log,
			})
		}

		composite := &compositeLifecycle{components: components}

		composite.Start()
		cli.RunServer(ctx, composite, func() {
			if nc != nil {
				messaging.Close(nc)
			}
			stores.close()
			_ = shutdownTracer(context.Background())
		})
	},
}

func init() {
	monitorCmd.AddCommand(monitorStartCmd)
}
