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
	"time"

	"github.com/spf13/cobra"

	"github.com/assetwatch-io/assetwatch/internal/cli"
	"github.com/assetwatch-io/assetwatch/internal/messaging"
	"github.com/assetwatch-io/assetwatch/internal/notify"
	"github.com/assetwatch-io/assetwatch/internal/telemetry"
)

// centerRefreshInterval drives alert center reconciliation against the
// store when the server runs standalone.
const centerRefreshInterval = 30 * time.Second

// serverStartCmd represents the serverStart command.
var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the API server",
	Long: `Start the REST API server.

When a NATS connection is configured, the server subscribes to the anomaly
subject so pushed alerts from a separately running monitor land in the
in-app alert center.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		log := logger.With("component", "api")

		shutdownTracer, err := telemetry.InitTracer(
			ctx,
			"assetwatch",
			appConfig.Telemetry.Tracing,
		)
		if err != nil {
			cli.LogFatal(log, "failed to initialize tracer", err)
		}

		metricsHandler, metricsPath, shutdownMeter, err := telemetry.InitMeter(
			appConfig.Telemetry.Metrics,
		)
		if err != nil {
			cli.LogFatal(log, "failed to initialize meter", err)
		}

		stores := openStores(ctx, log)

		center := notify.NewCenter(
			log,
			stores.logs,
			durationFromConfig(appConfig.Notify.RepeatWindow),
		)

		var natsCheck func() error
		var subscriber *messaging.Subscriber
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

			subscriber = messaging.NewSubscriber(log, conn, appConfig.NATS.Subject, center)
			if err := subscriber.Start(ctx); err != nil {
				cli.LogFatal(log, "failed to subscribe to anomaly subject", err)
			}

			natsCheck = func() error {
				if !conn.IsConnected() {
					return errNATSDisconnected
				}

				return nil
			}
		}

		sm := setupAPIServer(log, stores, center, natsCheck, metricsHandler, metricsPath)

		composite := &compositeLifecycle{
			components: []cli.Lifecycle{
				sm,
				&runnerLifecycle{run: func(ctx context.Context) {
					center.Run(ctx, centerRefreshInterval)
				}},
			},
		}

		composite.Start()
		cli.RunServer(ctx, composite, func() {
			if subscriber != nil {
				subscriber.Stop()
			}
			if nc != nil {
				messaging.Close(nc)
			}
			stores.close()
			_ = shutdownMeter(context.Background())
			_ = shutdownTracer(context.Background())
		})
	},
}

func init() {
	serverCmd.AddCommand(serverStartCmd)
}
