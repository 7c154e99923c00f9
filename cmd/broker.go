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
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// brokerCmd represents the broker command.
var brokerCmd = &cobra.Command{
	Use:   "broker",
	Short: "Manage the embedded NATS broker",
	Long: `Manage the embedded NATS broker. The broker carries anomaly push events
from the monitor to API server instances.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Debug(
			"broker configuration",
			slog.String("config_file", viper.ConfigFileUsed()),
			slog.Bool("debug", appConfig.Debug),
			slog.String("nats.server.host", appConfig.NATS.Server.Host),
			slog.Int("nats.server.port", appConfig.NATS.Server.Port),
			slog.String("nats.server.store_dir", appConfig.NATS.Server.StoreDir),
		)
	},
}

func init() {
	rootCmd.AddCommand(brokerCmd)
}
