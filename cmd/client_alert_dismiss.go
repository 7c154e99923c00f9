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

	"github.com/assetwatch-io/assetwatch/internal/cli"
)

// clientAlertDismissCmd represents the clientAlertDismiss command.
var clientAlertDismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Dismiss a sticky alert",
	Long: `Dismiss a sticky critical alert by its backing entry ID.

Dismissal only clears the surfaced banner; the anomaly itself stays unread
until it is acknowledged through the response workflow. Requires alert:read
permission.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		entryID, _ := cmd.Flags().GetString("entry-id")

		if err := apiClient.PostAlertDismiss(ctx, entryID); err != nil {
			cli.LogFatal(logger, "failed to dismiss alert", err)
		}

		logger.Info("alert dismissed", slog.String("entry_id", entryID))
	},
}

func init() {
	clientAlertCmd.AddCommand(clientAlertDismissCmd)

	clientAlertDismissCmd.Flags().String("entry-id", "", "Backing entry ID of the alert")

	_ = clientAlertDismissCmd.MarkFlagRequired("entry-id")
}
