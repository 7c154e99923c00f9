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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/assetwatch-io/assetwatch/internal/cli"
)

// clientAuditRespondCmd represents the clientAuditRespond command.
var clientAuditRespondCmd = &cobra.Command{
	Use:   "respond",
	Short: "Register a response on an anomaly entry",
	Long: `Register a triage response on an anomaly entry.

The workflow only moves forward: pending, investigating, completed. A note
is required when completing, and for high or critical anomalies at any
step. Requires audit:respond permission.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		auditID, _ := cmd.Flags().GetString("audit-id")
		status, _ := cmd.Flags().GetString("status")
		note, _ := cmd.Flags().GetString("note")

		entry, err := apiClient.PostAuditLogResponse(ctx, auditID, status, note)
		if err != nil {
			cli.LogFatal(logger, "failed to register response", err)
		}

		if jsonOutput {
			_ = cli.PrintJSON(entry)

			return
		}

		fmt.Println()
		pairs := [][2]string{
			{"ID", entry.ID},
			{"Response", string(entry.ResponseStatus)},
			{"Acknowledged", fmt.Sprintf("%t", entry.IsAcknowledged)},
		}
		if entry.AcknowledgedBy != "" {
			pairs = append(pairs, [2]string{"Acknowledged By", entry.AcknowledgedBy})
		}
		cli.PrintKV(pairs)
	},
}

func init() {
	clientAuditCmd.AddCommand(clientAuditRespondCmd)

	flags := clientAuditRespondCmd.Flags()
	flags.String("audit-id", "", "Anomaly entry ID to respond to")
	flags.String("status", "", "Response status (pending, investigating, or completed)")
	flags.String("note", "", "Response note")

	_ = clientAuditRespondCmd.MarkFlagRequired("audit-id")
	_ = clientAuditRespondCmd.MarkFlagRequired("status")
}
