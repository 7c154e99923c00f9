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

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/cli"
)

// clientAuditGetCmd represents the clientAuditGet command.
var clientAuditGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a single audit log entry",
	Long: `Get a single audit log entry by its ID.

Requires audit:read permission.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		auditID, _ := cmd.Flags().GetString("audit-id")

		entry, err := apiClient.GetAuditLogByID(ctx, auditID)
		if err != nil {
			cli.LogFatal(logger, "failed to get audit log entry", err)
		}

		if jsonOutput {
			_ = cli.PrintJSON(entry)

			return
		}

		fmt.Println()
		pairs := [][2]string{
			{"ID", entry.ID},
			{"Occurred", entry.OccurredAt.Format("2006-01-02 15:04:05")},
			{"Actor", entry.ActorCode},
			{"Action", string(entry.ActionType)},
			{"Target", entry.TargetType},
			{"Result", string(entry.Result)},
		}
		if entry.Severity != "" {
			pairs = append(pairs, [2]string{"Severity", string(entry.Severity)})
		}
		if entry.ActionType == auditlog.ActionAnomalyDetected {
			description, _ := entry.Metadata[auditlog.MetaDescription].(string)
			pairs = append(pairs,
				[2]string{"Anomaly Type", entry.AnomalyType()},
				[2]string{"Description", description},
				[2]string{"Response", string(entry.ResponseStatus)},
			)
			if entry.ResponseNote != "" {
				pairs = append(pairs, [2]string{"Response Note", entry.ResponseNote})
			}
		}
		cli.PrintKV(pairs)
	},
}

func init() {
	clientAuditCmd.AddCommand(clientAuditGetCmd)

	clientAuditGetCmd.PersistentFlags().
		StringP("audit-id", "", "", "Audit entry ID to retrieve")

	_ = clientAuditGetCmd.MarkPersistentFlagRequired("audit-id")
}
