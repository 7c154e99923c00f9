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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/assetwatch-io/assetwatch/internal/cli"
	"github.com/assetwatch-io/assetwatch/internal/client"
)

var auditListQuery client.ListQuery

// clientAuditListCmd represents the clientAuditList command.
var clientAuditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit log entries",
	Long: `List audit log entries with filtering and pagination.

Displays a table of recent activity including actor, action type, target,
result, and severity. Requires audit:read permission.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		resp, err := apiClient.GetAuditLogs(ctx, auditListQuery)
		if err != nil {
			cli.LogFatal(logger, "failed to get audit logs", err)
		}

		if jsonOutput {
			_ = cli.PrintJSON(resp)

			return
		}

		fmt.Println()
		cli.PrintKV([][2]string{{"Total", strconv.Itoa(resp.TotalItems)}})

		if len(resp.Items) == 0 {
			fmt.Println("  No audit entries found.")

			return
		}

		rows := make([][]string, 0, len(resp.Items))
		for _, entry := range resp.Items {
			rows = append(rows, []string{
				entry.ID,
				entry.OccurredAt.Format("2006-01-02 15:04:05"),
				entry.ActorCode,
				string(entry.ActionType),
				entry.TargetType,
				string(entry.Result),
				string(entry.Severity),
			})
		}

		cli.PrintSections([]cli.Section{
			{
				Title: "Audit Entries",
				Headers: []string{
					"ID",
					"OCCURRED",
					"ACTOR",
					"ACTION",
					"TARGET",
					"RESULT",
					"SEVERITY",
				},
				Rows: rows,
			},
		})
	},
}

func init() {
	clientAuditCmd.AddCommand(clientAuditListCmd)

	flags := clientAuditListCmd.Flags()
	flags.StringVar(&auditListQuery.Actor, "actor", "", "Filter by actor code")
	flags.StringVar(&auditListQuery.ActionType, "action-type", "", "Filter by action type")
	flags.StringVar(&auditListQuery.Result, "result", "", "Filter by result (success or failure)")
	flags.StringVar(&auditListQuery.Acknowledged, "acknowledged", "",
		"Filter by acknowledgement (true or false)")
	flags.StringVar(&auditListQuery.From, "from", "", "Lower time bound (RFC 3339)")
	flags.StringVar(&auditListQuery.To, "to", "", "Upper time bound (RFC 3339)")
	flags.StringVar(&auditListQuery.Sort, "sort", "", "Sort field (occurred_at or actor)")
	flags.StringVar(&auditListQuery.Order, "order", "", "Sort order (asc or desc)")
	flags.IntVar(&auditListQuery.Limit, "limit", 20, "Maximum number of entries to return")
	flags.IntVar(&auditListQuery.Offset, "offset", 0, "Number of entries to skip")
}
