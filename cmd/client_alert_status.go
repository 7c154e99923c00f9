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

// clientAlertStatusCmd represents the clientAlertStatus command.
var clientAlertStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the alert center status",
	Long: `Show the alert center snapshot: unread counter, maximum severity, and
recent alerts. Requires alert:read permission.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		status, err := apiClient.GetAlertStatus(ctx)
		if err != nil {
			cli.LogFatal(logger, "failed to get alert status", err)
		}

		if jsonOutput {
			_ = cli.PrintJSON(status)

			return
		}

		fmt.Println()
		cli.PrintKV([][2]string{
			{"Unread", fmt.Sprintf("%d", status.UnreadCount)},
			{"Max Severity", string(status.MaxSeverity)},
		})

		if len(status.Alerts) == 0 {
			fmt.Println("  No recent alerts.")

			return
		}

		rows := make([][]string, 0, len(status.Alerts))
		for _, alert := range status.Alerts {
			tag := ""
			switch {
			case alert.Sticky:
				tag = "sticky"
			case alert.Repeat:
				tag = "repeat"
			}

			rows = append(rows, []string{
				alert.EntryID,
				alert.Type,
				string(alert.RiskLevel),
				alert.ActorCode,
				tag,
				alert.Description,
			})
		}

		cli.PrintSections([]cli.Section{
			{
				Title:   "Recent Alerts",
				Headers: []string{"ENTRY", "TYPE", "RISK", "ACTOR", "TAG", "DESCRIPTION"},
				Rows:    rows,
			},
		})
	},
}

func init() {
	clientAlertCmd.AddCommand(clientAlertStatusCmd)
}
