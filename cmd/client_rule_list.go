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

// clientRuleListCmd represents the clientRuleList command.
var clientRuleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List detection rules",
	Long: `List the detection rules in the registry.

Requires rule:read permission.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		rules, err := apiClient.GetRules(ctx)
		if err != nil {
			cli.LogFatal(logger, "failed to get rules", err)
		}

		if jsonOutput {
			_ = cli.PrintJSON(rules)

			return
		}

		rows := make([][]string, 0, len(rules))
		for _, r := range rules {
			rows = append(rows, []string{
				r.ID,
				string(r.Key),
				fmt.Sprintf("%t", r.Enabled),
				string(r.Severity),
				fmt.Sprintf("%v", r.Params),
			})
		}

		fmt.Println()
		cli.PrintSections([]cli.Section{
			{
				Title:   "Detection Rules",
				Headers: []string{"ID", "KEY", "ENABLED", "SEVERITY", "PARAMS"},
				Rows:    rows,
			},
		})
	},
}

func init() {
	clientRuleCmd.AddCommand(clientRuleListCmd)
}
