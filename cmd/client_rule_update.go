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
	"github.com/assetwatch-io/assetwatch/internal/rule"
)

var (
	ruleUpdateEnabled   bool
	ruleUpdateSeverity  string
	ruleUpdateThreshold int
	ruleUpdateWindow    int
	ruleUpdateStart     string
	ruleUpdateEnd       string
)

// clientRuleUpdateCmd represents the clientRuleUpdate command.
var clientRuleUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a detection rule",
	Long: `Apply a partial update to a detection rule. Only the provided flags
change; everything else keeps its current value.

Registry changes take effect within one monitor interval. Requires
rule:write permission.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		ruleID, _ := cmd.Flags().GetString("rule-id")

		var patch rule.Patch
		if cmd.Flags().Changed("enabled") {
			patch.Enabled = &ruleUpdateEnabled
		}
		if cmd.Flags().Changed("severity") {
			severity := auditlog.Severity(ruleUpdateSeverity)
			patch.Severity = &severity
		}

		params := map[string]any{}
		if cmd.Flags().Changed("threshold") {
			params["threshold"] = ruleUpdateThreshold
		}
		if cmd.Flags().Changed("window-minutes") {
			params["window_minutes"] = ruleUpdateWindow
		}
		if cmd.Flags().Changed("start") {
			params["start"] = ruleUpdateStart
		}
		if cmd.Flags().Changed("end") {
			params["end"] = ruleUpdateEnd
		}
		if len(params) > 0 {
			patch.Params = params
		}

		updated, err := apiClient.PatchRule(ctx, ruleID, patch)
		if err != nil {
			cli.LogFatal(logger, "failed to update rule", err)
		}

		if jsonOutput {
			_ = cli.PrintJSON(updated)

			return
		}

		fmt.Println()
		cli.PrintKV([][2]string{
			{"ID", updated.ID},
			{"Key", string(updated.Key)},
			{"Enabled", fmt.Sprintf("%t", updated.Enabled)},
			{"Severity", string(updated.Severity)},
			{"Params", fmt.Sprintf("%v", updated.Params)},
		})
	},
}

func init() {
	clientRuleCmd.AddCommand(clientRuleUpdateCmd)

	flags := clientRuleUpdateCmd.Flags()
	flags.String("rule-id", "", "Rule ID to update")
	flags.BoolVar(&ruleUpdateEnabled, "enabled", true, "Enable or disable the rule")
	flags.StringVar(&ruleUpdateSeverity, "severity", "",
		"Severity stamped on raised anomalies (low, medium, high, critical)")
	flags.IntVar(&ruleUpdateThreshold, "threshold", 0, "Occurrence threshold")
	flags.IntVar(&ruleUpdateWindow, "window-minutes", 0, "Evaluation window in minutes")
	flags.StringVar(&ruleUpdateStart, "start", "", "After-hours window start (HH:mm)")
	flags.StringVar(&ruleUpdateEnd, "end", "", "After-hours window end (HH:mm)")

	_ = clientRuleUpdateCmd.MarkFlagRequired("rule-id")
}
