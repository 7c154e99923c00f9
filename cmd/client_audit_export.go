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
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/assetwatch-io/assetwatch/internal/auditlog"
	"github.com/assetwatch-io/assetwatch/internal/auditlog/export"
	"github.com/assetwatch-io/assetwatch/internal/cli"
	"github.com/assetwatch-io/assetwatch/internal/client"
)

var (
	auditExportOutput string
	auditExportFormat string
	auditExportActor  string
	auditExportFrom   string
	auditExportTo     string
)

// clientExportSource adapts the REST client to the exporter's read surface.
type clientExportSource struct {
	api client.AuditHandler
}

func (s *clientExportSource) List(
	ctx context.Context,
	filter auditlog.Filter,
) ([]auditlog.Entry, int, error) {
	q := client.ListQuery{
		Actor:  filter.ActorCode,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	if len(filter.ActionTypes) == 1 {
		q.ActionType = string(filter.ActionTypes[0])
	}
	if filter.From != nil {
		q.From = filter.From.Format(time.RFC3339)
	}
	if filter.To != nil {
		q.To = filter.To.Format(time.RFC3339)
	}

	resp, err := s.api.GetAuditLogs(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	return resp.Items, resp.TotalItems, nil
}

// clientAuditExportCmd represents the clientAuditExport command.
var clientAuditExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export audit log entries to a file",
	Long: `Export audit log entries to a CSV or JSON file for long-term retention.

Entries are fetched page by page via the REST API, so large trails export
with flat memory use. Requires audit:read permission.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		format, err := export.ParseFormat(auditExportFormat)
		if err != nil {
			cli.LogFatal(logger, "unsupported export format", err)
		}

		filter := auditlog.Filter{ActorCode: auditExportActor}
		if auditExportFrom != "" {
			from, err := time.Parse(time.RFC3339, auditExportFrom)
			if err != nil {
				cli.LogFatal(logger, "invalid from timestamp", err)
			}
			filter.From = &from
		}
		if auditExportTo != "" {
			to, err := time.Parse(time.RFC3339, auditExportTo)
			if err != nil {
				cli.LogFatal(logger, "invalid to timestamp", err)
			}
			filter.To = &to
		}

		exporter := export.New(logger, &clientExportSource{api: apiClient}, appFs)
		written, err := exporter.Run(ctx, filter, format, auditExportOutput)
		if err != nil {
			cli.LogFatal(logger, "export failed", err)
		}

		fmt.Println()
		cli.PrintKV([][2]string{
			{"Exported", strconv.Itoa(written)},
			{"Format", string(format)},
			{"Output", auditExportOutput},
		})
	},
}

func init() {
	clientAuditCmd.AddCommand(clientAuditExportCmd)

	flags := clientAuditExportCmd.Flags()
	flags.StringVar(&auditExportOutput, "output", "", "Output file path (required)")
	flags.StringVar(&auditExportFormat, "format", "csv", "Export format (csv or json)")
	flags.StringVar(&auditExportActor, "actor", "", "Filter by actor code")
	flags.StringVar(&auditExportFrom, "from", "", "Lower time bound (RFC 3339)")
	flags.StringVar(&auditExportTo, "to", "", "Upper time bound (RFC 3339)")

	_ = clientAuditExportCmd.MarkFlagRequired("output")
}
