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
	masker "github.com/ggwhite/go-masker/v2"
	"github.com/spf13/cobra"

	"github.com/assetwatch-io/assetwatch/internal/cli"
)

// configViewCmd represents the configView command.
var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the resolved configuration",
	Long: `Print the fully resolved configuration after file, environment, and
flag merging. Secrets (signing key, bearer token, DSN password, webhook
URL) are masked.
`,
	Run: func(_ *cobra.Command, _ []string) {
		m := masker.NewMaskerMarshaler()

		masked, err := m.Struct(&appConfig)
		if err != nil {
			cli.LogFatal(logger, "failed to mask configuration", err)
		}

		if err := cli.PrintJSON(masked); err != nil {
			cli.LogFatal(logger, "failed to render configuration", err)
		}
	},
}

func init() {
	configCmd.AddCommand(configViewCmd)
}
