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
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/assetwatch-io/assetwatch/internal/api"
	"github.com/assetwatch-io/assetwatch/internal/authtoken"
	"github.com/assetwatch-io/assetwatch/internal/cli"
)

// tokenValidateCmd represents the tokenValidate command.
var tokenValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a token for authenticity and claims",
	Long: `Validate a JSON Web Token (JWT) by checking its signature, expiration,
and claims.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		signingKey := appConfig.API.Server.Security.SigningKey
		tokenString, _ := cmd.Flags().GetString("token")

		var tm api.TokenValidator = authtoken.New(logger)
		claims, err := tm.Validate(tokenString, signingKey)
		if err != nil {
			cli.LogFatal(logger, "failed to validate token", err)
		}

		resolved := authtoken.ResolvePermissions(claims.Roles, claims.Permissions, nil)

		fmt.Println()
		cli.PrintKV([][2]string{
			{"Subject", claims.Subject},
			{"Roles", strings.Join(claims.Roles, ", ")},
			{"Permissions", joinPermissions(resolved)},
			{"Issued", claims.IssuedAt.Format(time.RFC3339)},
			{"Expires", claims.ExpiresAt.Format(time.RFC3339)},
		})
	},
}

func joinPermissions(
	resolved map[string]bool,
) string {
	parts := make([]string, 0, len(resolved))
	for p := range resolved {
		parts = append(parts, p)
	}
	sort.Strings(parts)

	return strings.Join(parts, ", ")
}

func init() {
	tokenCmd.AddCommand(tokenValidateCmd)

	tokenValidateCmd.PersistentFlags().StringP("token", "t", "", "The Token string")

	_ = tokenValidateCmd.MarkPersistentFlagRequired("token")
}
