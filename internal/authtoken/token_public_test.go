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

package authtoken_test

import (
	"encoding/base64"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/suite"

	"github.com/assetwatch-io/assetwatch/internal/authtoken"
)

type AuthTokenPublicTestSuite struct {
	suite.Suite

	token      *authtoken.Token
	signingKey string
}

func (s *AuthTokenPublicTestSuite) SetupTest() {
	s.token = authtoken.New(slog.Default())
	s.signingKey = "audit-api-signing-key"
}

// signClaims bypasses Generate to fabricate tokens Generate refuses to mint.
func (s *AuthTokenPublicTestSuite) signClaims(
	claims authtoken.CustomClaims,
) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.signingKey))
	s.Require().NoError(err)

	return signed
}

func (s *AuthTokenPublicTestSuite) TestGenerateAllowedRoles() {
	roles := authtoken.GenerateAllowedRoles(authtoken.RoleHierarchy)

	s.ElementsMatch([]string{"admin", "write", "read"}, roles)
}

func (s *AuthTokenPublicTestSuite) TestValidate() {
	tests := []struct {
		name        string
		tokenFunc   func() string
		signingKey  string
		errContains string
		validate    func(*authtoken.CustomClaims)
	}{
		{
			name: "operator token carries roles and subject",
			tokenFunc: func() string {
				t, _ := s.token.Generate(s.signingKey, []string{"write"}, "ops-lead")
				return t
			},
			signingKey: s.signingKey,
			validate: func(claims *authtoken.CustomClaims) {
				s.Equal([]string{"write"}, claims.Roles)
				s.Equal("ops-lead", claims.Subject)
				s.Equal("assetwatch", claims.Issuer)

				// An operator token may acknowledge anomalies but never
				// touch the rule registry.
				resolved := authtoken.ResolvePermissions(claims.Roles, claims.Permissions, nil)
				s.True(authtoken.HasPermission(resolved, authtoken.PermAuditRespond))
				s.False(authtoken.HasPermission(resolved, authtoken.PermRuleWrite))
			},
		},
		{
			name: "direct permission grants survive validation",
			tokenFunc: func() string {
				return s.signClaims(authtoken.CustomClaims{
					Roles:       []string{"read"},
					Permissions: []string{authtoken.PermAuditExport},
					RegisteredClaims: jwt.RegisteredClaims{
						Issuer:    "assetwatch",
						Subject:   "export-batch",
						IssuedAt:  jwt.NewNumericDate(time.Now()),
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
					},
				})
			},
			signingKey: s.signingKey,
			validate: func(claims *authtoken.CustomClaims) {
				resolved := authtoken.ResolvePermissions(claims.Roles, claims.Permissions, nil)
				s.True(authtoken.HasPermission(resolved, authtoken.PermAuditExport))
				s.False(authtoken.HasPermission(resolved, authtoken.PermAuditRead),
					"direct grants replace role expansion")
			},
		},
		{
			name: "expired token is rejected",
			tokenFunc: func() string {
				t, _ := s.token.GenerateWithTTL(s.signingKey, []string{"read"}, "auditor", -time.Minute)
				return t
			},
			signingKey:  s.signingKey,
			errContains: "expired",
		},
		{
			name: "rotated signing key invalidates old tokens",
			tokenFunc: func() string {
				t, _ := s.token.Generate(s.signingKey, []string{"read"}, "auditor")
				return t
			},
			signingKey:  "rotated-signing-key",
			errContains: "signature is invalid",
		},
		{
			name: "malformed token",
			tokenFunc: func() string {
				return "not-a-bearer-token"
			},
			signingKey:  s.signingKey,
			errContains: "invalid number of segments",
		},
		{
			name: "empty token",
			tokenFunc: func() string {
				return ""
			},
			signingKey:  s.signingKey,
			errContains: "invalid number of segments",
		},
		{
			name: "unsigned alg none token is rejected",
			tokenFunc: func() string {
				header := base64.RawURLEncoding.EncodeToString(
					[]byte(`{"alg":"none","typ":"JWT"}`),
				)
				payload := base64.RawURLEncoding.EncodeToString(
					[]byte(`{"roles":["admin"],"sub":"intruder"}`),
				)
				return header + "." + payload + "."
			},
			signingKey:  s.signingKey,
			errContains: "unexpected signing method",
		},
		{
			name: "unknown role fails claim validation",
			tokenFunc: func() string {
				return s.signClaims(authtoken.CustomClaims{
					Roles: []string{"superuser"},
					RegisteredClaims: jwt.RegisteredClaims{
						Issuer:    "assetwatch",
						Subject:   "ops-lead",
						IssuedAt:  jwt.NewNumericDate(time.Now()),
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
					},
				})
			},
			signingKey:  s.signingKey,
			errContains: "Roles",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			tokenString := tt.tokenFunc()

			claims, err := s.token.Validate(tokenString, tt.signingKey)

			if tt.errContains != "" {
				s.Error(err)
				s.Nil(claims)
				s.Contains(err.Error(), tt.errContains)
			} else {
				s.NoError(err)
				s.Require().NotNil(claims)
				tt.validate(claims)
			}
		})
	}
}

func (s *AuthTokenPublicTestSuite) TestGenerateAndValidateRoundTrip() {
	tests := []struct {
		name    string
		roles   []string
		subject string
	}{
		{
			name:    "admin token for rule management",
			roles:   []string{"admin"},
			subject: "security-admin",
		},
		{
			name:    "operator token for the response workflow",
			roles:   []string{"read", "write"},
			subject: "ops-lead",
		},
		{
			name:    "read-only token for the audit desk",
			roles:   []string{"read"},
			subject: "audit-desk",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			tokenString, err := s.token.Generate(s.signingKey, tt.roles, tt.subject)
			s.NoError(err)
			s.NotEmpty(tokenString)

			claims, err := s.token.Validate(tokenString, s.signingKey)
			s.NoError(err)
			s.Require().NotNil(claims)
			s.Equal(tt.roles, claims.Roles)
			s.Equal(tt.subject, claims.Subject)
		})
	}
}

func TestAuthTokenPublicTestSuite(t *testing.T) {
	suite.Run(t, new(AuthTokenPublicTestSuite))
}
