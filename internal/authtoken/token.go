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

// Package authtoken issues and validates API bearer tokens.
package authtoken

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// tokenIssuer is stamped into every generated token.
const tokenIssuer = "assetwatch"

// defaultTokenTTL bounds a generated token's lifetime.
const defaultTokenTTL = 24 * time.Hour

// RoleHierarchy lists the built-in roles from most to least privileged.
var RoleHierarchy = []string{"admin", "write", "read"}

// CustomClaims are the JWT claims carried by an API token.
type CustomClaims struct {
	// Roles grant permission sets; see DefaultRolePermissions.
	Roles []string `json:"roles" validate:"required,dive,oneof=admin write read"`
	// Permissions optionally override role expansion (IdP-issued tokens).
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Token issues and validates bearer tokens.
type Token struct {
	logger *slog.Logger
}

// New creates a new Token.
func New(
	logger *slog.Logger,
) *Token {
	return &Token{
		logger: logger,
	}
}

// GenerateAllowedRoles flattens the hierarchy into the role list accepted by
// claim validation.
func GenerateAllowedRoles(
	hierarchy []string,
) []string {
	roles := make([]string, len(hierarchy))
	copy(roles, hierarchy)

	return roles
}

// Generate signs a new HS256 token for the subject with the given roles.
func (t *Token) Generate(
	signingKey string,
	roles []string,
	subject string,
) (string, error) {
	return t.GenerateWithTTL(signingKey, roles, subject, defaultTokenTTL)
}

// GenerateWithTTL signs a new HS256 token with an explicit lifetime.
func (t *Token) GenerateWithTTL(
	signingKey string,
	roles []string,
	subject string,
	ttl time.Duration,
) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signingKey))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	t.logger.Debug(
		"token generated",
		slog.String("subject", subject),
		slog.Any("roles", roles),
	)

	return signed, nil
}
