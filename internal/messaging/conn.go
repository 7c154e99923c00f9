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

package messaging

import (
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	natsclient "github.com/osapi-io/nats-client/pkg/client"

	"github.com/assetwatch-io/assetwatch/internal/config"
)

// Connect builds and connects a NATS client from the connection config.
func Connect(
	logger *slog.Logger,
	connCfg config.NATSConnection,
) (NATSClient, error) {
	nc := natsclient.New(logger, &natsclient.Options{
		Host: connCfg.Host,
		Port: connCfg.Port,
		Auth: buildAuthOptions(connCfg.Auth),
		Name: connCfg.ClientName,
	})

	if err := nc.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}

	return nc, nil
}

// buildAuthOptions converts a config NATSAuth to natsclient.AuthOptions.
func buildAuthOptions(
	auth config.NATSAuth,
) natsclient.AuthOptions {
	switch auth.Type {
	case "user_pass":
		return natsclient.AuthOptions{
			AuthType: natsclient.UserPassAuth,
			Username: auth.Username,
			Password: auth.Password,
		}
	case "nkey":
		return natsclient.AuthOptions{
			AuthType: natsclient.NKeyAuth,
			NKeyFile: auth.NKeyFile,
		}
	default:
		return natsclient.AuthOptions{
			AuthType: natsclient.NoAuth,
		}
	}
}

// Conn unwraps the raw NATS connection for pub/sub operations.
func Conn(
	nc NATSClient,
) (*nats.Conn, error) {
	natsConn, ok := nc.(*natsclient.Client)
	if !ok || natsConn.NC == nil {
		return nil, fmt.Errorf("nats client unavailable")
	}

	wrapper, ok := natsConn.NC.(*natsclient.NATSConnWrapper)
	if !ok || wrapper.Conn == nil {
		return nil, fmt.Errorf("nats connection unavailable")
	}

	return wrapper.Conn, nil
}

// Close safely closes a NATS client connection.
func Close(
	nc NATSClient,
) {
	if natsConn, ok := nc.(*natsclient.Client); ok && natsConn.NC != nil {
		natsConn.NC.Close()
	}
}
