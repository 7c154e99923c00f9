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
	"log/slog"
	"time"

	natsd "github.com/nats-io/nats-server/v2/server"

	"github.com/assetwatch-io/assetwatch/internal/cli"
)

// natsReadyTimeout bounds the wait for the embedded broker to accept
// connections.
const natsReadyTimeout = 10 * time.Second

// natsLifecycle adapts the embedded NATS server to the Lifecycle contract.
type natsLifecycle struct {
	server *natsd.Server
}

// Start is a no-op: the broker is already running once setupNATSServer
// returns, so dependent components can connect during their own setup.
func (n *natsLifecycle) Start() {}

func (n *natsLifecycle) Stop(
	_ context.Context,
) {
	n.server.Shutdown()
	n.server.WaitForShutdown()
}

// setupNATSServer starts the embedded NATS broker and blocks until it is
// ready for connections.
func setupNATSServer(
	log *slog.Logger,
) *natsd.Server {
	opts := &natsd.Options{
		Host: appConfig.NATS.Server.Host,
		Port: appConfig.NATS.Server.Port,
	}
	if appConfig.NATS.Server.StoreDir != "" {
		opts.JetStream = true
		opts.StoreDir = appConfig.NATS.Server.StoreDir
	}

	s, err := natsd.NewServer(opts)
	if err != nil {
		cli.LogFatal(log, "failed to create nats server", err)
	}

	go s.Start()

	if !s.ReadyForConnections(natsReadyTimeout) {
		cli.LogFatal(
			log,
			"nats server not ready",
			fmt.Errorf("timed out after %s", natsReadyTimeout),
		)
	}

	log.Info(
		"nats server started",
		slog.String("host", opts.Host),
		slog.Int("port", opts.Port),
		slog.Bool("jetstream", opts.JetStream),
	)

	return s
}
