// Package client runs one-shot HTTP/1.0 transactions:
// every request gets its own connection, which is closed once the response is read.
package client

import (
	"context"
	"log/slog"
	"net"

	"httpc/application/http"
	"httpc/application/util/domain"
	"httpc/application/util/uri"
	iolib "httpc/lib/io"
	"httpc/transport"
	"httpc/transport/tcp"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

type Client struct {
	dialer transport.ConnDialer

	opts Options

	logger *slog.Logger
	clock  clock.Clock
}

func New(
	d transport.ConnDialer,
	logger *slog.Logger,
	clock clock.Clock,
	opts Options,
) *Client {
	if opts.Receive.ChunkSize == 0 {
		opts.Receive.ChunkSize = iolib.DefaultChunkSize
	}

	return &Client{
		dialer: d,
		opts:   opts,
		logger: logger,
		clock:  clock,
	}
}

// NewTCP returns a client dialing over TCP, resolving names with the system resolver.
func NewTCP(logger *slog.Logger, clock clock.Clock, opts Options) *Client {
	lookuper := domain.NewResolverLookuper(net.DefaultResolver)
	return New(tcp.NewDialer(lookuper, opts.Dial), logger, clock, opts)
}

func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	return c.Execute(ctx, rawURL, http.MethodGet, nil)
}

func (c *Client) Post(ctx context.Context, rawURL string, form http.Form) (*http.Response, error) {
	return c.Execute(ctx, rawURL, http.MethodPost, form)
}

// Execute sends a single request to rawURL and returns the parsed response.
//
// A connection is dialed for this call only and is closed before Execute
// returns, whatever the outcome. ctx bounds dialing; once connected the
// exchange runs until the server closes its side.
//
// Failures are [*http.Error]s whose kind is one of
// [http.ErrInvalidURL], [http.ErrConnection], [http.ErrTransport] or [http.ErrMalformedResponse].
// The only exception is a method other than GET or POST, which is a caller bug:
// it fails with [http.ErrUnsupportedMethod] before anything is dialed.
func (c *Client) Execute(ctx context.Context, rawURL string, method http.Method, form http.Form) (*http.Response, error) {
	target, err := uri.Resolve(rawURL)
	if err != nil {
		return nil, http.NewError(http.ErrInvalidURL, "resolving url", err)
	}

	payload, err := http.BuildRequest(method, target, form)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}

	logger := c.logger.With(
		slog.String("method", string(method)),
		slog.String("addr", target.Addr()),
		slog.String("target", target.RequestTarget()),
	)

	start := c.clock.Now()

	conn, err := c.dialer.Dial(ctx, target.Host, target.Port)
	if err != nil {
		return nil, http.NewError(http.ErrConnection, "dialing", err)
	}
	defer c.release(conn, logger)

	logger.Debug("connected")

	if err := transport.Send(conn, payload); err != nil {
		return nil, http.NewError(http.ErrTransport, "sending request", err)
	}

	logger.Debug("request sent", slog.Int("bytes", len(payload)))

	raw, err := transport.Receive(conn, c.opts.Receive.ChunkSize)
	if err != nil {
		return nil, http.NewError(http.ErrTransport, "receiving response", err)
	}

	res, err := http.ParseResponse(raw)
	if err != nil {
		logger.Debug("unparsable response", slog.Int("bytes", len(raw)))
		return nil, errors.Wrap(err, "parsing response")
	}

	logger.Debug("response received",
		slog.Int("status", res.StatusCode),
		slog.Int("bytes", len(raw)),
		slog.Duration("elapsed", c.clock.Since(start)),
	)

	return res, nil
}

// release shuts the connection down once the exchange is over.
// Failures here never change the outcome of the transaction.
func (c *Client) release(conn transport.Conn, logger *slog.Logger) {
	if err := conn.CloseWrite(); err != nil {
		logger.Warn("failed to shut down write side", "error", err)
	}

	if err := conn.Close(); err != nil {
		logger.Warn("failed to close connection", "error", err)
		return
	}

	logger.Debug("connection closed")
}
