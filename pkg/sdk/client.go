// Package sdk provides the record store contract and the client-side library
// for talking to a drowsewatch daemon over its TCP protocol.
package sdk

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultDeadline = 30 * time.Second

// Client is a remote record store.
// It implements the RecordStore interface.
type Client struct {
	addr   string
	useTLS bool
	log    zerolog.Logger

	conn   net.Conn
	reader *bufio.Reader
	mu     sync.Mutex // Protects concurrent access to the connection
}

// Option configures a Client.
type Option func(*Client)

// WithTLS toggles TLS on the connection. TLS is on by default.
func WithTLS(enabled bool) Option {
	return func(c *Client) { c.useTLS = enabled }
}

// WithLogger routes reconnect diagnostics to l.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// Connect establishes a connection to a remote drowsewatch daemon.
func Connect(addr string, opts ...Option) (*Client, error) {
	c := &Client{addr: addr, useTLS: true, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.reconnect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) reconnect() error {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	var conn net.Conn
	var err error

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 60 * time.Second,
	}

	if c.useTLS {
		config := &tls.Config{
			InsecureSkipVerify: true, // daemon uses a self-signed certificate
		}
		conn, err = tls.DialWithDialer(dialer, "tcp", c.addr, config)
	} else {
		conn, err = dialer.Dial("tcp", c.addr)
	}

	if err != nil {
		return err
	}

	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

// sendAndReceive writes one command line and returns the response line without its "OK" prefix.
func (c *Client) sendAndReceive(ctx context.Context, cmd string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	var resp string

	for i := 0; i < 3; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}

		if c.conn == nil {
			if reconnectErr := c.reconnect(); reconnectErr != nil {
				err = fmt.Errorf("reconnect failed: %w", reconnectErr)
				time.Sleep(time.Duration(i*100) * time.Millisecond)
				continue
			}
		}

		deadline := time.Now().Add(defaultDeadline)
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}
		c.conn.SetDeadline(deadline)

		_, err = fmt.Fprint(c.conn, cmd+"\n")
		if err == nil {
			resp, err = c.reader.ReadString('\n')
			if err == nil {
				resp = strings.TrimSpace(resp)
				if msg, ok := strings.CutPrefix(resp, "ERR"); ok {
					return "", remoteError(strings.TrimSpace(msg))
				}
				resp = strings.TrimPrefix(resp, "OK")
				return strings.TrimSpace(resp), nil
			}
		}

		c.log.Warn().Err(err).Int("attempt", i+1).Str("addr", c.addr).Msg("store request failed, reconnecting")

		if closeErr := c.reconnect(); closeErr != nil {
			c.log.Warn().Err(closeErr).Msg("reconnect attempt failed")
		}

		time.Sleep(time.Duration((i+1)*200) * time.Millisecond)
	}

	return "", fmt.Errorf("failed after 3 attempts. last error: %w", err)
}

func remoteError(msg string) error {
	switch msg {
	case ErrKeyNotFound.Error():
		return ErrKeyNotFound
	case ErrInvalidKey.Error():
		return ErrInvalidKey
	}
	return errors.New(msg)
}

func (c *Client) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	resp, err := c.sendAndReceive(ctx, "READ "+key)
	if err != nil {
		return nil, err
	}
	return []byte(resp), nil
}

func (c *Client) Write(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	// The protocol is line based, so the value must fit on one line.
	var compact bytes.Buffer
	if err := json.Compact(&compact, value); err != nil {
		return fmt.Errorf("value for %s is not json: %w", key, err)
	}
	_, err := c.sendAndReceive(ctx, fmt.Sprintf("WRITE %s %s", key, compact.String()))
	return err
}

func (c *Client) Keys(ctx context.Context) ([]string, error) {
	resp, err := c.sendAndReceive(ctx, "KEYS")
	if err != nil {
		return nil, err
	}
	var list []string
	err = json.Unmarshal([]byte(resp), &list)
	return list, err
}

// Ping checks that the daemon answers.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.sendAndReceive(ctx, "PING")
	if err != nil {
		return err
	}
	if resp != "PONG" {
		return fmt.Errorf("unexpected ping response %q", resp)
	}
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	fmt.Fprintln(c.conn, "QUIT")
	err := c.conn.Close()
	c.conn = nil
	return err
}

// --- Generics Support ---

// Get reads key and decodes it into T.
// A value that is present but cannot be decoded yields an error wrapping ErrCorruptValue.
func Get[T any](ctx context.Context, s KVReader, key string) (T, error) {
	var target T
	raw, err := s.Read(ctx, key)
	if err != nil {
		return target, err
	}
	if err := json.Unmarshal(raw, &target); err != nil {
		return target, fmt.Errorf("%w: %s: %v", ErrCorruptValue, key, err)
	}
	return target, nil
}

// Set encodes val as JSON and writes it under key.
func Set[T any](ctx context.Context, s KVWriter, key string, val T) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return s.Write(ctx, key, raw)
}
