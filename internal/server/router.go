// Package server exposes a record store over a newline-delimited TCP protocol.
package server

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

	"github.com/celerix-dev/drowsewatch/pkg/sdk"
	"github.com/rs/zerolog"
)

const maxConnections = 100

type Router struct {
	store sdk.RecordStore
	log   zerolog.Logger
	cert  *tls.Certificate

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

func NewRouter(s sdk.RecordStore, log zerolog.Logger) *Router {
	return &Router{store: s, log: log}
}

// SetCertificate enables TLS on the listener.
func (r *Router) SetCertificate(cert tls.Certificate) {
	r.cert = &cert
}

// Listen starts the TCP server and blocks until Stop is called or the listener fails.
func (r *Router) Listen(port string) error {
	var listener net.Listener
	var err error

	if r.cert != nil {
		config := &tls.Config{Certificates: []tls.Certificate{*r.cert}}
		listener, err = tls.Listen("tcp", ":"+port, config)
	} else {
		listener, err = net.Listen("tcp", ":"+port)
	}
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.listener = listener
	r.mu.Unlock()
	defer listener.Close()

	semaphore := make(chan struct{}, maxConnections)

	for {
		conn, err := listener.Accept()
		if err != nil {
			r.mu.Lock()
			closed := r.closed
			r.mu.Unlock()
			if closed || errors.Is(err, net.ErrClosed) {
				return nil
			}
			r.log.Warn().Err(err).Msg("accept failed")
			continue
		}

		// Cap connection lifetime so idle clients cannot pin a slot forever
		conn.SetDeadline(time.Now().Add(5 * time.Minute))

		go func(c net.Conn) {
			semaphore <- struct{}{}
			defer func() {
				<-semaphore
				c.Close()
			}()
			r.HandleConnection(c)
		}(conn)
	}
}

// Addr returns the bound listener address, or nil before Listen has bound.
func (r *Router) Addr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return nil
	}
	return r.listener.Addr()
}

// Stop closes the listener; in-flight connections finish on their own.
func (r *Router) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.listener == nil {
		return nil
	}
	return r.listener.Close()
}

// HandleConnection serves commands from one client until it quits or goes idle.
func (r *Router) HandleConnection(conn net.Conn) {
	reader := bufio.NewReader(conn)
	ctx := context.Background()

	for {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))

		line, err := reader.ReadString('\n')
		if err != nil {
			return // Connection closed or timeout
		}

		trimmed := strings.TrimSpace(line)
		parts := strings.Fields(trimmed)
		if len(parts) < 1 {
			continue
		}

		switch strings.ToUpper(parts[0]) {
		case "READ":
			if len(parts) < 2 {
				fmt.Fprintln(conn, "ERR usage: READ <key>")
				continue
			}
			val, err := r.store.Read(ctx, parts[1])
			if err != nil {
				fmt.Fprintln(conn, "ERR", err)
				continue
			}
			var compact bytes.Buffer
			if err := json.Compact(&compact, val); err != nil {
				r.log.Error().Err(err).Str("key", parts[1]).Msg("stored value is not json")
				fmt.Fprintln(conn, "ERR", sdk.ErrCorruptValue)
				continue
			}
			fmt.Fprintln(conn, "OK", compact.String())

		case "WRITE":
			if len(parts) < 3 {
				fmt.Fprintln(conn, "ERR usage: WRITE <key> <json>")
				continue
			}
			// The value is everything after the key, taken verbatim
			_, rest, _ := strings.Cut(trimmed, parts[0])
			_, rest, _ = strings.Cut(rest, parts[1])
			value := strings.TrimSpace(rest)
			if !json.Valid([]byte(value)) {
				fmt.Fprintln(conn, "ERR invalid json value")
				continue
			}
			if err := r.store.Write(ctx, parts[1], []byte(value)); err != nil {
				fmt.Fprintln(conn, "ERR", err)
				continue
			}
			fmt.Fprintln(conn, "OK")

		case "KEYS":
			keys, err := r.store.Keys(ctx)
			if err != nil {
				fmt.Fprintln(conn, "ERR", err)
				continue
			}
			if keys == nil {
				keys = []string{}
			}
			res, err := json.Marshal(keys)
			if err != nil {
				fmt.Fprintln(conn, "ERR internal error")
				continue
			}
			fmt.Fprintln(conn, "OK", string(res))

		case "PING":
			fmt.Fprintln(conn, "PONG")

		case "QUIT":
			return

		default:
			fmt.Fprintln(conn, "ERR unknown command")
		}
	}
}
