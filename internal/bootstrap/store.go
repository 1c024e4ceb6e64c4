// Package bootstrap picks and opens the record store backend for a process.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/celerix-dev/drowsewatch/internal/config"
	"github.com/celerix-dev/drowsewatch/internal/engine"
	"github.com/celerix-dev/drowsewatch/internal/vault"
	"github.com/celerix-dev/drowsewatch/pkg/sdk"
	"github.com/rs/zerolog"
)

// Backend names reported by Store.Backend.
const (
	BackendRemote = "remote"
	BackendRedis  = "redis"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Store is an opened record store plus what it takes to shut it down.
type Store struct {
	sdk.RecordStore

	Backend   string
	Encrypted bool

	mem    *engine.MemStore
	closer func() error
}

// Close drains pending file writes and releases network connections.
func (s *Store) Close() error {
	if s.mem != nil {
		s.mem.Wait()
	}
	if s.closer != nil {
		return s.closer()
	}
	return nil
}

// OpenStore resolves the backend in order: remote daemon, Redis, embedded.
// An unreachable remote daemon falls back to the next option with a warning;
// a Redis URL that fails to connect is an error.
func OpenStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Store, error) {
	s, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if cfg.MasterKey != "" {
		key, err := vault.ParseMasterKey(cfg.MasterKey)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("master key: %w", err)
		}
		v, err := sdk.Vault(s.RecordStore, key)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.RecordStore = v
		s.Encrypted = true
	}

	log.Info().Str("backend", s.Backend).Bool("encrypted", s.Encrypted).Msg("record store ready")
	return s, nil
}

func openBackend(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Store, error) {
	if cfg.RemoteAddr != "" {
		client, err := connectRemote(ctx, cfg, log)
		if err == nil {
			return &Store{RecordStore: client, Backend: BackendRemote, closer: client.Close}, nil
		}
		log.Warn().Err(err).Str("addr", cfg.RemoteAddr).Msg("remote store unreachable, falling back to local store")
	}

	if cfg.RedisURL != "" {
		rdb, err := engine.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		rs := engine.NewRedisStore(rdb)
		return &Store{RecordStore: rs, Backend: BackendRedis, closer: rs.Close}, nil
	}

	return OpenEmbedded(cfg.DataDir, log)
}

func connectRemote(ctx context.Context, cfg config.Config, log zerolog.Logger) (*sdk.Client, error) {
	client, err := sdk.Connect(cfg.RemoteAddr, sdk.WithTLS(!cfg.DisableTLS), sdk.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx); err != nil {
		return nil, errors.Join(err, client.Close())
	}
	return client, nil
}

// OpenEmbedded opens an in-process store. Records under dataDir are loaded
// and every write is saved back; an empty dataDir keeps everything in memory.
func OpenEmbedded(dataDir string, log zerolog.Logger) (*Store, error) {
	if dataDir == "" {
		mem := engine.NewMemStore(nil, nil)
		return &Store{RecordStore: mem, Backend: BackendMemory, mem: mem}, nil
	}

	p, err := engine.NewPersistence(dataDir, log)
	if err != nil {
		return nil, fmt.Errorf("init persistence: %w", err)
	}
	data, err := p.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	mem := engine.NewMemStore(data, p)
	log.Info().Int("keys", len(data)).Str("dir", dataDir).Msg("loaded records from disk")
	return &Store{RecordStore: mem, Backend: BackendFile, mem: mem}, nil
}
