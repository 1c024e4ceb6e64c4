package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/celerix-dev/drowsewatch/pkg/sdk"
	"github.com/rs/zerolog"
)

// Persistence handles the disk I/O for the MemStore: one <key>.json file per key.
type Persistence struct {
	DataDir string

	log   zerolog.Logger
	mu    sync.Mutex        // Protects concurrent writes to the filesystem
	saved map[string]uint64 // last sequence written per key
}

// NewPersistence initializes a persistence handler.
func NewPersistence(dir string, log zerolog.Logger) (*Persistence, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Persistence{
		DataDir: dir,
		log:     log,
		saved:   make(map[string]uint64),
	}, nil
}

// SaveKey writes a key's value to disk atomically. Background saves can
// finish out of order, so a snapshot older than the last one saved for the
// same key is dropped.
func (p *Persistence) SaveKey(key string, data []byte, seq uint64) {
	if err := p.save(key, data, seq); err != nil {
		p.log.Error().Err(err).Str("key", key).Msg("persist record failed")
	}
}

func (p *Persistence) save(key string, data []byte, seq uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq <= p.saved[key] {
		return nil
	}

	filePath := filepath.Join(p.DataDir, key+".json")
	tempPath := filePath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return err
	}
	// Rename is atomic, so readers see either the old file or the new one.
	if err := os.Rename(tempPath, filePath); err != nil {
		return err
	}
	p.saved[key] = seq
	return nil
}

// LoadAll returns the raw value of every key found in the data directory.
// Values are not parsed here; a corrupt file surfaces when it is decoded.
func (p *Persistence) LoadAll() (map[string][]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	files, err := os.ReadDir(p.DataDir)
	if err != nil {
		return nil, err
	}

	allData := make(map[string][]byte)
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}
		key := strings.TrimSuffix(file.Name(), ".json")
		if sdk.ValidateKey(key) != nil {
			p.log.Warn().Str("file", file.Name()).Msg("skipping file with invalid key name")
			continue
		}

		content, err := os.ReadFile(filepath.Join(p.DataDir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file.Name(), err)
		}
		allData[key] = content
	}
	return allData, nil
}
