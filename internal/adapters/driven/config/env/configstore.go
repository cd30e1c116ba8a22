// Package env overlays environment variables and .env files on a ConfigStore.
//
// A dot-key maps to an environment variable by uppercasing it and replacing
// dots with underscores: "openai.api_key" reads OPENAI_API_KEY. Process
// environment wins over .env files, which win over the wrapped store.
package env

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore reads overrides from the environment before falling back to base.
// Writes go to base.
type ConfigStore struct {
	base  driven.ConfigStore
	files []string

	mu     sync.RWMutex
	dotenv map[string]string
	lookup func(string) (string, bool)
}

// NewConfigStore wraps base. Missing .env files are skipped; with no files
// given, ".env" in the working directory is tried.
func NewConfigStore(base driven.ConfigStore, files ...string) (*ConfigStore, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	s := &ConfigStore{
		base:   base,
		files:  files,
		lookup: os.LookupEnv,
	}
	if err := s.readDotenv(); err != nil {
		return nil, err
	}
	return s, nil
}

// VarName returns the environment variable consulted for key.
func VarName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Get returns the environment value for key as a string, or the base value.
func (s *ConfigStore) Get(key string) (any, bool) {
	if v, ok := s.env(key); ok {
		return v, true
	}
	return s.base.Get(key)
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	if v, ok := s.env(key); ok {
		return v
	}
	return s.base.GetString(key)
}

// GetInt retrieves an integer configuration value.
// An unparseable environment value reads as 0.
func (s *ConfigStore) GetInt(key string) int {
	if v, ok := s.env(key); ok {
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	}
	return s.base.GetInt(key)
}

// GetFloat retrieves a floating point configuration value.
func (s *ConfigStore) GetFloat(key string) float64 {
	if v, ok := s.env(key); ok {
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	}
	return s.base.GetFloat(key)
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	if v, ok := s.env(key); ok {
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	}
	return s.base.GetBool(key)
}

// Set persists value in the wrapped store. An environment override for the
// same key still takes precedence on reads.
func (s *ConfigStore) Set(key string, value any) error {
	return s.base.Set(key, value)
}

// Save persists the wrapped store.
func (s *ConfigStore) Save() error {
	return s.base.Save()
}

// Load reloads the wrapped store and re-reads the .env files.
func (s *ConfigStore) Load() error {
	if err := s.base.Load(); err != nil {
		return err
	}
	return s.readDotenv()
}

// Path returns the wrapped store's path.
func (s *ConfigStore) Path() string {
	return s.base.Path()
}

// Overridden reports whether key is set by the environment.
func (s *ConfigStore) Overridden(key string) bool {
	_, ok := s.env(key)
	return ok
}

func (s *ConfigStore) env(key string) (string, bool) {
	name := VarName(key)
	if v, ok := s.lookup(name); ok {
		return v, true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.dotenv[name]
	return v, ok
}

func (s *ConfigStore) readDotenv() error {
	merged := make(map[string]string)
	for _, f := range s.files {
		vals, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		// Earlier files win, matching godotenv.Load.
		for k, v := range vals {
			if _, seen := merged[k]; !seen {
				merged[k] = v
			}
		}
	}

	s.mu.Lock()
	s.dotenv = merged
	s.mu.Unlock()
	return nil
}
