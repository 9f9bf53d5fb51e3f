package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the arena file lives unless a flag says otherwise.
const DefaultPath = "configs/creeperattack.yml"

// Load reads path and decodes it on top of Default. A missing file is not an
// error; the caller decides whether to create it.
func Load(path string) (*Config, error) {
	cfg := Default()
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Sanitize(cfg), err
		}
		return Sanitize(cfg), fmt.Errorf("read arena config %q: %w", cleanPath, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Sanitize(Default()), fmt.Errorf("parse arena config %q: %w", cleanPath, err)
	}
	return Sanitize(cfg), nil
}

// Save writes cfg to path through a temp file and rename.
func Save(path string, cfg *Config) error {
	cleanPath := filepath.Clean(path)
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode arena config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := cleanPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write arena config %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, cleanPath); err != nil {
		return fmt.Errorf("replace arena config %q: %w", cleanPath, err)
	}
	return nil
}

// Static serves a fixed config. Tests and embedders use it in place of a Service.
type Static struct {
	Cfg *Config
}

func (s Static) Current() *Config { return s.Cfg }

// Service owns the arena file: it loads it, applies overrides, and persists
// administrative location edits. Current always returns an immutable snapshot.
type Service struct {
	path      string
	overrides Overrides

	mu      sync.RWMutex
	current *Config
}

func NewService(path string, overrides Overrides) *Service {
	if path == "" {
		path = DefaultPath
	}
	return &Service{
		path:      path,
		overrides: overrides,
		current:   overrides.Apply(Default()),
	}
}

func (s *Service) Path() string { return s.path }

// LoadOrCreate loads the file, writing the defaults first when it is absent.
func (s *Service) LoadOrCreate() (created bool, err error) {
	raw, err := Load(s.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := Save(s.path, raw); err != nil {
			return false, err
		}
		created = true
	} else if err != nil {
		return false, err
	}
	s.swap(raw)
	return created, nil
}

// Reload re-reads the file. On failure the previous snapshot stays current.
func (s *Service) Reload() error {
	raw, err := Load(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	s.swap(raw)
	return nil
}

func (s *Service) swap(raw *Config) {
	next := s.overrides.Apply(raw.Clone())
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
}

func (s *Service) Current() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Validate lists required locations that are unset in the current snapshot.
func (s *Service) Validate() []string {
	return s.Current().Validate()
}

// SetTraderLocation persists a new trader location.
func (s *Service) SetTraderLocation(p Point) error {
	return s.edit(func(cfg *Config) error {
		cfg.Trader.Location = p
		return nil
	})
}

// SetLanePoint persists lane id's spawn or end point. kind is "spawn" or "end".
func (s *Service) SetLanePoint(id int, kind string, p Point) error {
	return s.edit(func(cfg *Config) error {
		lane, err := cfg.Lanes.Lane(id)
		if err != nil {
			return err
		}
		switch strings.ToLower(kind) {
		case "spawn":
			lane.Spawn = p
		case "end":
			lane.End = p
		default:
			return fmt.Errorf("%w: point kind %q", ErrInvalidLane, kind)
		}
		return nil
	})
}

// edit applies fn to the on-disk file so overrides are never written back.
func (s *Service) edit(fn func(*Config) error) error {
	raw, err := Load(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := fn(raw); err != nil {
		return err
	}
	if err := Save(s.path, raw); err != nil {
		return err
	}
	s.swap(raw)
	return nil
}
