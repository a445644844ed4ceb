package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Meta describes a stored battle.
type Meta struct {
	ID      string    `yaml:"id"`
	Created time.Time `yaml:"created"`
	Seed    int64     `yaml:"seed"`
	Teams   []string  `yaml:"teams"`
	Winner  string    `yaml:"winner,omitempty"`
	Turns   int       `yaml:"turns"`
	Ended   bool      `yaml:"ended"`
}

// BattleManager keeps one directory per battle under BattlesDir.
type BattleManager struct {
	BattlesDir string
}

// NewBattleManager returns a manager rooted at battlesDir.
func NewBattleManager(battlesDir string) *BattleManager {
	return &BattleManager{BattlesDir: battlesDir}
}

// GetBattlePath produces the directory of a battle.
func (m *BattleManager) GetBattlePath(id string) string {
	return filepath.Join(m.BattlesDir, id)
}

// Create makes the directory of a new battle, writes its metadata and opens its journal.
// An empty meta.ID gets a fresh uuid.
func (m *BattleManager) Create(meta *Meta) (*Store, error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Created.IsZero() {
		meta.Created = time.Now().UTC()
	}
	path := m.GetBattlePath(meta.ID)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("battle %s already exists", meta.ID)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	if err := m.SaveMeta(meta); err != nil {
		return nil, err
	}
	return NewStore(filepath.Join(path, "log.jsonl"))
}

// Load opens the journal of an existing battle.
func (m *BattleManager) Load(id string) (*Store, *Meta, error) {
	path := m.GetBattlePath(id)
	if stat, err := os.Stat(path); err != nil || !stat.IsDir() {
		return nil, nil, fmt.Errorf("battle folder not properly found: %s", path)
	}
	meta, err := m.readMeta(id)
	if err != nil {
		return nil, nil, err
	}
	store, err := NewStore(filepath.Join(path, "log.jsonl"))
	if err != nil {
		return nil, nil, err
	}
	return store, meta, nil
}

// SaveMeta rewrites the metadata file of a battle.
func (m *BattleManager) SaveMeta(meta *Meta) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}
	path := filepath.Join(m.GetBattlePath(meta.ID), "battle.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (m *BattleManager) readMeta(id string) (*Meta, error) {
	path := filepath.Join(m.GetBattlePath(id), "battle.yaml")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	var meta Meta
	if err := yaml.NewDecoder(f).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &meta, nil
}

// List returns the metadata of every stored battle, newest first.
// Directories without readable metadata are skipped.
func (m *BattleManager) List() ([]*Meta, error) {
	entries, err := os.ReadDir(m.BattlesDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []*Meta
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := m.readMeta(e.Name())
		if err != nil {
			continue
		}
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.After(out[j].Created) })
	return out, nil
}
