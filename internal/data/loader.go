package data

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults
var embedded embed.FS

// Loader handles reading records from the read-only data layer.
// Directories are searched in order and the embedded defaults come last.
type Loader struct {
	dataDirs []string
}

// NewLoader initializes a new data loader with the given directory fallback hierarchy.
func NewLoader(dataDirs []string) *Loader {
	return &Loader{
		dataDirs: dataDirs,
	}
}

// LoadMoves reads moves.yaml.
func (l *Loader) LoadMoves() (*MovesFile, error) {
	var f MovesFile
	if err := l.load("moves.yaml", &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadSpecies reads species.yaml.
func (l *Loader) LoadSpecies() (*SpeciesFile, error) {
	var f SpeciesFile
	if err := l.load("species.yaml", &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadItems reads items.yaml.
func (l *Loader) LoadItems() (*ItemsFile, error) {
	var f ItemsFile
	if err := l.load("items.yaml", &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadAbilities reads abilities.yaml.
func (l *Loader) LoadAbilities() (*AbilitiesFile, error) {
	var f AbilitiesFile
	if err := l.load("abilities.yaml", &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadModifiers reads modifiers.yaml.
func (l *Loader) LoadModifiers() (*ModifiersFile, error) {
	var f ModifiersFile
	if err := l.load("modifiers.yaml", &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadTeam reads teams/<name>.yaml.
func (l *Loader) LoadTeam(name string) (*Team, error) {
	var t Team
	ref := filepath.Join("teams", fmt.Sprintf("%s.yaml", Normalize(name)))
	if err := l.load(ref, &t); err != nil {
		return nil, err
	}
	if t.Index == "" {
		t.Index = Normalize(name)
	}
	return &t, nil
}

// ListTeams returns the names of every team reachable by LoadTeam.
func (l *Loader) ListTeams() []string {
	seen := make(map[string]bool)
	add := func(entries []fs.DirEntry) {
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
				seen[strings.TrimSuffix(e.Name(), ".yaml")] = true
			}
		}
	}
	for _, dir := range l.dataDirs {
		if entries, err := os.ReadDir(filepath.Join(dir, "teams")); err == nil {
			add(entries)
		}
	}
	if entries, err := fs.ReadDir(embedded, "defaults/teams"); err == nil {
		add(entries)
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (l *Loader) load(ref string, target interface{}) error {
	for _, dir := range l.dataDirs {
		path := filepath.Join(dir, ref)
		f, err := os.Open(path)
		if err == nil {
			defer f.Close()
			return decode(ref, f, target)
		}
	}
	f, err := embedded.Open(filepath.ToSlash(filepath.Join("defaults", ref)))
	if err != nil {
		return fmt.Errorf("could not find or open reference %s in any available data directory", ref)
	}
	defer f.Close()
	return decode(ref, f, target)
}

func decode(ref string, r io.Reader, target interface{}) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("failed to decode yaml reference %s: %w", ref, err)
	}
	return nil
}
