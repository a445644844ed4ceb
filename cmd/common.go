package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/suderio/arena/internal/data"
	"github.com/suderio/arena/internal/engine"
)

// loadRepository reads the reference data, preferring the configured data dir over the built-in files.
func loadRepository() (*data.Repository, *data.Loader, error) {
	var dirs []string
	if appCfg.DataDir != "" {
		dirs = append(dirs, appCfg.DataDir)
	}
	loader := data.NewLoader(dirs)
	repo, err := data.Load(loader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load game data: %w", err)
	}
	moves, species, items := repo.Counts()
	log.Debug().Int("moves", moves).Int("species", species).Int("items", items).Msg("game data loaded")
	return repo, loader, nil
}

// newBattle builds one side per team, named after the team file.
func newBattle(id string, repo *data.Repository, loader *data.Loader, teams []string, rng engine.RNG) (*engine.Battle, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("a battle needs at least two teams, got %d", len(teams))
	}
	cfg, err := appCfg.EngineConfig()
	if err != nil {
		return nil, err
	}
	sides := make([]*engine.Side, 0, len(teams))
	for _, name := range teams {
		team, err := loader.LoadTeam(name)
		if err != nil {
			return nil, err
		}
		side, err := repo.BuildSide(name, team)
		if err != nil {
			return nil, err
		}
		sides = append(sides, side)
	}
	mods, err := repo.Modifiers()
	if err != nil {
		return nil, err
	}
	return engine.NewBattle(id, cfg, repo, rng, sides, engine.WithModifiers(mods))
}

// resolveSeed returns the flag seed, then the configured one, then a fresh random seed.
func resolveSeed(flag int64) (int64, error) {
	if flag != 0 {
		return flag, nil
	}
	if appCfg.Seed != 0 {
		return appCfg.Seed, nil
	}
	return engine.NewSeed()
}
