package cmd

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/suderio/arena/internal/engine"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxSimulatedTurns stops a simulated battle that cannot finish, e.g. two walls that only heal.
const maxSimulatedTurns = 500

var simulateCmd = &cobra.Command{
	Use:   "simulate [team] [team]",
	Short: "Run many seeded battles with a simple driver and report win rates",
	Long: `Runs N battles between two teams. Every side uses its first move with PP left
and sends in its first healthy bench member after a knockout. Battle i uses seed+i,
so the same flags always produce the same summary.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		teams := []string{"red", "blue"}
		copy(teams, args)

		runs, _ := cmd.Flags().GetInt("runs")
		seedFlag, _ := cmd.Flags().GetInt64("seed")
		if runs <= 0 {
			return fmt.Errorf("runs must be positive, got %d", runs)
		}
		seed, err := resolveSeed(seedFlag)
		if err != nil {
			return err
		}
		repo, loader, err := loadRepository()
		if err != nil {
			return err
		}

		wins := make(map[string]int)
		totalTurns := 0
		bar := progressbar.Default(int64(runs), "Simulating")
		for i := 0; i < runs; i++ {
			b, err := newBattle(fmt.Sprintf("sim-%d", i), repo, loader, teams, engine.NewSeededRNG(seed+int64(i)))
			if err != nil {
				return err
			}
			b.SetLogger(zerolog.Nop())
			if err := simulate(b); err != nil {
				return fmt.Errorf("battle %d (seed %d): %w", i, seed+int64(i), err)
			}
			winner := b.Winner()
			if b.IsActive() {
				winner = "unfinished"
			} else if winner == "" {
				winner = "draw"
			}
			wins[winner]++
			totalTurns += b.State().Turn
			bar.Add(1)
		}

		printSummary(teams, runs, seed, wins, totalTurns)
		return nil
	},
}

// simulate drives a battle to its end with the first-usable-move policy.
func simulate(b *engine.Battle) error {
	for b.IsActive() && b.State().Turn < maxSimulatedTurns {
		for _, sideID := range b.NeedsReplacement() {
			side := b.State().Side(sideID)
			if err := b.Replace(sideID, firstHealthy(side)); err != nil {
				return err
			}
		}
		if !b.IsActive() {
			break
		}
		for _, side := range b.State().LivingSides() {
			if err := b.QueueAction(chooseAction(side)); err != nil {
				return err
			}
		}
		if _, err := b.ProcessTurn(); err != nil {
			return err
		}
	}
	return nil
}

func chooseAction(side *engine.Side) engine.Action {
	active := side.ActiveCombatant()
	for i, slot := range active.Moves {
		if slot.PP > 0 {
			return engine.MoveAction(active.ID, i, "")
		}
	}
	if side.HasBench() {
		return engine.SwitchAction(active.ID, firstHealthy(side))
	}
	return engine.FleeAction(active.ID)
}

func firstHealthy(side *engine.Side) int {
	for i, c := range side.Roster {
		if i != side.Active && !c.IsFainted() {
			return i
		}
	}
	return -1
}

func printSummary(teams []string, runs int, seed int64, wins map[string]int, totalTurns int) {
	p := message.NewPrinter(language.English)
	p.Printf("\n%s vs %s: %d battles from seed %d\n", teams[0], teams[1], runs, seed)

	outcomes := make([]string, 0, len(wins))
	for k := range wins {
		outcomes = append(outcomes, k)
	}
	sort.Slice(outcomes, func(i, j int) bool { return wins[outcomes[i]] > wins[outcomes[j]] })
	for _, k := range outcomes {
		p.Printf("  %-12s %8d  %5.1f%%\n", k, wins[k], 100*float64(wins[k])/float64(runs))
	}
	p.Printf("  average length %.1f turns\n", float64(totalTurns)/float64(runs))
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntP("runs", "n", 100, "Number of battles")
	simulateCmd.Flags().Int64("seed", 0, "First seed (0 picks one)")
}

