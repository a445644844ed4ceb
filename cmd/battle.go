/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/suderio/arena/internal/engine"
	"github.com/suderio/arena/internal/persistence"
	"github.com/suderio/arena/internal/session"
)

var battleCmd = &cobra.Command{
	Use:   "battle",
	Short: "Run, replay and list battles",
}

var battleRunCmd = &cobra.Command{
	Use:   "run [team] [team]",
	Short: "Start a battle and read commands from a script or stdin",
	Long: `Starts a battle between two teams and executes one command per line.
Usage:
	> move :by charizard flamethrower :to blastoise
	> switch :by blastoise :to snorlax
	> status`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		teams := []string{"red", "blue"}
		copy(teams, args)

		seedFlag, _ := cmd.Flags().GetInt64("seed")
		script, _ := cmd.Flags().GetString("script")
		noSave, _ := cmd.Flags().GetBool("no-save")
		manual, _ := cmd.Flags().GetBool("manual-turns")
		tui, _ := cmd.Flags().GetBool("tui")

		seed, err := resolveSeed(seedFlag)
		if err != nil {
			return err
		}
		repo, loader, err := loadRepository()
		if err != nil {
			return err
		}

		meta := &persistence.Meta{Created: time.Now().UTC(), Seed: seed, Teams: teams}
		manager := persistence.NewBattleManager(appCfg.BattlesDir)
		opts := []session.Option{}
		if !manual {
			opts = append(opts, session.WithAutoTurn())
		}
		if !noSave {
			store, err := manager.Create(meta)
			if err != nil {
				return fmt.Errorf("failed to create battle log: %w", err)
			}
			opts = append(opts, session.WithStore(store))
		}

		b, err := newBattle(meta.ID, repo, loader, teams, engine.NewSeededRNG(seed))
		if err != nil {
			return err
		}
		app, err := session.NewSession(repo, b, opts...)
		if err != nil {
			return err
		}
		defer app.Close()

		var in io.Reader = os.Stdin
		if tui && script == "" {
			title := fmt.Sprintf(" Arena | %s vs %s | %s ", teams[0], teams[1], b.ID())
			if err := RunTUI(app, repo, title); err != nil {
				return err
			}
		} else if script != "" {
			f, err := os.Open(script)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		if !tui || script != "" {
			fmt.Printf("Battle %s: %s vs %s (seed %d)\n", b.ID(), teams[0], teams[1], seed)
			if script == "" {
				fmt.Print("Type 'help' for the command list.\n\n")
			}
			for _, line := range session.FormatState(b.State(), repo) {
				fmt.Println(line)
			}
			if err := app.Run(in, os.Stdout); err != nil {
				return err
			}
		}

		if !noSave {
			meta.Winner = b.Winner()
			meta.Turns = b.State().Turn
			meta.Ended = !b.IsActive()
			if err := manager.SaveMeta(meta); err != nil {
				return err
			}
			fmt.Printf("Battle saved as %s\n", meta.ID)
		}
		return nil
	},
}

var battleReplayCmd = &cobra.Command{
	Use:   "replay <battle_id>",
	Short: "Replay a stored battle and print its final state",
	Long: `Reads the log.jsonl of a stored battle and rebuilds the battle state
through the event Projector.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		until, _ := cmd.Flags().GetUint64("until")
		quiet, _ := cmd.Flags().GetBool("quiet")

		manager := persistence.NewBattleManager(appCfg.BattlesDir)
		store, meta, err := manager.Load(args[0])
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Load()
		if err != nil {
			return err
		}

		projector := engine.NewProjector()
		var state *engine.BattleState
		if until > 0 {
			state, err = projector.BuildUntil(records, until)
		} else {
			state, err = projector.Build(records)
		}
		if err != nil {
			return fmt.Errorf("error projecting state: %w", err)
		}

		if !quiet {
			for _, r := range records {
				if until > 0 && r.Seq > until {
					break
				}
				fmt.Printf("%4d  %s\n", r.Seq, r.Event.Message())
			}
			fmt.Println()
		}

		repo, _, err := loadRepository()
		if err != nil {
			return err
		}
		fmt.Printf("Battle %s (seed %d, created %s)\n", meta.ID, meta.Seed, meta.Created.Format(time.RFC3339))
		for _, line := range session.FormatState(state, repo) {
			fmt.Println(line)
		}
		return nil
	},
}

var battleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored battles, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := persistence.NewBattleManager(appCfg.BattlesDir)
		metas, err := manager.List()
		if err != nil {
			return err
		}
		if len(metas) == 0 {
			fmt.Println("No battles stored in", appCfg.BattlesDir)
			return nil
		}
		for _, m := range metas {
			status := "in progress"
			if m.Ended {
				status = "no winner"
				if m.Winner != "" {
					status = m.Winner + " won"
				}
			}
			fmt.Printf("%s  %s  %v  %d turns  %s\n", m.ID, m.Created.Format("2006-01-02 15:04"), m.Teams, m.Turns, status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(battleCmd)
	battleCmd.AddCommand(battleRunCmd, battleReplayCmd, battleListCmd)

	battleRunCmd.Flags().Int64("seed", 0, "Seed for the random source (0 picks one)")
	battleRunCmd.Flags().StringP("script", "s", "", "File with one command per line (default stdin)")
	battleRunCmd.Flags().Bool("no-save", false, "Do not write the battle log")
	battleRunCmd.Flags().Bool("manual-turns", false, "Only resolve a turn on the 'turn' command")
	battleRunCmd.Flags().Bool("tui", false, "Play in a full-screen terminal interface instead of reading stdin")
	battleRunCmd.Flags().Bool("deterministic", false, "Disable the random damage roll and critical hits")
	battleRunCmd.Flags().String("weather", "", "Weather in effect for the whole battle")
	viper.BindPFlag("deterministic", battleRunCmd.Flags().Lookup("deterministic"))
	viper.BindPFlag("weather", battleRunCmd.Flags().Lookup("weather"))

	battleReplayCmd.Flags().Uint64("until", 0, "Stop replaying after this sequence number")
	battleReplayCmd.Flags().BoolP("quiet", "q", false, "Only print the final state")
}
