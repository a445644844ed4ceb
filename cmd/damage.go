package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/suderio/arena/internal/data"
	"github.com/suderio/arena/internal/engine"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var damageCmd = &cobra.Command{
	Use:   "damage <attacker> <move> <defender>",
	Short: "Calculate the damage of one move and print its breakdown",
	Long: `Builds both combatants from species data and runs a single damage calculation.
Multi-word names use dashes or quotes:
	arena damage charizard flamethrower venusaur --weather sun
	arena damage "Mr Mime" psychic gengar --crit`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		attLevel, _ := cmd.Flags().GetInt("attacker-level")
		defLevel, _ := cmd.Flags().GetInt("defender-level")
		weather, _ := cmd.Flags().GetString("weather")
		crit, _ := cmd.Flags().GetBool("crit")
		roll, _ := cmd.Flags().GetInt("roll")
		item, _ := cmd.Flags().GetString("item")
		ability, _ := cmd.Flags().GetString("ability")

		repo, _, err := loadRepository()
		if err != nil {
			return err
		}
		move, ok := repo.MoveByName(args[1])
		if !ok {
			return fmt.Errorf("unknown move %q", args[1])
		}
		attacker, err := repo.BuildCombatant(data.Member{ID: "attacker", Species: args[0], Level: attLevel, Item: item, Ability: ability, Moves: []string{move.Name}})
		if err != nil {
			return err
		}
		defender, err := repo.BuildCombatant(data.Member{ID: "defender", Species: args[2], Level: defLevel})
		if err != nil {
			return err
		}

		cfg := appCfg.DamageConfig()
		mods, err := repo.Modifiers()
		if err != nil {
			return err
		}
		calc := engine.NewDamageCalculator(cfg, engine.NewTypeChart(), mods)

		rng := engine.NewScriptedRNG().QueueChance(crit)
		if roll > 0 {
			rng.QueueRange(roll)
		}
		field := &engine.Field{Weather: engine.Weather(strings.ToLower(weather))}
		res, err := calc.Calculate(attacker, defender, move, field, rng)
		if err != nil {
			return err
		}

		p := message.NewPrinter(language.English)
		p.Printf("%s (L%d) used %s on %s (L%d)\n", args[0], attacker.Level, move.Name, args[2], defender.Level)
		if res.Immune {
			p.Printf("It doesn't affect %s.\n", args[2])
			return nil
		}
		p.Printf("Damage: %d of %d HP (%.1f%%)\n", res.Damage, defender.MaxHP, res.Percent)
		printBreakdown(p, res)
		return nil
	},
}

func printBreakdown(p *message.Printer, res *engine.DamageResult) {
	b := res.Breakdown
	if b.Fixed {
		p.Printf("  fixed damage\n")
		return
	}
	p.Printf("  power %d, attack %d (%+d), defense %d (%+d), base %d\n",
		b.BasePower, b.Attack, b.AttackStage, b.Defense, b.DefenseStage, b.BaseDamage)
	rows := []struct {
		name  string
		value float64
	}{
		{"critical", b.Critical},
		{"type", b.Type},
		{"stab", b.STAB},
		{"weather", b.Weather},
		{"item", b.Item},
		{"ability", b.Ability},
		{"field", b.Field},
		{"status", b.Status},
		{"random", b.Random},
	}
	for _, r := range rows {
		p.Printf("  %-9s x%.2f\n", r.name, r.value)
	}
}

func init() {
	rootCmd.AddCommand(damageCmd)
	damageCmd.Flags().Int("attacker-level", 50, "Attacker level")
	damageCmd.Flags().Int("defender-level", 50, "Defender level")
	damageCmd.Flags().String("weather", "", "Weather (sun, rain, sandstorm, hail, fog)")
	damageCmd.Flags().Bool("crit", false, "Force a critical hit")
	damageCmd.Flags().Int("roll", 0, "Random roll in percent (default the maximum)")
	damageCmd.Flags().String("item", "", "Attacker held item")
	damageCmd.Flags().String("ability", "", "Attacker ability")
}
