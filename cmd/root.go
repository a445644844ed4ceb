/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/suderio/arena/internal/config"
)

var (
	cfgFile string
	appCfg  *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "A turn-based creature battle engine",
	Long: `arena runs turn-based battles between teams of creatures.
Battles are driven by a small command language, journaled as events
and can be replayed from their log.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.arena.yaml)")
	rootCmd.PersistentFlags().String("data_dir", "", "Directory with moves, species, items and teams overriding the built-in data")
	rootCmd.PersistentFlags().String("battles_dir", "", "Directory where battle logs are stored")
	rootCmd.PersistentFlags().String("log_level", "", "Log level (trace, debug, info, warn, error)")

	for _, name := range []string{"data_dir", "battles_dir", "log_level"} {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".arena")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setup builds the configuration from the environment, lets the config file and flags override it
// and configures the global logger.
func setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v := viper.GetString("data_dir"); v != "" {
		cfg.DataDir = v
	}
	if v := viper.GetString("battles_dir"); v != "" {
		cfg.BattlesDir = v
	}
	if v := viper.GetString("log_level"); v != "" {
		cfg.LogLevel = v
	}
	if viper.IsSet("weather") {
		cfg.Weather = viper.GetString("weather")
	}
	if viper.IsSet("deterministic") {
		cfg.Deterministic = viper.GetBool("deterministic")
	}

	lvl, err := cfg.Level()
	if err != nil {
		return err
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()

	appCfg = cfg
	return nil
}
