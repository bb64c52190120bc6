package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"

	"spot/cmd/client/cmd/auth"
	"spot/cmd/client/cmd/place"
	syncCmd "spot/cmd/client/cmd/sync"
	"spot/cmd/client/cmd/types"
	"spot/internal/app/client"
	"spot/internal/app/client/config"
	"spot/internal/utils/logger"
)

var (
	cfgFile   string
	serverURL string

	cfg *config.Config
	log *slog.Logger
	app *client.App
)

var rootCmd = &cobra.Command{
	Use:   "spot",
	Short: "Spot - save places you want to visit",
	Long: `Spot keeps a local list of places you saved, with notes and visit
dates, and syncs it with the Spot server when one is reachable. All
commands work offline; pending changes upload on the next sync.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}

	log = logger.New(cfg.Env)

	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("init application: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		viper.AddConfigPath(filepath.Join(home, ".spot"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return config.MustLoad(), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Spot server address")

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(place.PlacesCmd)
	rootCmd.AddCommand(syncCmd.SyncCmd)
}
