// Package cli wires the cobra commands of the weather proxy binary.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/config"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/server"
)

// settingsLoader produces the wiring settings for a command run.
type settingsLoader func() server.Settings

// Execute runs the root command against the process config.
func Execute() error {
	return NewRootCommand(server.SettingsFromConfig, config.GetLogger()).Execute()
}

// NewRootCommand builds the command tree. serve is the default action.
func NewRootCommand(load settingsLoader, logger *zap.SugaredLogger) *cobra.Command {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	serveCmd := newServeCommand(load, logger)
	rootCmd := &cobra.Command{
		Use:   "weather-proxy",
		Short: "Weather and landmark proxy for the weather UI",
		Long: `A small HTTP service that geocodes a city, fetches its forecast from
OpenWeatherMap, caches the result, and looks up a landmark photo on Unsplash.`,
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newWeatherCommand(load, logger))
	rootCmd.AddCommand(newLandmarkCommand(load, logger))
	return rootCmd
}
