package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/model"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/server"
)

func newWeatherCommand(load settingsLoader, logger *zap.SugaredLogger) *cobra.Command {
	var (
		city    string
		units   string
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Fetch the forecast for a city once and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			app, err := server.NewApp(ctx, load(), logger)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			weather, err := app.WeatherService.GetWeather(ctx, city, units)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if summary {
				return writeSummary(out, weather, units)
			}
			body, err := json.Marshal(weather)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(body))
			return err
		},
	}
	cmd.Flags().StringVarP(&city, "city", "c", "", "City to look up")
	cmd.Flags().StringVarP(&units, "units", "u", model.UnitsMetric, "metric or imperial")
	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "Print one line per forecast entry instead of JSON")
	return cmd
}

func newLandmarkCommand(load settingsLoader, logger *zap.SugaredLogger) *cobra.Command {
	var city string

	cmd := &cobra.Command{
		Use:   "landmark",
		Short: "Print a landmark photo URL for a city",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			app, err := server.NewApp(ctx, load(), logger)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			result, err := app.LandmarkService.GetLandmark(ctx, city)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.ImageURL)
			return err
		},
	}
	cmd.Flags().StringVarP(&city, "city", "c", "", "City to look up")
	return cmd
}

func writeSummary(w io.Writer, weather *model.WeatherResponse, units string) error {
	entries, err := model.ForecastEntries(weather.Current)
	if err != nil {
		return err
	}
	tempUnit, speedUnit := "°C", "m/s"
	if strings.EqualFold(strings.TrimSpace(units), model.UnitsImperial) {
		tempUnit, speedUnit = "°F", "mph"
	}

	if _, err := fmt.Fprintf(w, "%s (%d entries)\n", weather.City, len(entries)); err != nil {
		return err
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %.1f%s  humidity %d%%  wind %.1f %s",
			formatDate(e.Time()), e.Main.Temp, tempUnit, e.Main.Humidity, e.Wind.Speed, speedUnit)
		if desc := e.Description(); desc != "" {
			line += "  " + desc
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatDate renders t in UTC as "21st October 2026 09:00".
func formatDate(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s %s %d %s", ordinal(t.Day()), t.Month(), t.Year(), t.Format("15:04"))
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
