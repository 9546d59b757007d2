package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/config"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/server"
)

func newServeCommand(load settingsLoader, logger *zap.SugaredLogger) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := server.NewApp(ctx, load(), logger)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			if app.RateLimiter != nil {
				app.RateLimiter.StartCleanup(ctx)
			}

			if port == "" {
				port = config.GetServerPort()
			}
			srv := server.NewHTTPServer(":"+port, server.NewRouter(app.Deps))
			return server.ListenAndServe(ctx, srv, logger)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (defaults to server.port)")
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
