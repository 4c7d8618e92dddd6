// main.go
// The development room server: every /ws/{room} connection joins that room
// with its first frame as the username. CheckOrigin is permissive, which is
// only acceptable for local use.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"realtime-chat-client/internal/logging"
	"realtime-chat-client/internal/roomserver"
)

func main() {
	var (
		addr        string
		logLevel    string
		joinTimeout time.Duration
	)

	rootCmd := &cobra.Command{
		Use:   "chat-server",
		Short: "Serve chat rooms over WebSocket at /ws/{room}",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup(logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rs := roomserver.New(ctx, log.Logger, roomserver.WithJoinTimeout(joinTimeout))
			srv := &http.Server{
				Addr:              addr,
				Handler:           rs.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info().Str("addr", addr).Msg("starting chat server")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return errors.Wrap(err, "listen")
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				log.Info().Msg("shutting down")
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	rootCmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3000", "HTTP listen address")
	rootCmd.Flags().DurationVar(&joinTimeout, "join-timeout", 10*time.Second, "time allowed for the username frame")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
