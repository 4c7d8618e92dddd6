// main.go
// A terminal host for the chat client: inbound messages are printed one per
// line, every stdin line is sent to the room.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"realtime-chat-client/chatclient"
	"realtime-chat-client/internal/logging"
)

type settings struct {
	room       string
	user       string
	configPath string
	scheme     string
	host       string
	port       int
	logLevel   string
}

func newRootCommand() *cobra.Command {
	s := &settings{}
	cmd := &cobra.Command{
		Use:   "chat-client",
		Short: "Join a chat room over WebSocket from the terminal",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup(s.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.config(cmd)
			if err != nil {
				return err
			}
			return run(cmd, cfg, s.room, s.user, cmd.InOrStdin())
		},
	}
	cmd.Flags().StringVar(&s.room, "room", "lobby", "room to join")
	cmd.Flags().StringVar(&s.user, "user", "", "username sent as the join frame")
	cmd.Flags().StringVar(&s.configPath, "config", "", "YAML client configuration")
	cmd.Flags().StringVar(&s.scheme, "scheme", "ws", "ws or wss")
	cmd.Flags().StringVar(&s.host, "host", "127.0.0.1", "server host")
	cmd.Flags().IntVar(&s.port, "port", 3000, "server port")
	cmd.PersistentFlags().StringVar(&s.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// config loads the optional file, then applies flags the user set explicitly.
func (s *settings) config(cmd *cobra.Command) (chatclient.Config, error) {
	cfg := chatclient.DefaultConfig()
	if s.configPath != "" {
		var err error
		if cfg, err = chatclient.LoadConfig(s.configPath); err != nil {
			return cfg, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("scheme") || s.configPath == "" {
		cfg.Scheme = s.scheme
	}
	if flags.Changed("host") || s.configPath == "" {
		cfg.Host = s.host
	}
	if flags.Changed("port") || s.configPath == "" {
		cfg.Port = s.port
	}
	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, cfg chatclient.Config, room, user string, in io.Reader) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stderr := cmd.ErrOrStderr()
	opened := make(chan struct{})
	var once sync.Once
	c, err := chatclient.Connect(room, user,
		chatclient.WithConfig(cfg),
		chatclient.WithDocument(newConsoleDocument(cmd.OutOrStdout(), cfg.TargetID)),
		chatclient.WithErrorHandler(func(err error) {
			fmt.Fprintf(stderr, "! %v\n", err)
		}),
		chatclient.WithStateHandler(func(from, to chatclient.State) {
			log.Info().Stringer("from", from).Stringer("to", to).Str("room", room).Msg("connection state")
			if to == chatclient.Open {
				once.Do(func() { close(opened) })
			}
		}),
	)
	if err != nil {
		return err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-c.Done():
				return
			}
		}
	}()

	// Input is held back until the join handshake has gone out.
	var input <-chan string
	waitOpen := (<-chan struct{})(opened)
	for {
		select {
		case <-waitOpen:
			input, waitOpen = lines, nil
		case <-ctx.Done():
			return c.Close()
		case <-c.Done():
			if c.State() == chatclient.Errored {
				return errors.New("connection failed")
			}
			return nil
		case line, ok := <-input:
			if !ok {
				return c.Close()
			}
			if line == "" {
				continue
			}
			if err := c.Send(line); err != nil {
				fmt.Fprintf(stderr, "! %v\n", err)
			}
		}
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
