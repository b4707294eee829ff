package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-annotate/pkg/annotate"
	"video-annotate/pkg/kv"
	"video-annotate/pkg/player"

	"github.com/spf13/cobra"
)

var sessionDuration float64

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Watch a video interactively with live sync",
	Long: `Start a playback session for --url signed in as --user. Annotations
shared with you arrive over the push channel and are merged while you watch.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireURL(); err != nil {
			return err
		}
		if userName == "" {
			return annotate.ErrSignedOut
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		backend, err := openStore()
		if err != nil {
			return err
		}
		defer backend.Close()

		out := cmd.OutOrStdout()
		store := annotate.NewStore(backend)
		clock := player.NewClock(resourceURL, sessionDuration)
		session := annotate.NewSession(store, newRemote(), newDialer(), clock, newTerminalView(out), appLog, cfg.Client.SyncTimeout)
		defer session.Close()

		stopNav := clock.OnNavigate(func(string) {
			if err := session.Refresh(ctx); err != nil {
				errorColor.Fprintln(out, err)
			}
		})
		defer stopNav()

		// Saves from other annotate processes show up without a restart.
		if fs, ok := backend.(*kv.FileStore); ok {
			changes, err := fs.Watch(ctx)
			if err != nil {
				appLog.Warn("CLI", "Store watch unavailable", map[string]interface{}{"error": err.Error()})
			} else {
				go func() {
					for key := range changes {
						if key == annotate.RootKey {
							_ = session.Refresh(ctx)
						}
					}
				}()
			}
		}

		go clock.Run(ctx, time.Second)
		clock.Play()

		if err := session.SignIn(ctx, userName); err != nil {
			warnColor.Fprintf(out, "Signed in as %s with problems: %v\n", userName, err)
		} else {
			okColor.Fprintf(out, "Signed in as %s\n", userName)
		}
		fmt.Fprintln(out, "Type help for commands.")

		r := &repl{session: session, clock: clock, store: store, out: out}
		lines := make(chan string)
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				lines <- scanner.Text()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				err := r.execute(ctx, line)
				if errors.Is(err, errQuit) {
					return nil
				}
				if err != nil {
					errorColor.Fprintln(out, err)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.Flags().Float64Var(&sessionDuration, "duration", 0, "Video length in seconds (0 = unknown)")
}
