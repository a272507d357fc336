// Command voicecall runs one hospital appointment call locally, either as a
// text chat on the terminal or over a recorded WAV file.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"hospital-voice-agent/internal/app"
	"hospital-voice-agent/internal/config"
	"hospital-voice-agent/internal/service/session"
	"hospital-voice-agent/internal/service/turn"
)

// Options is the root command. The struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Text  TextCmd  `command:"text" description:"Talk to the agent by typing; an empty line is silence"`
	Voice VoiceCmd `command:"voice" description:"Play a recorded call (16-bit mono WAV) through the agent"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Println(err)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runCall builds the application and drives one call over l and s.
func runCall(build func(ctx context.Context, a *app.Application) (turn.Listener, turn.Speaker, func(), error)) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if cfg.Observability.LogFormat == "json" {
		cfg.Observability.LogFormat = "console"
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Shutdown()

	listener, speaker, closeIO, err := build(ctx, a)
	if err != nil {
		return err
	}
	defer closeIO()

	sess := session.New(uuid.NewString(), a.SessionDeps())
	res, err := turn.New(sess, listener, speaker, a.TurnConfig()).Run(ctx)
	log.Info().
		Str("sessionId", sess.ID()).
		Str("reason", res.Reason).
		Int("turns", res.Turns).
		Str("state", res.State.String()).
		Msg("Call ended")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// readScript reads one utterance per line.
func readScript(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
