package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"video-annotate/pkg/annotate"
	"video-annotate/pkg/player"
)

const replHelp = `Commands:
  note <text>            annotate the current position
  share <user>           send this video's annotations to <user>
  seek <seconds>         jump to a position
  play | pause           control playback
  open <url> [seconds]   switch video (optional duration)
  list                   show this video's annotations
  sync                   fetch shared annotations now
  signin <user>          switch user
  signout                stop syncing
  status                 show user, position and push state
  quit                   leave`

// repl interprets the interactive commands of `annotate session`.
type repl struct {
	session *annotate.Session
	clock   *player.Clock
	store   *annotate.Store
	out     io.Writer
}

var errQuit = errors.New("quit")

// execute runs one input line. It returns errQuit when the user leaves.
func (r *repl) execute(ctx context.Context, line string) error {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "":
		return nil
	case "help", "?":
		fmt.Fprintln(r.out, replHelp)
	case "quit", "exit":
		return errQuit
	case "note":
		if rest == "" {
			return errors.New("usage: note <text>")
		}
		return r.session.Save(ctx, rest)
	case "share":
		if rest == "" {
			return errors.New("usage: share <user>")
		}
		sent, err := r.session.Share(ctx, rest)
		if sent > 0 {
			okColor.Fprintf(r.out, "Shared %d annotation(s) with %s\n", sent, rest)
		}
		return err
	case "seek":
		seconds, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return fmt.Errorf("usage: seek <seconds>: %w", err)
		}
		return r.session.Seek(seconds)
	case "play":
		r.clock.Play()
	case "pause":
		r.clock.Pause()
	case "open":
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return errors.New("usage: open <url> [seconds]")
		}
		var duration float64
		if len(fields) > 1 {
			d, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			duration = d
		}
		r.clock.Navigate(fields[0], duration)
	case "list":
		entry, err := r.store.ReadResource(ctx, r.clock.CurrentURL())
		if err != nil {
			return err
		}
		printAnnotations(r.out, r.clock.CurrentURL(), entry)
	case "sync":
		report, err := r.session.Sync(ctx)
		printReport(r.out, report)
		return err
	case "signin":
		if rest == "" {
			return errors.New("usage: signin <user>")
		}
		return r.session.SignIn(ctx, rest)
	case "signout":
		r.session.SignOut()
	case "status":
		t := r.session.Clock()
		user := r.session.UserName()
		if user == "" {
			user = "(signed out)"
		}
		fmt.Fprintf(r.out, "user %s, %s at %s / %s, push connected: %t\n",
			user, r.clock.CurrentURL(), formatTime(t.CurrentTime), formatTime(t.TotalTime), r.session.PushConnected())
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
	return nil
}
