package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
)

// Demo data objects.
const (
	demoDataObject = "MY_DATAOBJECT"
	demoValue      = "MY_VALUE"
	lampDataObject = "AZ_DECKENLAMPE"
)

// errExit ends the shell loop.
var errExit = errors.New("exit")

func (a *app) shell(ctx context.Context, stdin io.ReadCloser) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "homenet> ",
		HistoryFile:     filepath.Join(os.TempDir(), "homenet-demo-shell.history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           stdin,
		Stdout:          a.stdout,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(a.stdout, "Interactive shell started. Type 'help' for commands, 'exit' to quit.")

	for ctx.Err() == nil {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		tokens, err := shlex.Split(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintf(a.stdout, "Parse error: %v\n", err)
			continue
		}
		if err := a.execute(ctx, tokens); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(a.stdout, "Bye!")
				return nil
			}
			fmt.Fprintf(a.stdout, "%s: %v\n", tokens[0], err)
		}
	}
	return nil
}

// execute runs one shell command.
func (a *app) execute(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	switch tokens[0] {
	case "exit", "quit":
		return errExit
	case "help":
		a.printHelp()
	case "send":
		switch len(tokens) {
		case 1:
			return a.notify(ctx, demoDataObject, demoValue)
		case 3:
			return a.notify(ctx, tokens[1], tokens[2])
		default:
			return errors.New("usage: send [NAME VALUE]")
		}
	case "on":
		return a.notify(ctx, lampDataObject, "1")
	case "off":
		return a.notify(ctx, lampDataObject, "0")
	case "state":
		a.mu.Lock()
		n := a.f.State.MyProgramState
		a.mu.Unlock()
		fmt.Fprintf(a.stdout, "MyProgramState = %d\n", n)
	case "save":
		a.mu.Lock()
		err := a.f.SaveStateFile()
		a.mu.Unlock()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "state saved")
	case "targets":
		for _, t := range a.f.Targets() {
			fmt.Fprintf(a.stdout, "%-10s configured=%-5t connected=%t\n", t.Name(), t.IsConfigured(), t.IsConnected())
		}
	case "health":
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		results := a.f.HealthCheck(checkCtx)
		if len(results) == 0 {
			fmt.Fprintln(a.stdout, "no targets configured")
			return nil
		}
		names := make([]string, 0, len(results))
		for name := range results {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			status := "ok"
			if err := results[name]; err != nil {
				status = err.Error()
			}
			fmt.Fprintf(a.stdout, "%-10s %s\n", name, status)
		}
	default:
		return fmt.Errorf("unknown command, try 'help'")
	}
	return nil
}

// notify sends one change; failures are already logged by the targets.
func (a *app) notify(ctx context.Context, name, value string) error {
	if err := a.f.Notify(ctx, name, value); err != nil {
		fmt.Fprintf(a.stdout, "sent %s=%s with errors (see log)\n", name, value)
		return nil
	}
	fmt.Fprintf(a.stdout, "sent %s=%s\n", name, value)
	return nil
}

func (a *app) printHelp() {
	fmt.Fprintln(a.stdout, `Commands:
  send                    # send MY_DATAOBJECT=MY_VALUE
  send NAME VALUE         # send any data object change, quote values with spaces
  on / off                # switch AZ_DECKENLAMPE
  state                   # show the program state
  save                    # write the state file now
  targets                 # list outbound targets
  health                  # check configured targets
  exit / quit             # leave the shell and shut down`)
}
