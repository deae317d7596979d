// homenet-ui - terminal window demo built on the homenet framework
//
// It runs the same lifecycle as homenet-demo but hands the terminal to a
// bubbletea program: a counter driven by the periodic job and ON/OFF
// buttons that switch the AZ_DECKENLAMPE data object. Log entries that
// would go to stdout or stderr are shown in the window's log pane.
//
// Usage:
//
//	homenet-ui -c configs/appsettings.hjson --nlogconfig configs/nlog.config
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nerrad567/homenet-framework/internal/framework"
	"github.com/nerrad567/homenet-framework/internal/infrastructure/config"
)

// Version information - set at build time via ldflags
var version = "dev"

const appName = "homenet-ui"

// settings is the content of appsettings.json / appsettings.hjson.
type settings struct {
	config.Targets

	IntervalInSeconds int `json:"IntervalInSeconds" validate:"required"`
}

// Validate rejects intervals the scheduler cannot run.
func (s *settings) Validate() error {
	if s.IntervalInSeconds < 1 {
		return fmt.Errorf("IntervalInSeconds must be at least 1, got %d", s.IntervalInSeconds)
	}
	return nil
}

// programState survives restarts in the state file.
type programState struct {
	MyProgramState int `json:"MyProgramState"`
}

type facade = framework.Facade[framework.Arguments, settings, programState]

// app connects the facade to the running bubbletea program.
type app struct {
	f *facade

	// mu guards f.State.
	mu sync.Mutex

	// send delivers messages to the UI loop; nil until the program exists.
	send func(tea.Msg)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	f := framework.New[framework.Arguments, settings, programState](appName, version,
		framework.WithDescription("Terminal window demo of the homenet worker framework."),
		framework.WithOutput(stdout, os.Stderr),
	)
	a := &app{f: f}

	if err := f.ParseArguments(args); err != nil {
		f.Logger.Warn("continuing with default arguments", "error", err)
	}

	if err := f.ReadConfiguration(); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := f.ValidateConfiguration(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	sink := newLogSink()
	if err := f.InitLoggerTo(sink); err != nil {
		return fmt.Errorf("initialising logger: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	f.Logger.Info(fmt.Sprintf("Program started, Version %s", version))
	f.Logger.Info("Configuration file: " + f.ConfigurationPath())
	f.InitOutboundConnections(ctx)
	f.LogTargets()
	f.ReadStateFile()

	a.mu.Lock()
	start := f.State.MyProgramState
	a.mu.Unlock()

	p := tea.NewProgram(newModel(ctx, start, a.notify),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(stdin),
		tea.WithOutput(stdout),
	)
	a.send = p.Send
	// Send blocks until the event loop runs.
	go sink.attach(p.Send)

	if err := f.StartBackgroundJob(ctx, a.periodicJob, f.Settings.IntervalInSeconds); err != nil {
		return fmt.Errorf("starting background job: %w", err)
	}

	_, runErr := p.Run()
	sink.detach()

	if err := f.StopBackgroundJob(); err != nil {
		f.Logger.Error("error stopping background job", "error", err)
	}

	a.mu.Lock()
	err := f.SaveStateFile()
	a.mu.Unlock()
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("running window: %w", runErr)
	}

	f.Logger.Info(appName + " stopped")
	return nil
}

// periodicJob increments the counter and pushes it onto the UI loop.
func (a *app) periodicJob(context.Context) error {
	a.mu.Lock()
	a.f.State.MyProgramState++
	n := a.f.State.MyProgramState
	a.mu.Unlock()

	a.f.Logger.Debug(fmt.Sprintf("PeriodicJob %d", n))
	if a.send != nil {
		a.send(counterMsg{value: n})
	}
	return nil
}

// notify forwards a button press to every configured target.
func (a *app) notify(ctx context.Context, name, value string) error {
	return a.f.Notify(ctx, name, value)
}
