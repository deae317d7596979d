// homenet-demo - console worker built on the homenet framework
//
// It shows the full lifecycle of a worker: command line, settings, logging,
// outbound targets, state file, a periodic job and an interactive shell
// that sends data-object changes.
//
// Usage:
//
//	homenet-demo -c configs/appsettings.hjson --nlogconfig configs/nlog.config
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nerrad567/homenet-framework/internal/framework"
	"github.com/nerrad567/homenet-framework/internal/infrastructure/config"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0"
var version = "dev"

const appName = "homenet-demo"

// cliArgs are the demo's command-line options.
type cliArgs struct {
	framework.Arguments `embed:""`

	Metrics string `name:"metrics" help:"Serve Prometheus metrics on this address, e.g. :9100"`
	NoShell bool   `name:"no-shell" help:"Skip the interactive shell and run until interrupted"`
}

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

type facade = framework.Facade[cliArgs, settings, programState]

// app holds the facade and the lock shared by the periodic job and the shell.
type app struct {
	f      *facade
	stdout io.Writer

	// mu guards f.State.
	mu sync.Mutex
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
func run(ctx context.Context, args []string, stdin io.ReadCloser, stdout io.Writer) error {
	f := framework.New[cliArgs, settings, programState](appName, version,
		framework.WithDescription("Console demo of the homenet worker framework."),
		framework.WithOutput(stdout, os.Stderr),
	)
	a := &app{f: f, stdout: stdout}

	if err := f.ParseArguments(args); err != nil {
		f.Logger.Warn("continuing with default arguments", "error", err)
	}

	if err := f.ReadConfiguration(); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := f.ValidateConfiguration(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	if err := f.InitLogger(); err != nil {
		return fmt.Errorf("initialising logger: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	f.InitOutboundConnections(ctx)
	a.printGreeting()
	a.healthChecks(ctx)
	f.ReadStateFile()

	if f.Args.Metrics != "" {
		stop := a.serveMetrics(f.Args.Metrics)
		defer stop()
	}

	if err := f.StartBackgroundJob(ctx, a.periodicJob, f.Settings.IntervalInSeconds); err != nil {
		return fmt.Errorf("starting background job: %w", err)
	}

	if f.Args.NoShell {
		f.Logger.Info("running until interrupted")
		<-ctx.Done()
	} else if err := a.shell(ctx, stdin); err != nil {
		f.Logger.Error("shell ended with error", "error", err)
	}

	f.Logger.Info("shutting down")
	if err := f.StopBackgroundJob(); err != nil {
		f.Logger.Error("error stopping background job", "error", err)
	}

	a.mu.Lock()
	err := f.SaveStateFile()
	a.mu.Unlock()
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}

	f.Logger.Info(appName + " stopped")
	return nil
}

// periodicJob is the background worker.
func (a *app) periodicJob(context.Context) error {
	a.mu.Lock()
	a.f.State.MyProgramState++
	n := a.f.State.MyProgramState
	a.mu.Unlock()

	a.f.Logger.Debug(fmt.Sprintf("PeriodicJob %d", n))
	return nil
}

// healthChecks logs the reachability of every configured target.
func (a *app) healthChecks(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for target, err := range a.f.HealthCheck(checkCtx) {
		if err != nil {
			a.f.Logger.Warn("health check failed", "target", target, "error", err)
			continue
		}
		a.f.Logger.Info("health check passed", "target", target)
	}
}

// serveMetrics exposes the facade registry on addr and returns a stop function.
func (a *app) serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.f.Registry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.f.Logger.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.f.Logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			a.f.Logger.Error("error stopping metrics server", "error", err)
		}
	}
}
