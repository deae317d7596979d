package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nerrad567/homenet-framework/internal/infrastructure/config"
	"github.com/nerrad567/homenet-framework/internal/infrastructure/logging"
	"github.com/nerrad567/homenet-framework/internal/outbound"
	"github.com/nerrad567/homenet-framework/internal/scheduler"
)

// Facade is the explicit context object of a worker application.
//
// A is the arguments type (usually a struct embedding Arguments), S the
// settings type (usually embedding config.Targets) and St the state type.
type Facade[A PathProvider, S any, St any] struct {
	// Args is populated by ParseArguments.
	Args A

	// Settings is populated by ReadConfiguration.
	Settings *S

	// State is populated by ReadStateFile and written by SaveStateFile.
	State *St

	// Logger starts as logging.Default and is replaced by InitLogger.
	Logger *logging.Logger

	name        string
	description string
	version     string
	stdout      io.Writer
	stderr      io.Writer
	exit        func(int)
	dialers     map[string]outbound.Dialer

	settings *config.Manager[S]
	registry *prometheus.Registry
	metrics  *outbound.Metrics
	notifier *outbound.Notifier
	runner   *scheduler.Runner
}

// Option customises a Facade.
type Option func(*options)

type options struct {
	description string
	stdout      io.Writer
	stderr      io.Writer
	exit        func(int)
	logger      *logging.Logger
	dialers     map[string]outbound.Dialer
}

// WithDescription sets the text shown at the top of --help.
func WithDescription(desc string) Option {
	return func(o *options) { o.description = desc }
}

// WithOutput redirects help, version and argument errors.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

// WithExit replaces os.Exit for --help and --version.
func WithExit(exit func(int)) Option {
	return func(o *options) { o.exit = exit }
}

// WithLogger sets the logger used before InitLogger.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithDialer replaces how the named target connects. Names are
// TargetHomeAutomation, TargetMQTT and TargetInfluxDB.
func WithDialer(target string, dial outbound.Dialer) Option {
	return func(o *options) { o.dialers[target] = dial }
}

// New returns a Facade for the application name at version.
func New[A PathProvider, S any, St any](name, version string, opts ...Option) *Facade[A, S, St] {
	o := options{
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		exit:    os.Exit,
		dialers: make(map[string]outbound.Dialer),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Default()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Facade[A, S, St]{
		Logger:      o.logger,
		name:        name,
		description: o.description,
		version:     version,
		stdout:      o.stdout,
		stderr:      o.stderr,
		exit:        o.exit,
		dialers:     o.dialers,
		registry:    reg,
		metrics:     outbound.NewMetrics(reg),
		notifier:    outbound.NewNotifier(),
	}
}

// Name returns the application name.
func (f *Facade[A, S, St]) Name() string {
	return f.name
}

// Version returns the application version.
func (f *Facade[A, S, St]) Version() string {
	return f.version
}

// Registry returns the Prometheus registry holding the facade's metrics.
func (f *Facade[A, S, St]) Registry() *prometheus.Registry {
	return f.registry
}

// ReadConfiguration loads the dotenv file (if any) and the settings file.
// Any failure is returned and should end the program.
func (f *Facade[A, S, St]) ReadConfiguration() error {
	paths := f.Args.Paths()

	if err := config.LoadDotEnv(paths.EnvFile); err != nil {
		return err
	}

	f.settings = config.NewManager[S](paths.ConfigFile)
	settings, err := f.settings.Load()
	if err != nil {
		return err
	}
	f.Settings = settings
	return nil
}

// ConfigurationPath returns the absolute path of the settings file.
func (f *Facade[A, S, St]) ConfigurationPath() string {
	if f.settings == nil {
		return f.Args.Paths().ConfigFile
	}
	return f.settings.Path()
}

// ValidateConfiguration checks the settings for missing required values.
func (f *Facade[A, S, St]) ValidateConfiguration() error {
	if f.settings == nil {
		return fmt.Errorf("%w: settings", ErrNotLoaded)
	}
	return f.settings.Validate()
}

// SaveConfiguration writes f.Settings back to the settings file.
func (f *Facade[A, S, St]) SaveConfiguration() error {
	if f.settings == nil || f.Settings == nil {
		return fmt.Errorf("%w: settings", ErrNotLoaded)
	}
	return f.settings.Save(f.Settings)
}

// InitLogger replaces the bootstrap logger with one built from the logging
// config file. A missing or malformed file is returned as an error.
func (f *Facade[A, S, St]) InitLogger() error {
	logger, err := logging.Load(f.Args.Paths().LoggingConfigFile, f.name, f.version)
	if err != nil {
		return err
	}
	_ = f.Logger.Close()
	f.Logger = logger
	return nil
}

// InitLoggerTo is InitLogger for hosts that draw on the terminal themselves.
// Entries the logging config sends to stdout or stderr are written to w;
// file output is kept as configured.
func (f *Facade[A, S, St]) InitLoggerTo(w io.Writer) error {
	cfg, err := logging.LoadConfig(f.Args.Paths().LoggingConfigFile)
	if err != nil {
		return err
	}

	var logger *logging.Logger
	if strings.EqualFold(cfg.Output, "file") {
		logger = logging.New(cfg, f.name, f.version)
	} else {
		logger = logging.NewWithWriter(w, cfg, f.name, f.version)
	}

	_ = f.Logger.Close()
	f.Logger = logger
	return nil
}

// Close stops the background job, closes the outbound connections and the
// log file. It does not save the state file.
func (f *Facade[A, S, St]) Close() error {
	var errs []error
	if err := f.StopBackgroundJob(); err != nil {
		errs = append(errs, err)
	}
	if err := f.notifier.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := f.Logger.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// HealthCheck returns the health of every configured target keyed by target name.
func (f *Facade[A, S, St]) HealthCheck(ctx context.Context) map[string]error {
	return f.notifier.HealthCheck(ctx)
}
