package framework

import (
	"fmt"

	"github.com/alecthomas/kong"
)

// Arguments holds the command-line options every worker understands.
// Embed it in the application's own arguments struct:
//
//	type Args struct {
//	    framework.Arguments `embed:""`
//	    Metrics string `help:"Serve Prometheus metrics on this address"`
//	}
type Arguments struct {
	ConfigFile        string           `short:"c" name:"config" help:"Configuration file path" default:"appsettings.json"`
	LoggingConfigFile string           `name:"nlogconfig" help:"Logging configuration file path" default:"nlog.config"`
	StateFile         string           `name:"statefile" help:"State file path" default:"state.json"`
	EnvFile           string           `name:"envfile" help:"Optional dotenv file with HOMENET_* variables" default:".env"`
	Version           kong.VersionFlag `name:"version" help:"Show version and exit"`
}

// Paths are the file locations taken from the command line.
type Paths struct {
	ConfigFile        string
	LoggingConfigFile string
	StateFile         string
	EnvFile           string
}

// Paths returns the file locations. Types embedding Arguments inherit it.
func (a Arguments) Paths() Paths {
	return Paths{
		ConfigFile:        a.ConfigFile,
		LoggingConfigFile: a.LoggingConfigFile,
		StateFile:         a.StateFile,
		EnvFile:           a.EnvFile,
	}
}

// PathProvider is the constraint on a facade's arguments type.
type PathProvider interface {
	Paths() Paths
}

// ParseArguments parses args into f.Args.
//
// Defaults come from the struct tags. When args are malformed the error is
// printed to stderr, f.Args is reset to the defaults so the program can
// carry on, and an *ArgumentError is returned. --help and --version print
// and then call the exit function.
func (f *Facade[A, S, St]) ParseArguments(args []string) error {
	parser, err := kong.New(&f.Args,
		kong.Name(f.name),
		kong.Description(f.description),
		kong.Vars{"version": f.name + " " + f.version},
		kong.Writers(f.stdout, f.stderr),
		kong.Exit(f.exit),
	)
	if err != nil {
		return fmt.Errorf("building argument parser: %w", err)
	}

	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintf(f.stderr, "%s: %v\n", f.name, err)

		var zero A
		f.Args = zero
		if derr := kong.ApplyDefaults(&f.Args); derr != nil {
			return fmt.Errorf("applying argument defaults: %w", derr)
		}
		return &ArgumentError{Args: args, Err: err}
	}
	return nil
}
