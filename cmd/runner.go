package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/starsync/internal/library"
	"github.com/desertthunder/starsync/internal/matching"
	"github.com/desertthunder/starsync/internal/services"
	"github.com/desertthunder/starsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	httpClient *http.Client
	remote     services.RemoteLibrary
	confirm    matching.Confirmer
	readTags   library.TagReader
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Remote, Confirmer and TagReader replace the ones built from config; they exist for tests.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	HTTPClient *http.Client
	Remote     services.RemoteLibrary
	Confirmer  matching.Confirmer
	TagReader  library.TagReader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		httpClient: opts.HTTPClient,
		remote:     opts.Remote,
		confirm:    opts.Confirmer,
		readTags:   opts.TagReader,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		syncCommand, remoteCommand, localCommand, setupCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// prepare loads the config file named by --config and applies the log level.
//
// A missing file is only an error when the flag was given explicitly; otherwise the runner keeps its config.
func (r *Runner) prepare(cmd *cli.Command) error {
	path := r.configPath
	if cmd.IsSet("config") || path == "" {
		path = cmd.String("config")
	}

	if path != "" {
		config, err := shared.LoadConfig(path)
		switch {
		case err == nil:
			r.config = config
			r.configPath = path
		case errors.Is(err, os.ErrNotExist) && !cmd.IsSet("config"):
			r.logger.Debug("no config file, using defaults", "path", path)
		case errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		default:
			return err
		}
	}

	level, err := shared.ParseLogLevel(r.config.Logging.Level)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)
	return nil
}

// remoteLibrary returns the injected remote library or builds the cloud client from config.
func (r *Runner) remoteLibrary(ctx context.Context) services.RemoteLibrary {
	if r.remote != nil {
		return r.remote
	}

	rc := r.config.Remote
	return services.NewCloudLibrary(ctx, services.CloudOpts{
		BaseURL:           rc.BaseURL,
		Token:             rc.Token,
		AuthFile:          rc.AuthFile,
		PageSize:          rc.PageSize,
		RequestsPerSecond: rc.RequestsPerSecond,
		Timeout:           time.Duration(rc.TimeoutSeconds) * time.Second,
		HTTPClient:        r.httpClient,
		Logger:            shared.WithLogger(r.logger, "remote", "cloud"),
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
