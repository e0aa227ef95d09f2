package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempo/internal/auth"
	"github.com/desertthunder/tempo/internal/client"
	"github.com/desertthunder/tempo/internal/shared"
	"github.com/desertthunder/tempo/internal/store"
	"github.com/urfave/cli/v3"
)

// credentialSlot names the store slot holding the Spotify authorization.
const credentialSlot = "spotify"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	db      *sql.DB
	store   *store.CredentialStore
	cache   *store.TrackCache
	manager *auth.Manager
	api     *client.Client
	logger  *log.Logger
	output  io.Writer
	input   io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Manager *auth.Manager
	API     *client.Client
	Logger  *log.Logger
	Output  io.Writer
	Input   io.Reader
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

	return &Runner{
		config:  opts.Config,
		manager: opts.Manager,
		api:     opts.API,
		logger:  opts.Logger,
		output:  opts.Output,
		input:   opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, profileCommand, playlistsCommand, searchCommand, playerCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// openDatabase opens the credential database and its stores. Idempotent.
func (r *Runner) openDatabase() error {
	if r.db != nil {
		return nil
	}

	db, err := shared.NewDatabase(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	credentials, err := store.NewCredentialStore(db, r.logger)
	if err != nil {
		db.Close()
		return err
	}

	cache, err := store.NewTrackCache(db)
	if err != nil {
		db.Close()
		return err
	}

	r.db = db
	r.store = credentials
	r.cache = cache
	return nil
}

// connect restores the stored authorization and builds the API client.
// Commands that talk to the Web API call this first.
func (r *Runner) connect() error {
	if r.api != nil {
		return nil
	}

	if err := r.openDatabase(); err != nil {
		return err
	}

	manager, err := r.store.Restore(credentialSlot, r.logger)
	if err != nil {
		return fmt.Errorf("%w: run 'tempo auth login' first", shared.ErrNotAuthenticated)
	}

	r.manager = manager
	r.api = client.New(manager, r.clientOpts())
	return nil
}

func (r *Runner) clientOpts() client.Opts {
	return client.Opts{
		Logger:    shared.WithLogger(r.logger, "component", "client"),
		RateLimit: r.config.Client.RateLimit,
		Tolerance: clientTolerance(r.config.Client.ToleranceSeconds),
	}
}

// clientTolerance converts the configured refresh-ahead buffer; zero lets the
// client apply its default.
func clientTolerance(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
