// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides the command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/janderssonse/appscout/internal/adapters/itunes"
	"github.com/janderssonse/appscout/internal/adapters/store"
	"github.com/janderssonse/appscout/internal/cli/handlers"
	"github.com/janderssonse/appscout/internal/config"
	"github.com/janderssonse/appscout/internal/console"
	"github.com/janderssonse/appscout/internal/domain"
	"github.com/janderssonse/appscout/internal/i18n"
	"github.com/janderssonse/appscout/internal/logging"
	"github.com/janderssonse/appscout/internal/regions"
	"github.com/janderssonse/appscout/internal/storefront"
	"github.com/janderssonse/appscout/internal/tui"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

// Version is stamped at build time with -ldflags "-X .../internal/cli.Version=v1.2.3".
var Version = "dev" //nolint:gochecknoglobals

const appName = "appscout"

// Launcher starts the interactive interface.
type Launcher func(ctx context.Context, deps tui.Deps) error

// Option customizes a CLI, mostly for tests.
type Option func(*CLI)

// WithOutput sends results to stdout and messages to stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(app *CLI) {
		app.stdout = stdout
		app.out = &console.OutputState{Out: stdout, Err: stderr}
	}
}

// WithPaths overrides the resolved config and state directories.
func WithPaths(paths config.Paths) Option {
	return func(app *CLI) {
		app.paths = &paths
	}
}

// WithSearchService replaces the iTunes client.
func WithSearchService(service domain.SearchService) Option {
	return func(app *CLI) {
		app.service = service
	}
}

// WithAccountStore replaces the file backed account store.
func WithAccountStore(accounts domain.AccountStore) Option {
	return func(app *CLI) {
		app.accounts = accounts
	}
}

// WithSettingsStore replaces the file backed settings store.
func WithSettingsStore(settings domain.SettingsStore) Option {
	return func(app *CLI) {
		app.settingsStore = settings
	}
}

// WithLocale sets the display language used when --locale is absent.
func WithLocale(locale string) Option {
	return func(app *CLI) {
		app.defaultLocale = locale
	}
}

// WithLauncher replaces the interactive interface launcher.
func WithLauncher(launch Launcher) Option {
	return func(app *CLI) {
		app.launch = launch
	}
}

// CLI wires flags, stores and the search client to commands.
type CLI struct {
	app      *cli.Command
	verbose  bool
	json     bool
	quiet    bool
	plain    bool
	color    string        // "auto", "always", "never"
	timeout  time.Duration // Search request timeout, settings value when unset
	locale   string
	logLevel string

	out           *console.OutputState
	stdout        io.Writer
	paths         *config.Paths
	launch        Launcher
	defaultLocale string

	// Resolved in initConfig unless injected.
	service       domain.SearchService
	accounts      domain.AccountStore
	settingsStore domain.SettingsStore

	settings  domain.Settings
	catalog   *storefront.Catalog
	builder   *regions.Builder
	localizer domain.Localizer
	logger    zerolog.Logger
	closer    io.Closer
}

// NewCLI creates the appscout command tree.
func NewCLI(opts ...Option) *CLI {
	app := &CLI{
		out:    console.DefaultOutput,
		launch: tui.LaunchInteractive,
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(app)
	}

	app.app = &cli.Command{
		Name:    appName,
		Usage:   "Search the App Store across the regions of your accounts",
		Version: Version,
		Suggest: true,
		Description: `Searches the App Store by term, region and device.

Without a command, appscout opens the interactive search screen.

QUICK START:
  appscout search --country se shadowgun     Search the Swedish store
  appscout --json search -e ipad maps        Search iPad apps, JSON output
  appscout regions --available               Regions of your accounts
  appscout accounts add --email me@example.com --store 143456

FILES:
  $XDG_CONFIG_HOME/appscout/accounts.toml     Store accounts
  $XDG_CONFIG_HOME/appscout/settings.toml     Search defaults
  $XDG_STATE_HOME/appscout/appscout.log       Log file`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "show progress and debug logs on stderr",
				Aliases:     []string{"v"},
				Destination: &app.verbose,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output structured JSON results",
				Aliases:     []string{"j"},
				Destination: &app.json,
			},
			&cli.BoolFlag{
				Name:        "quiet",
				Usage:       "suppress non-essential output",
				Aliases:     []string{"q"},
				Destination: &app.quiet,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "output tab-separated text for scripts",
				Destination: &app.plain,
			},
			&cli.StringFlag{
				Name:        "color",
				Usage:       "color output mode: auto, always, never",
				Value:       console.ColorAuto,
				Destination: &app.color,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "timeout for search requests (default from settings)",
				Value:       domain.DefaultHTTPTimeout,
				Destination: &app.timeout,
			},
			&cli.StringFlag{
				Name:        "locale",
				Usage:       "display language, e.g. sv-SE (default from settings or $LANG)",
				Destination: &app.locale,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log file level: debug, info, warn, error",
				Sources:     cli.EnvVars("APPSCOUT_LOG_LEVEL"),
				Destination: &app.logLevel,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return app.initConfig(ctx, cmd)
		},
		Action:          app.defaultAction,
		Commands:        app.createCommands(),
		CommandNotFound: app.commandNotFound,
	}

	return app
}

// Run executes the CLI application.
func (app *CLI) Run(ctx context.Context, args []string) error {
	return app.app.Run(ctx, args)
}

// Close releases the log file.
func (app *CLI) Close() error {
	if app.closer == nil {
		return nil
	}

	return app.closer.Close()
}

// Output returns the console used for messages.
func (app *CLI) Output() *console.OutputState {
	return app.out
}

func (app *CLI) createCommands() []*cli.Command {
	return []*cli.Command{
		app.createSearchCommand(),
		app.createRegionsCommand(),
		app.createAccountsCommand(),
		app.createSettingsCommand(),
		app.createTUICommand(),
		app.createVersionCommand(),
	}
}

// initConfig validates global flags and wires stores, logging and the search client.
func (app *CLI) initConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if app.json && app.plain {
		return ctx, domain.NewExitError(domain.ExitUsageError, "cannot use both --json and --plain flags simultaneously", nil)
	}

	switch app.color {
	case console.ColorAuto, console.ColorAlways, console.ColorNever:
	default:
		return ctx, domain.NewExitError(domain.ExitUsageError, "invalid --color value: must be auto, always, or never", nil)
	}

	if app.timeout < 0 {
		return ctx, domain.NewExitError(domain.ExitUsageError, "invalid --timeout value: must not be negative", nil)
	}

	app.out.SetMode(app.verbose, app.json, app.plain, app.quiet, app.color)

	paths := config.Resolve()
	if app.paths != nil {
		paths = *app.paths
	}

	app.initLogging(paths)

	if app.accounts == nil {
		app.accounts = store.NewAccounts(paths.AccountsFile(), paths.LockFile())
	}

	if app.settingsStore == nil {
		app.settingsStore = store.NewSettings(paths.SettingsFile(), paths.LockFile())
	}

	settings, err := app.settingsStore.Load(ctx)
	if err != nil {
		return ctx, domain.NewExitError(domain.ExitConfigError, "Failed to read settings from "+paths.SettingsFile(), err)
	}

	if cmd.IsSet("timeout") {
		settings.HTTPTimeout = app.timeout
	}

	app.settings = settings.WithDefaults()
	app.timeout = app.settings.HTTPTimeout
	app.localizer = i18n.New(firstNonEmpty(app.locale, app.defaultLocale, app.settings.Locale, i18n.EnvironmentLocale()))
	app.catalog = storefront.Default()
	app.builder = regions.NewBuilder(app.catalog)

	if app.service == nil {
		cfg := itunes.DefaultConfig()
		cfg.Timeout = app.settings.HTTPTimeout
		cfg.Logger = app.logger

		client, err := itunes.NewClient(cfg)
		if err != nil {
			return ctx, domain.NewExitError(domain.ExitConfigError, "Failed to configure the search client", err)
		}

		app.service = client
	}

	app.logger.Debug().
		Str("config", paths.ConfigDir).
		Str("locale", app.localizer.Locale()).
		Dur("timeout", app.settings.HTTPTimeout).
		Msg("configuration loaded")

	return ctx, nil
}

// initLogging opens the log file. Failures only cost the file sink.
func (app *CLI) initLogging(paths config.Paths) {
	logFile := paths.LogFile()
	if err := paths.Ensure(); err != nil {
		app.out.Warningf("cannot create %s: %v", paths.StateDir, err)

		logFile = ""
	}

	level := app.logLevel
	if level == "" && app.verbose {
		level = "debug"
	}

	logger, closer, err := logging.New(logging.Options{
		File:    logFile,
		Level:   level,
		Console: app.verbose,
		Stderr:  app.out.Err,
		NoColor: !app.out.ColorEnabled(),
	})
	if err != nil {
		app.out.Warningf("logging to %s disabled: %v", logFile, err)
	}

	app.logger = logger
	app.closer = closer
}

func (app *CLI) base() *handlers.BaseHandler {
	return handlers.NewBaseHandler(app.stdout, app.verbose, app.json, app.quiet, app.plain, app.timeout)
}

// defaultAction opens the interactive interface when no command is given.
func (app *CLI) defaultAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return app.unknownCommand(cmd.Args().First())
	}

	return app.launchTUI(ctx)
}

func (app *CLI) createTUICommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "open the interactive search screen",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return app.launchTUI(ctx)
		},
	}
}

func (app *CLI) launchTUI(ctx context.Context) error {
	err := app.launch(ctx, tui.Deps{
		Service:   app.service,
		Accounts:  app.accounts,
		Settings:  app.settingsStore,
		Builder:   app.builder,
		Localizer: app.localizer,
		Logger:    app.logger,
		Defaults:  app.settings,
	})
	if err == nil {
		return nil
	}

	app.logger.Error().Err(err).Msg("interactive interface failed")

	if errors.Is(err, tui.ErrNoTerminal) {
		return domain.NewExitError(domain.ExitUsageError,
			"Failed to launch interactive interface (terminal required). Run 'appscout --help' for commands", err)
	}

	if app.verbose {
		return domain.NewExitError(domain.ExitGeneralError, fmt.Sprintf("Failed to launch TUI: %v", err), err)
	}

	return domain.NewExitError(domain.ExitGeneralError, "Failed to launch interactive interface", err)
}

func (app *CLI) createSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "search the App Store",
		ArgsUsage: "<term>",
		Description: `Searches one storefront for apps matching term.

Without --country the region of the first account with a known storefront
is used, then the default region from settings.

EXAMPLES:
  appscout search shadowgun
  appscout search --country gb --entity ipad "photo editor"
  appscout --plain search -n 5 maps | cut -f2`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "country",
				Aliases: []string{"c"},
				Usage:   "two letter country or region code",
			},
			&cli.StringFlag{
				Name:    "entity",
				Aliases: []string{"e"},
				Usage:   "device: iPhone or iPad",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   fmt.Sprintf("maximum results, 1 to %d", domain.MaxResultLimit),
			},
		},
		Action: app.handleSearch,
	}
}

func (app *CLI) handleSearch(ctx context.Context, cmd *cli.Command) error {
	term := strings.Join(cmd.Args().Slice(), " ")

	entity := app.settings.DefaultEntity
	if raw := cmd.String("entity"); raw != "" {
		parsed, err := domain.ParseEntity(raw)
		if err != nil {
			return domain.NewExitError(domain.ExitUsageError, "Unknown device: "+raw, err)
		}

		entity = parsed
	}

	limit := app.settings.ResultLimit
	if cmd.IsSet("limit") {
		limit = int(cmd.Int("limit"))
		if limit < 1 || limit > domain.MaxResultLimit {
			return domain.NewExitError(domain.ExitUsageError,
				fmt.Sprintf("invalid --limit value: must be between 1 and %d", domain.MaxResultLimit), nil)
		}
	}

	country := domain.NormalizeCountry(cmd.String("country"))
	if country == "" {
		country = app.initialCountry(ctx)
	}

	handler := &handlers.SearchHandler{
		BaseHandler: app.base(),
		Service:     app.service,
		Catalog:     app.catalog,
		Localizer:   app.localizer,
		Logger:      app.logger,
		Limit:       limit,
	}

	return handler.Execute(ctx, term, country, entity)
}

// initialCountry picks the search region from the accounts, then settings.
func (app *CLI) initialCountry(ctx context.Context) domain.CountryCode {
	accounts, err := app.accounts.Accounts(ctx)
	if err != nil {
		app.logger.Warn().Err(err).Msg("failed to read accounts")
		app.out.Warningf("cannot read accounts, using %s: %v", app.settings.DefaultCountry, err)
	}

	return regions.InitialCountry(accounts, app.catalog, app.settings.DefaultCountry)
}

func (app *CLI) createRegionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "regions",
		Usage: "list countries and regions",
		Description: `Lists the regions of your accounts first, then every supported region,
each sorted by localized name.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "available",
				Aliases: []string{"a"},
				Usage:   "only list regions of your accounts",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			handler := &handlers.RegionsHandler{
				BaseHandler: app.base(),
				Accounts:    app.accounts,
				Builder:     app.builder,
				Localizer:   app.localizer,
			}

			return handler.Execute(ctx, cmd.Bool("available"))
		},
	}
}

func (app *CLI) accountsHandler() *handlers.AccountsHandler {
	return &handlers.AccountsHandler{
		BaseHandler: app.base(),
		Store:       app.accounts,
		Catalog:     app.catalog,
		Localizer:   app.localizer,
	}
}

func (app *CLI) createAccountsCommand() *cli.Command {
	list := func(ctx context.Context, _ *cli.Command) error {
		return app.accountsHandler().List(ctx)
	}

	return &cli.Command{
		Name:   "accounts",
		Usage:  "manage store accounts",
		Action: list,
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list accounts and their regions",
				Action: list,
			},
			{
				Name:  "add",
				Usage: "add an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "account email", Required: true},
					&cli.StringFlag{Name: "name", Usage: "display name"},
					&cli.StringFlag{Name: "store", Usage: "storefront id or country code, e.g. 143456 or se", Required: true},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return app.accountsHandler().Add(ctx, cmd.String("email"), cmd.String("name"), cmd.String("store"))
				},
			},
			{
				Name:      "remove",
				Usage:     "remove an account",
				ArgsUsage: "<email>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "account email"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					email := firstNonEmpty(cmd.String("email"), cmd.Args().First())
					if email == "" {
						return domain.NewExitError(domain.ExitUsageError, "Usage: appscout accounts remove <email>", nil)
					}

					return app.accountsHandler().Remove(ctx, email)
				},
			},
		},
	}
}

func (app *CLI) settingsHandler() *handlers.SettingsHandler {
	return &handlers.SettingsHandler{
		BaseHandler: app.base(),
		Store:       app.settingsStore,
		Catalog:     app.catalog,
		Localizer:   app.localizer,
	}
}

func (app *CLI) createSettingsCommand() *cli.Command {
	show := func(ctx context.Context, _ *cli.Command) error {
		return app.settingsHandler().Show(ctx)
	}

	return &cli.Command{
		Name:   "settings",
		Usage:  "show or change search defaults",
		Action: show,
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "print the effective settings",
				Action: show,
			},
			{
				Name:  "set",
				Usage: "change one or more settings",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "country", Usage: "default country or region code"},
					&cli.StringFlag{Name: "entity", Usage: "default device: iPhone or iPad"},
					&cli.StringFlag{Name: "locale", Usage: "display language, e.g. sv-SE"},
					&cli.IntFlag{Name: "limit", Usage: "default result limit"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return app.settingsHandler().Set(ctx, handlers.SettingsUpdate{
						Country: cmd.String("country"),
						Entity:  cmd.String("entity"),
						Locale:  cmd.String("locale"),
						Limit:   int(cmd.Int("limit")),
					})
				},
			},
		},
	}
}

func (app *CLI) createVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "show version information",
		Action: func(_ context.Context, _ *cli.Command) error {
			app.out.SuccessResult(Version, "")

			return nil
		},
	}
}

// commandNotFound reports unknown help topics.
func (app *CLI) commandNotFound(_ context.Context, _ *cli.Command, command string) {
	app.out.Errorf("'%s' is not a command. Run 'appscout --help' to see available commands.", command)
}

func (app *CLI) unknownCommand(command string) error {
	return domain.NewExitError(domain.ExitUsageError,
		fmt.Sprintf("'%s' is not a command. Run 'appscout --help' to see available commands.", command), nil)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}

	return ""
}
