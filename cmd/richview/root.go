// ABOUTME: Root command and configuration loading for the richview CLI
// ABOUTME: Layers .env, environment, config file and flags into pkg/config

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"v2ex-richview/core/interfaces"
	"v2ex-richview/infrastructure/logger/structured"
	"v2ex-richview/pkg/config"
	"v2ex-richview/richview"
)

// app carries the state shared by every subcommand once the root
// command has loaded the configuration
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger interfaces.Logger
}

// newRootCmd builds the command tree.
//
// Configuration precedence, highest first:
//  1. command-line flags
//  2. the --config file
//  3. RICHVIEW_<SECTION>_<OPTION> environment variables
//  4. the plain environment read by config.LoadFromEnv, including .env
func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "richview",
		Short: "Render V2EX topic and reply HTML as Markdown and rich text",
		Long: `richview converts V2EX topic and reply bodies into canonical Markdown,
styled rich text with tappable links, images and @mentions, and a list of
content elements for native compositing.

Quick Start:
  richview render reply.html                 Markdown on stdout
  richview render --format ansi topic.html   Terminal preview
  richview serve                             HTTP preview API
  richview detect snippet.txt                Guess a code language
  richview mentions "ping @livid"            List mentions`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (yaml, toml or json)")
	pf.String("env-file", ".env", "dotenv file loaded before reading the environment")
	pf.StringP("log-level", "l", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (text, json)")
	pf.String("cache-backend", "", "render cache backing store (memory, redis, sqlite, none)")
	pf.String("tag-policy", "", "unsupported tag policy (strict, lenient)")

	a.v.BindPFlag("log.level", pf.Lookup("log-level"))
	a.v.BindPFlag("log.format", pf.Lookup("log-format"))
	a.v.BindPFlag("cache.backend", pf.Lookup("cache-backend"))
	a.v.BindPFlag("render.tag_policy", pf.Lookup("tag-policy"))

	root.AddCommand(
		newRenderCmd(a),
		newServeCmd(a),
		newDetectCmd(),
		newMentionsCmd(),
	)
	return root
}

// load runs before every subcommand
func (a *app) load(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	envFile, _ := flags.GetString("env-file")
	if err := godotenv.Load(envFile); err != nil && flags.Changed("env-file") {
		return fmt.Errorf("load env file %s: %w", envFile, err)
	}

	if path, _ := flags.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
	}
	a.v.SetEnvPrefix("RICHVIEW")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	a.overlay(cfg)

	// One-shot commands keep stderr quiet unless asked otherwise
	if cmd.Name() != "serve" && os.Getenv("LOG_LEVEL") == "" && !a.v.IsSet("log.level") {
		cfg.Log.Level = "warn"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := structured.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// overlay copies every viper-provided value onto cfg
func (a *app) overlay(cfg *config.Config) {
	strs := map[string]*string{
		"log.level":           &cfg.Log.Level,
		"log.format":          &cfg.Log.Format,
		"log.file":            &cfg.Log.File,
		"cache.backend":       &cfg.Cache.Backend,
		"cache.redis.address": &cfg.Cache.Redis.Address,
		"cache.sqlite.path":   &cfg.Cache.SQLite.Path,
		"render.profile":      &cfg.Render.Profile,
		"render.tag_policy":   &cfg.Render.TagPolicy,
		"render.base_url":     &cfg.Render.BaseURL,
		"server.port":         &cfg.Server.Port,
	}
	for key, dst := range strs {
		if a.v.IsSet(key) {
			*dst = a.v.GetString(key)
		}
	}

	ints := map[string]*int{
		"render.workers":    &cfg.Render.Workers,
		"render.queue_size": &cfg.Render.QueueSize,
		"server.rate_limit": &cfg.Server.RateLimit,
		"cache.backing_ttl": &cfg.Cache.BackingTTL,
	}
	for key, dst := range ints {
		if a.v.IsSet(key) {
			*dst = a.v.GetInt(key)
		}
	}
}

// newClient creates a richview client from the loaded configuration
func (a *app) newClient() (*richview.Client, error) {
	return richview.NewClient(
		richview.WithLogger(a.logger),
		richview.WithEnvConfig(a.cfg),
	)
}

// readInput returns the contents of the file named by args[0], or stdin
// when no file (or "-") is given
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
