package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	coursemark "github.com/alnah/go-coursemark"
	"github.com/alnah/go-coursemark/internal/config"
)

// Sentinel errors for CLI option handling.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// stdinArg selects stdin as input and stdout as output.
const stdinArg = "-"

// defaultTimeout applies per file when neither flag nor env sets one.
const defaultTimeout = 30 * time.Second

// settings is the merged view of flags, env vars, and config.
// Priority: CLI flags > env vars > config file > defaults.
type settings struct {
	mode       coursemark.Mode
	style      string
	assetPath  string
	outputDir  string
	standalone bool
	workers    int
	timeout    time.Duration
	cfg        *config.Config
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *cliFlags, env *Environment, logger zerolog.Logger) error {
	for _, name := range warnUnknownEnvVars(env.Environ()) {
		logger.Warn().Str("var", name).Msg("unknown environment variable (typo?)")
	}

	envCfg, err := loadEnvConfig(env.LookupEnv)
	if err != nil {
		return err
	}

	s, err := resolveSettings(flags, envCfg)
	if err != nil {
		return err
	}

	conv, err := coursemark.NewConverter(converterOptions(s, logger)...)
	if err != nil {
		return fmt.Errorf("initializing converter: %w", err)
	}

	if flags.listStyles {
		for _, name := range conv.StyleNames() {
			fmt.Fprintln(env.Stdout, name)
		}
		return nil
	}

	params := &conversionParams{
		mode:       s.mode,
		standalone: s.standalone,
		title:      flags.title,
		timeout:    s.timeout,
	}

	inputs := resolveInputPaths(positionalArgs, s.cfg)
	if len(inputs) == 0 {
		return ErrNoInput
	}

	if len(inputs) == 1 && inputs[0] == stdinArg {
		return convertStream(ctx, conv, env.Stdin, env.Stdout, params)
	}

	outExt := outputExtension(s.mode, s.standalone)
	var files []FileToConvert
	for _, in := range inputs {
		if in == stdinArg {
			return fmt.Errorf("%w: - cannot be combined with other inputs", ErrUsage)
		}
		found, err := discoverFiles(in, s.outputDir, s.mode, outExt)
		if err != nil {
			return fmt.Errorf("discovering files: %w", err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no %s input files found", ErrNoInput, s.mode)
	}

	workers := resolveWorkers(s.workers)
	logger.Debug().Int("workers", workers).Int("files", len(files)).Str("mode", string(s.mode)).Msg("starting conversion")

	results := convertBatch(ctx, conv, files, params, workers, logger)

	failedCount := printResults(results, flags.common.quiet, flags.common.verbose, env, logger)
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}
	return nil
}

// resolveSettings merges flags, env vars, and the config file.
func resolveSettings(flags *cliFlags, envCfg *envConfig) (*settings, error) {
	if err := validateWorkers(flags.workers); err != nil {
		return nil, err
	}

	configName := firstNonEmpty(flags.common.config, envCfg.ConfigPath)
	cfg := config.DefaultConfig()
	if configName != "" {
		loaded, err := config.LoadConfig(configName)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	mode, err := coursemark.ParseMode(firstNonEmpty(flags.mode, envCfg.Mode, cfg.Output.Mode))
	if err != nil {
		return nil, err
	}

	s := &settings{
		mode:       mode,
		style:      firstNonEmpty(flags.assets.style, envCfg.Style, cfg.Output.Style),
		assetPath:  firstNonEmpty(flags.assets.assetPath, cfg.Assets.BasePath),
		outputDir:  firstNonEmpty(flags.output, envCfg.OutputDir, cfg.Output.DefaultDir),
		standalone: cfg.Output.Standalone,
		workers:    envCfg.Workers,
		timeout:    defaultTimeout,
		cfg:        cfg,
	}
	if flags.set["standalone"] {
		s.standalone = flags.standalone
	}
	if flags.workers > 0 {
		s.workers = flags.workers
	}

	if envCfg.Timeout > 0 {
		s.timeout = envCfg.Timeout
	}
	if flags.timeout != "" {
		d, err := parseTimeout(flags.timeout)
		if err != nil {
			return nil, err
		}
		s.timeout = d
	}

	return s, nil
}

// converterOptions builds library options from settings.
func converterOptions(s *settings, logger zerolog.Logger) []coursemark.Option {
	opts := []coursemark.Option{
		coursemark.WithLogger(logger),
		coursemark.WithTimeout(s.timeout),
		coursemark.WithTableMarkers(s.cfg.TableMarkers()...),
		coursemark.WithTableSchemas(s.cfg.TableSchemas()),
	}
	if s.style != "" {
		opts = append(opts, coursemark.WithStyle(s.style))
	}
	if s.assetPath != "" {
		opts = append(opts, coursemark.WithAssetPath(s.assetPath))
	}
	return opts
}

// resolveInputPaths returns positional args, or the configured input directory.
func resolveInputPaths(args []string, cfg *config.Config) []string {
	if len(args) > 0 {
		return args
	}
	if cfg.Input.DefaultDir != "" {
		return []string{cfg.Input.DefaultDir}
	}
	return nil
}

// parseTimeout parses a positive duration such as "30s" or "2m".
func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, s)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
