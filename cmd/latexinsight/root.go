package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"latex-insight/internal/compiler"
	"latex-insight/internal/config"
	"latex-insight/internal/environment"
	"latex-insight/internal/logger"
	"latex-insight/internal/source"
	"latex-insight/internal/syntax"
	"latex-insight/internal/types"
)

// errFindings makes the process exit non-zero after a command reported
// problems in its input.
var errFindings = errors.New("problems found")

// cli is the state shared by all subcommands of one invocation.
type cli struct {
	configPath string
	logLevel   string
	colorMode  string

	cfg *config.ConfigManager
	pal palette
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "latexinsight",
		Short: "Structural analysis for LaTeX sources",
		Long: `latexinsight resolves environment labels, tracks included packages,
finds characters the compiler cannot typeset and classifies compiler logs.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.json or .toml)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&c.colorMode, "color", "auto", "colorize output (auto|always|never)")

	root.AddCommand(
		newScanCmd(c),
		newFixCmd(c),
		newLabelsCmd(c),
		newPackagesCmd(c),
		newLogCmd(c),
		newEscapeCmd(c),
		newCacheCmd(c),
	)
	return root
}

// setup loads the configuration and installs the logger and palette.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	level, ok := logger.ParseLevel(c.logLevel)
	if !ok {
		return types.NewAppErrorWithDetails(types.ErrInvalidInput, "unknown log level", c.logLevel, nil)
	}
	logger.SetGlobalLogger(logger.NewWriterLogger(cmd.ErrOrStderr(), level))

	cfg, err := config.NewConfigManager(c.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Load(); err != nil {
		return err
	}
	c.cfg = cfg

	if c.logLevel == "" {
		if l, ok := logger.ParseLevel(cfg.GetConfig().LogLevel); ok {
			level = l
		}
	}
	if lc := cfg.LoggerConfig(); lc != nil {
		lc.Level = level
		if err := logger.Init(lc); err != nil {
			return types.NewAppError(types.ErrConfig, "failed to open log file", err)
		}
	} else {
		logger.GetLogger().SetLevel(level)
	}

	pal, err := newPalette(c.colorMode, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	c.pal = pal
	return nil
}

// compilerFlag resolves a --compiler value, falling back to the config.
func (c *cli) compilerFlag(cmd *cobra.Command) (compiler.Mode, error) {
	if cmd.Flags().Changed("compiler") {
		name, _ := cmd.Flags().GetString("compiler")
		return compiler.ParseMode(name)
	}
	return c.cfg.GetCompiler(), nil
}

// resolver returns an environment resolver for doc, backed by the stub cache
// when one is configured.
func (c *cli) resolver(doc *syntax.Document) *environment.Resolver {
	r := environment.NewResolver(c.cfg.ResolverOptions(), nil)
	dir := c.cfg.GetConfig().StubCacheDir
	if dir == "" {
		return r
	}
	cache, err := environment.OpenStubCache(dir)
	if err != nil {
		logger.Warn("stub cache unavailable", logger.String("dir", dir), logger.Err(err))
		return r
	}
	return r.WithStubs(cache.Load(doc, r))
}

func loadDocument(path string) (*source.File, *syntax.Document, error) {
	f, err := source.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Document(), nil
}

// palette colors terminal output.
type palette struct {
	err, warn, ok, dim *color.Color
}

func newPalette(mode string, w io.Writer) (palette, error) {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow),
		ok:   color.New(color.FgGreen),
		dim:  color.New(color.Faint),
	}
	var enabled bool
	switch mode {
	case "always":
		enabled = true
	case "never":
		enabled = false
	case "auto", "":
		enabled = isTerminal(w)
	default:
		return p, types.NewAppErrorWithDetails(types.ErrInvalidInput, "unknown color mode",
			fmt.Sprintf("%q is not one of auto, always, never", mode), nil)
	}
	for _, c := range []*color.Color{p.err, p.warn, p.ok, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
