// Package cmd implements the virtualsim commands.
//
// The root command loads virtualsim.yaml, applies VIRTUALSIM_* environment
// and flag overrides, and sets up logging before dispatching to run, html
// or config.
package cmd

import (
	"github.com/go-drift/virtualcontent/cmd/virtualsim/internal/config"
	"github.com/go-drift/virtualcontent/pkg/errors"
	"github.com/go-drift/virtualcontent/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// state is shared by the root command and its subcommands.
type state struct {
	configFile string
	viper      *viper.Viper
	cfg        *config.Config
	log        *zap.Logger
}

// flagKeys maps flag names to the config keys they override. A key is
// only overridden when its flag is given.
var flagKeys = map[string]string{
	"log-level":       "logging.level",
	"log-format":      "logging.format",
	"viewport-height": "viewport.height",
	"viewport-width":  "viewport.width",
	"mode":            "simulation.mode",
	"items":           "simulation.items",
	"item-height":     "simulation.item_height",
	"seed":            "simulation.seed",
	"chunk":           "simulation.chunk",
	"scroll":          "simulation.scroll",
}

// NewRootCommand returns a fresh command tree.
func NewRootCommand() *cobra.Command {
	s := &state{viper: config.NewViper()}

	root := &cobra.Command{
		Use:   "virtualsim",
		Short: "Simulate virtualized scrolling over long documents",
		Long: `virtualsim drives the virtual content engine against a headless
document. Items outside the viewport are taken out of layout while the
scroll height stays estimated, so very long documents stay cheap to lay out.

Configuration is read from ./virtualsim.yaml (or --config) and can be
overridden with VIRTUALSIM_* environment variables and flags.`,
		Version:       Version + " (built " + BuildTime + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&s.configFile, "config", "c", "", "config file (default is ./"+config.FileName+")")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: console or json")
	flags.Float64("viewport-height", 0, "viewport height in pixels")
	flags.Float64("viewport-width", 0, "viewport width in pixels")

	root.AddCommand(newRunCommand(s), newHTMLCommand(s), newConfigCommand(s))
	return root
}

// load resolves the configuration and initializes logging.
func (s *state) load(cmd *cobra.Command) error {
	// Bound here so that commands sharing a flag name each bind their own.
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = s.viper.BindPFlag(key, f)
		}
	})

	var err error
	if s.configFile != "" {
		s.cfg, err = config.Load(s.configFile)
	} else {
		s.cfg, err = config.LoadOptional(".")
	}
	if err != nil {
		return err
	}
	if err := s.cfg.ApplyOverrides(s.viper); err != nil {
		return err
	}
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	s.log = logging.Initialize(s.cfg.Logging, zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())))
	errors.SetHandler(&errors.LogHandler{Logger: s.log, Verbose: s.cfg.Logging.Level == "debug"})
	s.log.Debug("configuration loaded",
		zap.String("version", s.cfg.Version),
		zap.String("config", s.configFile),
	)
	return nil
}

// Execute runs the command tree with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}
