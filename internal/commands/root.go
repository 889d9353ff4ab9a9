package commands

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-extractor/internal/buildinfo"
	"github.com/insightdelivered/statement-extractor/internal/config"
)

// runtime is the state shared by subcommands once flags are parsed.
type runtime struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log *logrus.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rt := &runtime{}

	rootCmd := &cobra.Command{
		Use:     "statement-extractor",
		Short:   "Extract bank statement transactions into a spreadsheet",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&rt.configPath, "config", "", "path to a statement-extractor YAML config file")
	rootCmd.PersistentFlags().StringVar(&rt.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")

	rootCmd.AddCommand(newConvertCommand(rt))
	rootCmd.AddCommand(newFormatsCommand())
	rootCmd.AddCommand(newServeCommand(rt))
	rootCmd.AddCommand(newInitConfigCommand(rt))

	return rootCmd
}

func (rt *runtime) setup(logOut io.Writer) error {
	cfg := config.Default()
	if rt.configPath != "" {
		loaded, err := config.Load(rt.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	rt.cfg = cfg

	level := cfg.Log.Level
	if rt.logLevel != "" {
		level = rt.logLevel
	}
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	rt.log = logrus.New()
	rt.log.SetOutput(logOut)
	rt.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	rt.log.SetLevel(lvl)
	return nil
}
