package main

import (
	"studentdir/internal/config"
	"studentdir/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level":   "log.level",
	"log-format":  "log.format",
	"profile":     "server.profile",
	"address":     "server.address",
	"roster-file": "server.roster_file",
	"out":         "export.path",
	"sort-by":     "export.sort_by",
	"order":       "export.order",
	"format":      "export.format",
}

// session is shared by every subcommand once PersistentPreRunE has run.
type session struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	rt := &session{}

	root := &cobra.Command{
		Use:   "studentdir",
		Short: "Student roster demo services and export tool",
		Long: `studentdir serves small fixed student rosters over HTTP and exports them to files.

  studentdir serve --profile directory   list and look up students, 404 on unknown ids
  studentdir serve --profile lookup      /ping and a lookup answering unknown ids with an error payload
  studentdir serve --profile greeting    /hello and the roster
  studentdir export                      sort the export roster by age into students.json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	root.PersistentFlags().String("log-format", "json", "log format: json or console")

	root.AddCommand(newServeCmd(rt), newExportCmd(rt))
	return root
}

func (rt *session) init(cmd *cobra.Command) error {
	v, err := config.New()
	if err != nil {
		return err
	}

	for name, key := range flagKeys {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return err
			}
		}
	}

	if err := config.ReadFile(v, rt.configPath); err != nil {
		return err
	}

	rt.cfg, err = config.Unmarshal(v)
	if err != nil {
		return err
	}

	rt.logger, err = logging.New(rt.cfg.Log)
	return err
}
