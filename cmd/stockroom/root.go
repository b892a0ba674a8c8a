package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/TheBitDrifter/stockroom"
)

// app is the state shared by every subcommand once the root pre-run has loaded it.
type app struct {
	settings stockroom.Settings
	logger   zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:           "stockroom",
		Short:         "Run and profile a stockroom entity storage",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.AddCommand(
		newRunCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// load reads an optional .env file, then the STOCKROOM_* environment.
func (a *app) load(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return eris.Wrap(err, "failed to load .env file")
	}
	settings, err := stockroom.LoadSettings()
	if err != nil {
		return err
	}
	a.settings = settings
	a.logger = zerolog.New(cmd.ErrOrStderr()).
		Level(settings.Level()).
		With().
		Timestamp().
		Logger()
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stockroom version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stockroom %s\n", version)
		},
	}
}
