package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/build"
	"github.com/archway-warp/warp-cli/internal/configure"
	"github.com/archway-warp/warp-cli/internal/deploy"
	"github.com/archway-warp/warp-cli/internal/logger"
	"github.com/archway-warp/warp-cli/internal/node"
	"github.com/archway-warp/warp-cli/internal/scaffold"
	"github.com/archway-warp/warp-cli/internal/testsuite"
	"github.com/archway-warp/warp-cli/internal/ux"
	"github.com/archway-warp/warp-cli/internal/wasm"
)

const appName = "warp"

var (
	logLevel  string
	logFormat string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Scaffold, build, test and deploy CosmWasm workspaces",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		if verbose {
			level = slog.LevelDebug
		}
		logger.Initialize(level, logger.Format(logFormat))

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		root, err := configs.FindProjectRoot(cwd)
		if err != nil {
			if !errors.Is(err, configs.ErrProjectNotFound) {
				return err
			}
			slog.Debug("no Warp project found, using defaults", "cwd", cwd)
			cfg, err := configs.DefaultConfig()
			if err != nil {
				return err
			}
			configs.Values = cfg
			return nil
		}

		cfg, err := configs.Load(viper.GetViper(), root)
		if err != nil {
			const errMsg = "unable to load project config"
			slog.With("err", err.Error()).Error(errMsg)
			return errors.Join(err, errors.New(errMsg))
		}
		configs.Values = cfg
		configs.ProjectRoot = root

		slog.With("root", root, "config", configs.Values).Debug("configuration loaded")
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn or error)")
	flags.StringVar(&logFormat, "log-format", string(logger.FormatJSON), "Log format (text or json)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Shorthand for --log-level debug")
	flags.Bool("exit-zero-on-error", false, "Exit with status 0 even when the command fails")
	if err := viper.BindPFlag("exit_zero_on_error", flags.Lookup("exit-zero-on-error")); err != nil {
		panic(err)
	}
}

func main() {
	rootCmd.AddCommand(scaffold.InitCMD)
	rootCmd.AddCommand(scaffold.NewCMD)
	rootCmd.AddCommand(scaffold.FrontendCMD)
	rootCmd.AddCommand(build.CMD)
	rootCmd.AddCommand(node.CMD)
	rootCmd.AddCommand(testsuite.CMD)
	rootCmd.AddCommand(deploy.CMD)
	rootCmd.AddCommand(wasm.CMD)
	rootCmd.AddCommand(configure.CMD)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	slog.With("err", err.Error()).Debug("command failed")
	ux.Stdout().Error(err)
	if configs.Values.ExitZeroOnError || viper.GetBool("exit_zero_on_error") {
		return
	}
	os.Exit(1)
}
