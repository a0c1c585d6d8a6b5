package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var envFile string

// appConfig is loaded once by the root command before any subcommand runs.
var appConfig config.App

var rootCmd = &cobra.Command{
	Use:   "portfolio-backend",
	Short: "REST API for a personal portfolio site",
	Long: `portfolio-backend serves the projects, contact messages and site settings
of a personal portfolio, with a password-protected admin API, media uploads
and contact notifications.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd.Context())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default is ./.env or ../.env)")
}

func initializeConfig(ctx context.Context) error {
	if envFile != "" {
		if !config.LoadDotEnv(envFile) {
			return fmt.Errorf("env file %s could not be loaded", envFile)
		}
	} else {
		config.LoadDotEnv()
	}

	env := config.New()
	setupLogging(env)

	if prefix := config.GetString(env, "SSM_PARAMETER_PATH", ""); prefix != "" {
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		client, err := config.NewSSMClient(ctx, config.GetString(env, "AWS_REGION", ""))
		if err != nil {
			return err
		}
		n, err := config.ApplySSMParameters(ctx, client, prefix, env)
		if err != nil {
			return err
		}
		log.Info().Str("path", prefix).Int("applied", n).Msg("Loaded parameters from SSM")
	}

	appConfig = config.Load(env)
	return nil
}

// setupLogging configures the global zerolog logger from LOG_LEVEL and LOG_FORMAT.
func setupLogging(env map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(env, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(env, "LOG_FORMAT", "console") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}
