// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the wellness-chat CLI: an interactive
// women's-health assistant backed by web search and PubMed literature
// retrieval, plus direct access to each tool.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wellness-chat/internal/config"
	"github.com/pdiddy/wellness-chat/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets resolves API keys from the environment, .env and .secrets/.
var loadedSecrets secrets.Store

// logger is configured from --log-level before any command runs.
var logger = slog.Default()

// rootCmd is the base command for the wellness-chat CLI.
var rootCmd = &cobra.Command{
	Use:   "wellness-chat",
	Short: "Women's health assistant with cited web and PubMed sources",
	Long: `wellness-chat answers women's health and wellness questions with a language
model that can search the web and the PubMed literature. Answers end with a
numbered list of sources, and each answer comes with suggested follow-up
questions.

Use "chat" for an interactive session or "ask" for a single question. The
"pubmed" and "web" subcommands run one search tool directly, and "mcp" serves
both tools to other assistants over the Model Context Protocol.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		logger = newLogger(level)
		slog.SetDefault(logger)

		dir, _ := cmd.Flags().GetString("secrets-dir")
		files, err := secrets.Load(dir)
		if err != nil {
			return err
		}
		envFile, _ := cmd.Flags().GetString("env-file")
		dotenv, err := secrets.LoadDotEnv(envFile)
		if err != nil {
			return err
		}
		loadedSecrets = secrets.Store{Files: files, DotEnv: dotenv}
		if names := loadedSecrets.Names(); len(names) > 0 {
			logger.Debug("loaded secrets", "names", names)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./wellness-chat.yaml or ~/.config/wellness-chat/wellness-chat.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of API key files")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file with API keys")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("wellness-chat")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wellness-chat"))
		}
	}

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
