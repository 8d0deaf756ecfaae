/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/tblman/pkg/config"
	"github.com/ssargent/tblman/pkg/di"
	"github.com/ssargent/tblman/pkg/logging"
)

var container *di.Container

// SetContainer sets the dependency injection container
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tblman",
	Short: "tblman - binary table file editor",
	Long: `tblman creates, inspects and edits binary table files described by
JSON table definitions.

A table file is a 116-byte header followed by a payload whose layout comes
from the definition named in the header. Definitions are read from the
definitions directory set in the config file or with --definitions.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: configure,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cmdFailedf(rootCmd, "%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.GetDefaultConfigPath(), "Path to config file")
	rootCmd.PersistentFlags().String("definitions", "", "Table definitions directory (overrides config)")
	rootCmd.PersistentFlags().Bool("little-endian", false, "Read and write little-endian table files (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

// configure loads the config file, applies flag overrides and installs the
// result in the container.
func configure(cmd *cobra.Command, _ []string) error {
	if container == nil {
		return fmt.Errorf("dependency container not initialized")
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg := config.DefaultConfig()
	if configPath != "" && config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if defs, _ := cmd.Flags().GetString("definitions"); defs != "" {
		cfg.DefinitionsDir = defs
	}
	if cmd.Flags().Changed("little-endian") {
		little, _ := cmd.Flags().GetBool("little-endian")
		cfg.Convention.BigEndian = !little
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	logger, err := logging.New(os.Stderr, cfg.Logging.Level)
	if err != nil {
		return err
	}
	container.SetConfig(cfg)
	container.SetLogger(logger)
	return nil
}

func byteOrder() binary.ByteOrder {
	return container.GetConfig().ByteOrder()
}
