/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/tblman/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the tblman config file",
	Long: `Create the tblman config file pointing at a table definitions directory.

This command will:
- Write the config file (default ~/.config/tblman/config.yaml)
- Create the definitions directory if it does not exist
- Place the table file catalog next to the config file

Examples:
	  tblman init --definitions ./TableDefinitionDir
	  tblman init --definitions /srv/tables --config ./tblman.yaml --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		defsDir, _ := cmd.Flags().GetString("definitions")
		force, _ := cmd.Flags().GetBool("force")

		cfg, created, err := initConfig(configPath, defsDir, force)
		if err != nil {
			return err
		}
		if !created {
			cmd.Printf("Config already exists. Use --force to overwrite.\n")
			cmd.Printf("Config location: %s\n", configPath)
			return nil
		}

		cmd.Printf("✅ tblman initialized\n")
		cmd.Printf("Config file: %s\n", configPath)
		cmd.Printf("Definitions directory: %s\n", cfg.DefinitionsDir)
		cmd.Printf("Catalog directory: %s\n", cfg.CatalogDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

// initConfig writes a new config file unless one exists and force is false.
func initConfig(configPath, defsDir string, force bool) (*config.Config, bool, error) {
	if configPath == "" {
		return nil, false, fmt.Errorf("no config path")
	}
	if config.ConfigExists(configPath) && !force {
		cfg, err := config.LoadConfig(configPath)
		return cfg, false, err
	}
	cfg, err := config.BootstrapConfig(configPath, defsDir)
	if err != nil {
		return nil, false, err
	}
	if err := os.MkdirAll(cfg.DefinitionsDir, 0750); err != nil {
		return nil, false, fmt.Errorf("failed to create definitions directory: %w", err)
	}
	return cfg, true, nil
}
