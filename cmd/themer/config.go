// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/thatcatcamp/themer/internal/config"
	"github.com/thatcatcamp/themer/internal/logging"
	"github.com/thatcatcamp/themer/internal/themes"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Themer configuration",
	Long:  "View and modify Themer configuration values",
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if !config.IsSet(args[0]) {
			fmt.Fprintf(os.Stderr, "Error: unknown key %s\n", args[0])
			os.Exit(1)
		}

		fmt.Println(config.GetString(args[0]))
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := config.Set(args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Set %s = %s\n", args[0], args[1])
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		for _, line := range flattenSettings("", config.GetAll()) {
			fmt.Println(line)
		}
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

// initConfig initializes the configuration system
func initConfig() error {
	return config.InitConfig(config.DefaultPath())
}

// newLogger builds the logger from the log.* settings
func newLogger() zerolog.Logger {
	return logging.New(config.GetString("log.level"), config.GetString("log.format"), os.Stderr)
}

// loadCatalog returns the embedded catalog, or the one at themes.catalog_path
func loadCatalog() (*themes.Catalog, error) {
	path := config.GetString("themes.catalog_path")
	if path == "" {
		return themes.DefaultCatalog(), nil
	}
	catalog, err := themes.LoadCatalogFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load theme catalog: %w", err)
	}
	return catalog, nil
}

// flattenSettings renders nested settings as sorted "a.b: value" lines
func flattenSettings(prefix string, settings map[string]interface{}) []string {
	var lines []string
	for key, value := range settings {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			lines = append(lines, flattenSettings(full, nested)...)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %v", full, value))
	}
	sort.Strings(lines)
	return lines
}
