package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/wayfinder/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of config.toml",
	Long: `Print the JSON schema of the configuration file.

Editors with TOML schema support (taplo, Even Better TOML) can use it for
completion and validation.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		schema, err := config.GenerateSchema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config, data, log and filter cache locations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		cacheDir, err := a.Paths.FilterCacheDir()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		row := func(label, value string) {
			_, _ = fmt.Fprintf(out, "%s %s\n", a.Theme.Subtitle.Render(fmt.Sprintf("%-10s", label)), value)
		}
		row("config", a.Manager.GetConfigFile())
		row("database", a.Config.Database.Path)
		row("logs", a.Config.Logging.LogDir)
		row("filters", cacheDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one configuration key and save the file",
	Long: `Set one configuration key, validate the result and save config.toml.

A running 'wayfinder serve' picks the change up through its file watcher.

Examples:
  wayfinder config set search.offer_suggestions false
  wayfinder config set adblock.regions.9852efc4-99a4-4f2d-a8a6-bcf1c6a2ea55 true`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		if err := a.Manager.Set(args[0], parseValue(args[1])); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), a.Theme.SuccessStyle.Render("saved "+args[0]))
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSchemaCmd, configPathCmd, configSetCmd)
}
