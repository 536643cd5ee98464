// Package cmd provides the command-line interface for frame-master with
// configuration support from multiple sources.
//
// Configuration precedence, highest first:
//  1. Command-line flags (--config, --port, ...)
//  2. FRAMEMASTER_CONFIG_FILE environment variable
//  3. Individual environment variables (FRAMEMASTER_SERVER_PORT, ...)
//  4. Configuration file (.framemaster.yml)
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "framemaster",
	Short: "A pluggable resource-transform pipeline for web bundling",
	Long: `frame-master runs project resources through a chain of plugin
transform handlers before they reach the bundler backend. Plugins register
load handlers with a pattern, namespace, and priority; the pipeline decides
per resource which handlers apply and in what order, hands content from one
handler to the next, and applies finalization hooks to the result.

Quick Start:
  framemaster build               Transform the configured roots once
  framemaster serve               Start the development server
  framemaster plugins             Show registered handlers and groups`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .framemaster.yml, can also use FRAMEMASTER_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes viper from flags, environment, and config file.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("FRAMEMASTER_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".framemaster")
	}

	viper.SetEnvPrefix("FRAMEMASTER")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing or malformed config file falls back to defaults.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
