// Automaton - hardware fleet orchestrator
//
// This is the main entry point for the automaton daemon. It loads a YAML
// configuration describing robots, their connections and devices, assembles
// them through the platform registry, and runs the fleet until a shutdown
// signal arrives.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Default configuration file path, overridable with --config or
// the AUTOMATON_CONFIG environment variable.
const defaultConfigPath = "configs/config.yaml"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "automaton",
	Short: "Run a fleet of hardware-facing robots",
	Long: `Automaton orchestrates the lifecycle of robots: named collections of
connections (adaptors to hardware or transports) and devices (drivers
bound to those connections). Connections come up first, then devices,
and halting tears everything down best-effort in reverse.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the fleet and run until interrupted",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return run(ctx)
	},
}

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// getConfigPath resolves the configuration file path: flag, then
// environment, then default.
func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("AUTOMATON_CONFIG"); env != "" {
		return env
	}
	return defaultConfigPath
}
