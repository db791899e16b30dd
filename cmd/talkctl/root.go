package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8000"

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styledError(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "talkctl",
		Short:         "talkflow command-line client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("server", envOr("TALKFLOW_SERVER", defaultServer), "talkflow server base URL")

	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newSessionsCmd())
	rootCmd.AddCommand(newChatCmd())

	return rootCmd
}

func serverURL(cmd *cobra.Command) string {
	server, _ := cmd.Flags().GetString("server")
	return strings.TrimRight(server, "/")
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
