package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server and Ollama status",
		Args:  cobra.NoArgs,
		RunE:  runHealthCmd,
	}
}

func runHealthCmd(cmd *cobra.Command, _ []string) error {
	client := newAPIClient(serverURL(cmd))
	status, err := client.Health(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	state := styleSuccess.Render(status.Status)
	if status.Status != "healthy" {
		state = styleError.Render(status.Status)
	}
	fmt.Fprintln(out, kvLine("status", state))
	fmt.Fprintln(out, kvLine("ollama", status.Ollama))
	return nil
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models served by Ollama",
		Args:  cobra.NoArgs,
		RunE:  runModelsCmd,
	}
}

func runModelsCmd(cmd *cobra.Command, _ []string) error {
	client := newAPIClient(serverURL(cmd))
	models, err := client.Models(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(models) == 0 {
		fmt.Fprintln(out, styleDim.Render("No models found."))
		return nil
	}

	t := newTable("NAME", "SIZE", "MODIFIED")
	for _, m := range models {
		t.Row(m.Name, formatSize(m.Size), m.ModifiedAt)
	}
	fmt.Fprintln(out, t.Render())
	return nil
}
