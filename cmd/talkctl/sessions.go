package main

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Session management commands",
	}

	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionShowCmd())
	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionDeleteCmd())

	return cmd
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all sessions",
		Args:  cobra.NoArgs,
		RunE:  runSessionListCmd,
	}
}

func runSessionListCmd(cmd *cobra.Command, _ []string) error {
	client := newAPIClient(serverURL(cmd))
	list, err := client.ListSessions(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, styleDim.Render("No sessions found."))
		return nil
	}

	t := newTable("SESSION ID", "MODEL", "MESSAGES", "CREATED", "LAST UPDATED")
	for _, s := range list {
		t.Row(s.SessionID, s.Model, fmt.Sprintf("%d", s.MessageCount), formatTime(s.CreatedAt), formatTime(s.LastUpdated))
	}
	fmt.Fprintln(out, t.Render())
	return nil
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session and its history",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionShowCmd,
	}
}

func runSessionShowCmd(cmd *cobra.Command, args []string) error {
	client := newAPIClient(serverURL(cmd))
	session, err := client.GetSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, kvLine("session", session.SessionID))
	fmt.Fprintln(out, kvLine("model", session.Model))
	fmt.Fprintln(out, kvLine("created", formatTime(session.CreatedAt)))
	fmt.Fprintln(out, kvLine("updated", formatTime(session.UpdatedAt)))
	fmt.Fprintln(out)

	for _, msg := range session.Messages {
		label := styleUser.Render(string(msg.Role))
		if msg.Role != "user" {
			label = styleAssistant.Render(string(msg.Role))
		}
		fmt.Fprintf(out, "%s %s\n%s\n\n", label, styleDim.Render(formatTime(msg.Timestamp)), ansi.Strip(msg.Content))
	}
	return nil
}

func newSessionCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty session bound to a model",
		Args:  cobra.NoArgs,
		RunE:  runSessionCreateCmd,
	}
	cmd.Flags().String("model", "", "model to bind the session to")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func runSessionCreateCmd(cmd *cobra.Command, _ []string) error {
	model, _ := cmd.Flags().GetString("model")

	client := newAPIClient(serverURL(cmd))
	created, err := client.CreateSession(cmd.Context(), model)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), created.SessionID)
	return nil
}

func newSessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionDeleteCmd,
	}
}

func runSessionDeleteCmd(cmd *cobra.Command, args []string) error {
	client := newAPIClient(serverURL(cmd))
	if err := client.DeleteSession(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render("Deleted session "+args[0]))
	return nil
}
