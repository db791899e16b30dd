package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/iammuhammadnoumankhan/talkflow/internal/domain"
	"github.com/iammuhammadnoumankhan/talkflow/internal/transport/ws"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive streaming chat over WebSocket",
		Args:  cobra.NoArgs,
		RunE:  runChatCmd,
	}
	cmd.Flags().String("model", "", "model to chat with")
	cmd.Flags().String("session", "", "session id to continue")
	cmd.Flags().String("system", "", "system prompt sent with every turn")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func runChatCmd(cmd *cobra.Command, _ []string) error {
	model, _ := cmd.Flags().GetString("model")
	sessionID, _ := cmd.Flags().GetString("session")
	system, _ := cmd.Flags().GetString("system")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	chat, err := dialChat(ctx, wsURL(serverURL(cmd)), model, sessionID, system)
	if err != nil {
		return err
	}
	defer chat.Close()

	return chat.repl(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}

// wsURL turns the server base URL into the chat WebSocket URL.
func wsURL(server string) string {
	switch {
	case strings.HasPrefix(server, "https://"):
		server = "wss://" + strings.TrimPrefix(server, "https://")
	case strings.HasPrefix(server, "http://"):
		server = "ws://" + strings.TrimPrefix(server, "http://")
	}
	return server + "/api/chat/ws"
}

// inbound is any message the server sends on the chat socket.
type inbound struct {
	ws.BaseMessage
	Content string `json:"content"`
	Model   string `json:"model"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

var errTurnCancelled = errors.New("turn cancelled")

// chatClient is a WebSocket chat connection.
type chatClient struct {
	conn      *websocket.Conn
	model     string
	sessionID string
	system    string

	inbox   chan inbound
	readErr chan error
	seq     int
}

func dialChat(ctx context.Context, addr, model, sessionID, system string) (*chatClient, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	c := &chatClient{
		conn:      conn,
		model:     model,
		sessionID: sessionID,
		system:    system,
		inbox:     make(chan inbound, 64),
		readErr:   make(chan error, 1),
	}
	go c.readLoop()
	return c, nil
}

// Close closes the client connection.
func (c *chatClient) Close() error {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return c.conn.Close()
}

func (c *chatClient) readLoop() {
	defer close(c.inbox)
	for {
		var msg inbound
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.readErr <- err
			return
		}
		c.inbox <- msg
	}
}

// repl reads one prompt per line until EOF, /quit or ctx is done.
func (c *chatClient) repl(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	if c.sessionID != "" {
		fmt.Fprintln(out, styleDim.Render("Continuing session "+c.sessionID))
	}
	fmt.Fprintln(out, styleDim.Render("Type /quit to exit."))

	for {
		fmt.Fprint(out, stylePrompt.Render("> "))

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == "" {
			continue
		}
		if line == "/quit" {
			return nil
		}

		err := c.turn(ctx, line, out)
		switch {
		case errors.Is(err, errTurnCancelled):
			fmt.Fprintln(out, styleDim.Render("(cancelled)"))
			return nil
		case err != nil:
			var turnErr *chatError
			if errors.As(err, &turnErr) {
				fmt.Fprintln(out, styledError(turnErr.Error()))
				continue
			}
			return err
		}
	}
}

// chatError is a failed turn reported by the server.
type chatError struct {
	Code    string
	Message string
}

func (e *chatError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// turn sends one message and prints the reply as it streams in. Cancelling
// ctx asks the server to abort the turn.
func (c *chatClient) turn(ctx context.Context, message string, out io.Writer) error {
	c.seq++
	requestID := fmt.Sprintf("req_%d", c.seq)

	if err := c.conn.WriteJSON(ws.ChatMessage{
		BaseMessage: ws.BaseMessage{
			Type:      ws.TypeChat,
			Ts:        time.Now().UnixMilli(),
			RequestID: requestID,
			SessionID: c.sessionID,
		},
		Message:      message,
		Model:        c.model,
		SystemPrompt: c.system,
	}); err != nil {
		return fmt.Errorf("write chat: %w", err)
	}

	cancelled := ctx.Done()
	wroteReply := false
	for {
		select {
		case <-cancelled:
			cancelled = nil
			if err := c.conn.WriteJSON(ws.CancelMessage{BaseMessage: ws.BaseMessage{
				Type:      ws.TypeCancel,
				Ts:        time.Now().UnixMilli(),
				RequestID: requestID,
			}}); err != nil {
				return fmt.Errorf("write cancel: %w", err)
			}

		case msg, ok := <-c.inbox:
			if !ok {
				return fmt.Errorf("connection closed: %w", <-c.readErr)
			}
			if msg.RequestID != "" && msg.RequestID != requestID {
				continue
			}
			if msg.SessionID != "" {
				c.sessionID = msg.SessionID
			}

			switch msg.Type {
			case ws.TypeDelta:
				if !wroteReply {
					fmt.Fprint(out, styleAssistant.Render(c.model)+" ")
					wroteReply = true
				}
				fmt.Fprint(out, ansi.Strip(msg.Content))
			case ws.TypeDone:
				fmt.Fprintln(out)
				return nil
			case ws.TypeError:
				if wroteReply {
					fmt.Fprintln(out)
				}
				if msg.Code == domain.ErrorCodeCancelled {
					return errTurnCancelled
				}
				return &chatError{Code: msg.Code, Message: msg.Message}
			}
		}
	}
}
