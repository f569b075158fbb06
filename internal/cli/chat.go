// Package cli implements the interactive chat session behind the chat
// command.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/deskhand-io/deskhand"
	"github.com/deskhand-io/deskhand/internal/logging"
	"github.com/deskhand-io/deskhand/internal/presentation/tui"
	"github.com/deskhand-io/deskhand/pkg/domain"
)

// ChatOptions configures an interactive chat session.
type ChatOptions struct {
	In       io.Reader
	Out      io.Writer
	Debug    bool
	LogLevel string
	// Plain disables the banner and markdown rendering. It is forced on when
	// stdout is not a terminal.
	Plain bool
}

// RunChat drives a complete conversation on stdin/stdout and prints the
// resulting ticket. It returns once the conversation completes or input ends.
func RunChat(ctx context.Context, opts ChatOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if !opts.Plain {
		f, ok := opts.Out.(*os.File)
		if !ok || !term.IsTerminal(int(f.Fd())) {
			opts.Plain = true
		}
	}

	render := func(markdown string) string { return markdown }
	if !opts.Plain {
		tui.PrintBanner(deskhand.Version)
		render = tui.NewRenderer()
	}

	level := opts.LogLevel
	if opts.Debug {
		level = "debug"
	}
	logger := logging.NewNop()
	if opts.Debug {
		logger = logging.New(logging.ParseLevel(level))
	}

	desk := deskhand.New(deskhand.WithLogger(logger))

	conv, err := desk.StartConversation(ctx)
	if err != nil {
		return fmt.Errorf("start conversation: %w", err)
	}

	fmt.Fprint(opts.Out, render(greetingFor(conv)))
	fmt.Fprintln(opts.Out)

	scanner := bufio.NewScanner(opts.In)
	for {
		fmt.Fprint(opts.Out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(opts.Out, "\nBye!")
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "exit" || input == "quit" {
			fmt.Fprintln(opts.Out, "Bye!")
			return nil
		}
		if input == "" {
			continue
		}

		result, err := desk.HandleUserMessage(ctx, conv.ID, input)
		if err != nil {
			return fmt.Errorf("process turn: %w", err)
		}

		fmt.Fprint(opts.Out, render(result.Response.Content))
		fmt.Fprintln(opts.Out)

		if result.Conversation.IsComplete {
			printTicket(ctx, opts.Out, render, desk, result.Conversation)
			return nil
		}
	}
}

func greetingFor(conv *domain.Conversation) string {
	// A fresh conversation has no messages yet; open with the greeting the
	// engine would produce.
	if len(conv.Messages) > 0 {
		return conv.Messages[len(conv.Messages)-1].Content
	}
	return "Hi! I'm here to help you create a support ticket. What's your name?"
}

func printTicket(ctx context.Context, out io.Writer, render func(string) string, desk *deskhand.Desk, conv *domain.Conversation) {
	if conv.CreatedTicketID == "" {
		return
	}
	ticket, err := desk.GetTicket(ctx, conv.CreatedTicketID)
	if err != nil {
		return
	}

	var b strings.Builder
	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "**Ticket %s**\n\n", ticket.ID)
	fmt.Fprintf(&b, "- **Title:** %s\n", ticket.Title)
	fmt.Fprintf(&b, "- **Category:** %s\n", ticket.Category.DisplayName())
	fmt.Fprintf(&b, "- **Status:** %s\n", ticket.Status)
	fmt.Fprint(out, render(b.String()))
	fmt.Fprintln(out)
}
