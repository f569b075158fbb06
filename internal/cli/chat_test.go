package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunChat_FullConversation(t *testing.T) {
	input := strings.Join([]string{
		"John Smith",
		"my application crashes whenever I try to upload a file",
		"skip",
		"yes",
		"john@example.com",
		"yes",
	}, "\n") + "\n"

	var out bytes.Buffer
	err := RunChat(context.Background(), ChatOptions{
		In:  strings.NewReader(input),
		Out: &out,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "What's your name?")
	assert.Contains(t, text, "John Smith")
	assert.Contains(t, text, "Your support ticket has been created")
	assert.Contains(t, text, "Ticket ")
	assert.Contains(t, text, "Technical Support")
}

func TestRunChat_ExitCommand(t *testing.T) {
	var out bytes.Buffer
	err := RunChat(context.Background(), ChatOptions{
		In:  strings.NewReader("exit\n"),
		Out: &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunChat_EndOfInput(t *testing.T) {
	var out bytes.Buffer
	err := RunChat(context.Background(), ChatOptions{
		In:  strings.NewReader("Ana\n"),
		Out: &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Ana")
}
