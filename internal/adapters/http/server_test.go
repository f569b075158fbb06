package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhand-io/deskhand/internal/adapters/memory"
	"github.com/deskhand-io/deskhand/internal/engine"
	"github.com/deskhand-io/deskhand/internal/service"
	"github.com/deskhand-io/deskhand/pkg/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.New(
		engine.New(),
		memory.NewConversationStore(),
		memory.NewTicketStore(),
	)
	handler, err := NewHandler(svc, nil, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func startConversation(t *testing.T, ts *httptest.Server) domain.Conversation {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/conversations", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[domain.Conversation](t, resp)
}

func TestStartAndGetConversation(t *testing.T) {
	ts := newTestServer(t)

	conv := startConversation(t, ts)
	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, domain.StepGreeting, conv.CurrentStep)

	resp, err := http.Get(ts.URL + "/api/conversations/" + conv.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[domain.Conversation](t, resp)
	assert.Equal(t, conv.ID, got.ID)
}

func TestGetConversation_NotFound(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/conversations/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostMessage(t *testing.T) {
	ts := newTestServer(t)
	conv := startConversation(t, ts)

	resp := postJSON(t, fmt.Sprintf("%s/api/conversations/%s/messages", ts.URL, conv.ID), map[string]string{
		"content": "John Smith",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[domain.TurnResult](t, resp)
	assert.Equal(t, domain.StepCollectIssue, result.Conversation.CurrentStep)
	assert.Contains(t, result.Response.Content, "John Smith")
}

func TestPostMessage_BadBody(t *testing.T) {
	ts := newTestServer(t)
	conv := startConversation(t, ts)

	resp, err := http.Post(
		fmt.Sprintf("%s/api/conversations/%s/messages", ts.URL, conv.ID),
		"application/json",
		bytes.NewReader([]byte("{not json")),
	)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFullConversationCreatesTicket(t *testing.T) {
	ts := newTestServer(t)
	conv := startConversation(t, ts)

	inputs := []string{
		"John Smith",
		"my application crashes whenever I try to upload a file",
		"skip",
		"yes",
		"john@example.com",
		"yes",
	}
	var result domain.TurnResult
	for _, input := range inputs {
		resp := postJSON(t, fmt.Sprintf("%s/api/conversations/%s/messages", ts.URL, conv.ID), map[string]string{
			"content": input,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		result = decode[domain.TurnResult](t, resp)
	}

	require.True(t, result.Conversation.IsComplete)
	ticketID := result.Conversation.CreatedTicketID
	require.NotEmpty(t, ticketID)

	resp, err := http.Get(ts.URL + "/api/tickets/" + ticketID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ticket := decode[domain.Ticket](t, resp)
	assert.Equal(t, "John Smith", ticket.CustomerName)

	resp, err = http.Get(ts.URL + "/api/tickets?status=open")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tickets := decode[[]domain.Ticket](t, resp)
	require.Len(t, tickets, 1)
	assert.Equal(t, ticketID, tickets[0].ID)
}

func TestListTickets_Empty(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/tickets")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tickets := decode[[]domain.Ticket](t, resp)
	assert.Empty(t, tickets)
}

func TestListTickets_InvalidLimit(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/tickets?limit=abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetTicket_NotFound(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/tickets/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndDocs(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/openapi.yaml")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/yaml", resp.Header.Get("Content-Type"))

	resp, err = http.Get(ts.URL + "/swagger")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEventsRequireConversationID(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStreamManager(t *testing.T) {
	m := NewStreamManager(nil)
	ctx := context.Background()

	events, cancel := m.Subscribe("conv-1")
	require.Equal(t, 1, m.SubscriberCount("conv-1"))

	require.NoError(t, m.Publish(ctx, "conv-1", domain.Event{Type: domain.EventTyping, ConversationID: "conv-1"}))
	got := <-events
	assert.Equal(t, domain.EventTyping, got.Type)

	// Events for other conversations are not delivered.
	require.NoError(t, m.Publish(ctx, "conv-2", domain.Event{Type: domain.EventTyping, ConversationID: "conv-2"}))
	select {
	case e := <-events:
		t.Fatalf("unexpected event: %v", e.Type)
	default:
	}

	cancel()
	assert.Equal(t, 0, m.SubscriberCount("conv-1"))
	_, ok := <-events
	assert.False(t, ok, "channel should be closed after cancel")
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	m := NewStreamManager(nil)
	ctx := context.Background()

	events, cancel := m.Subscribe("conv-1")
	defer cancel()

	// Fill the buffer and overflow it; Publish must never block.
	for i := 0; i < 32; i++ {
		require.NoError(t, m.Publish(ctx, "conv-1", domain.Event{Type: domain.EventTyping}))
	}
	assert.Equal(t, 16, len(events))
}
