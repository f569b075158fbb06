// Package mcp exposes the conversation service as an MCP server so agent
// tooling can drive the support desk.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/deskhand-io/deskhand"
	"github.com/deskhand-io/deskhand/pkg/domain"
	"github.com/deskhand-io/deskhand/pkg/ports"
)

// ConversationService is the application surface exposed over MCP.
type ConversationService interface {
	StartConversation(ctx context.Context) (*domain.Conversation, error)
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)
	HandleUserMessage(ctx context.Context, conversationID, content string) (*domain.TurnResult, error)
	ListTickets(ctx context.Context, filter ports.TicketFilter) ([]*domain.Ticket, error)
}

// TurnResponse is the structured output of the process_turn tool.
type TurnResponse struct {
	Response     domain.Response      `json:"response" jsonschema_description:"The assistant reply for this turn"`
	Conversation *domain.Conversation `json:"conversation" jsonschema_description:"The updated conversation snapshot"`
}

// Server wraps the conversation service and exposes it as an MCP server.
type Server struct {
	service   ConversationService
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server with the deskhand toolset registered.
func NewServer(service ConversationService) *Server {
	s := &Server{
		service:   service,
		mcpServer: server.NewMCPServer("deskhand-mcp", deskhand.Version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_conversation",
		mcp.WithDescription("Start a new support conversation. Returns the conversation ID and opening prompt."),
	)
	s.mcpServer.AddTool(startTool, s.handleStartConversation)

	turnTool := mcp.NewTool("process_turn",
		mcp.WithDescription("Send a user message to a conversation and get the assistant reply."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("The conversation to advance")),
		mcp.WithString("content", mcp.Required(), mcp.Description("The user's message")),
		mcp.WithOutputSchema[TurnResponse](),
	)
	s.mcpServer.AddTool(turnTool, mcp.NewStructuredToolHandler(s.handleProcessTurn))

	getTool := mcp.NewTool("get_conversation",
		mcp.WithDescription("Fetch the current snapshot of a conversation, including the transcript."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("The conversation ID")),
	)
	s.mcpServer.AddTool(getTool, s.handleGetConversation)

	listTool := mcp.NewTool("list_tickets",
		mcp.WithDescription("List support tickets, optionally filtered by status, category, or text query."),
		mcp.WithString("status", mcp.Description("Filter by status: open, in_progress, closed")),
		mcp.WithString("category", mcp.Description("Filter by category, e.g. billing")),
		mcp.WithString("query", mcp.Description("Text search on title and description")),
		mcp.WithString("limit", mcp.Description("Maximum number of tickets to return")),
	)
	s.mcpServer.AddTool(listTool, s.handleListTickets)
}

func (s *Server) handleStartConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conv, err := s.service.StartConversation(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("start conversation failed: %v", err)), nil
	}
	payload, _ := json.Marshal(conv)
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleProcessTurn(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TurnResponse, error) {
	conversationID, _ := args["conversation_id"].(string)
	content, _ := args["content"].(string)
	if conversationID == "" {
		return TurnResponse{}, fmt.Errorf("conversation_id is required")
	}

	result, err := s.service.HandleUserMessage(ctx, conversationID, content)
	if err != nil {
		return TurnResponse{}, fmt.Errorf("process turn failed: %w", err)
	}
	return TurnResponse{
		Response:     result.Response,
		Conversation: result.Conversation,
	}, nil
}

func (s *Server) handleGetConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conversationID := request.GetString("conversation_id", "")
	if conversationID == "" {
		return mcp.NewToolResultError("conversation_id is required"), nil
	}

	conv, err := s.service.GetConversation(ctx, conversationID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get conversation failed: %v", err)), nil
	}
	payload, _ := json.Marshal(conv)
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleListTickets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := ports.TicketFilter{
		Category: domain.Category(request.GetString("category", "")),
		Query:    request.GetString("query", ""),
	}
	if v := request.GetString("status", ""); v != "" {
		status := domain.TicketStatus(v)
		filter.Status = &status
	}
	if v := request.GetString("limit", ""); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return mcp.NewToolResultError("limit must be a non-negative integer"), nil
		}
		filter.Limit = limit
	}

	tickets, err := s.service.ListTickets(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list tickets failed: %v", err)), nil
	}
	if tickets == nil {
		tickets = []*domain.Ticket{}
	}
	payload, _ := json.Marshal(tickets)
	return mcp.NewToolResultText(string(payload)), nil
}
