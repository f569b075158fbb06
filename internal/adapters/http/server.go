// Package http exposes the conversation service over a REST API with an SSE
// event stream.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deskhand-io/deskhand/internal/logging"
	"github.com/deskhand-io/deskhand/pkg/domain"
	"github.com/deskhand-io/deskhand/pkg/ports"
)

// ConversationService is the application surface the HTTP layer exposes.
type ConversationService interface {
	StartConversation(ctx context.Context) (*domain.Conversation, error)
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)
	HandleUserMessage(ctx context.Context, conversationID, content string) (*domain.TurnResult, error)
	GetTicket(ctx context.Context, id string) (*domain.Ticket, error)
	ListTickets(ctx context.Context, filter ports.TicketFilter) ([]*domain.Ticket, error)
}

// Server routes HTTP requests to the conversation service.
type Server struct {
	service ConversationService
	streams *StreamManager
	logger  *slog.Logger
}

// NewHandler builds the full HTTP handler. The embedded OpenAPI document is
// validated up front; an invalid document is a programming error.
func NewHandler(service ConversationService, streams *StreamManager, logger *slog.Logger) (http.Handler, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if streams == nil {
		streams = NewStreamManager(logger)
	}
	if _, err := loadSpec(context.Background()); err != nil {
		return nil, err
	}

	s := &Server{service: service, streams: streams, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/conversations", s.startConversation)
		r.Get("/conversations/{id}", s.getConversation)
		r.Post("/conversations/{id}/messages", s.postMessage)
		r.Get("/tickets", s.listTickets)
		r.Get("/tickets/{id}", s.getTicket)
		r.Get("/events", s.streamEvents)
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	return r, nil
}

func (s *Server) startConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.service.StartConversation(r.Context())
	if err != nil {
		s.internalError(w, "start conversation", err)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.service.GetConversation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		s.internalError(w, "get conversation", err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

type postMessageRequest struct {
	Content string `json:"content"`
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	var body postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.service.HandleUserMessage(r.Context(), chi.URLParam(r, "id"), body.Content)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		s.internalError(w, "process message", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) listTickets(w http.ResponseWriter, r *http.Request) {
	filter := ports.TicketFilter{
		Category: domain.Category(r.URL.Query().Get("category")),
		Query:    r.URL.Query().Get("q"),
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.TicketStatus(v)
		filter.Status = &status
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	tickets, err := s.service.ListTickets(r.Context(), filter)
	if err != nil {
		s.internalError(w, "list tickets", err)
		return
	}
	if tickets == nil {
		tickets = []*domain.Ticket{}
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := s.service.GetTicket(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrTicketNotFound) {
			writeError(w, http.StatusNotFound, "ticket not found")
			return
		}
		s.internalError(w, "get ticket", err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	conversationID := r.URL.Query().Get("conversation_id")
	if conversationID == "" {
		writeError(w, http.StatusBadRequest, "conversation_id is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := s.streams.Subscribe(conversationID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				s.logger.Warn("skipping unencodable event", "err", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
			flusher.Flush()
		}
	}
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("request failed", "op", op, "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
