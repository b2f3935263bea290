package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/travel-together/internal/service"
)

// maxMessageBody bounds the JSON body of a posted chat message.
const maxMessageBody = 64 << 10

// MessageHandler serves the polled JSON chat API. Routes are behind
// auth.RequireAuthAPI, so an anonymous caller gets 401 JSON, not a redirect.
type MessageHandler struct {
	messages *service.MessageService
	logger   *slog.Logger
}

func NewMessageHandler(messages *service.MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, logger: logger}
}

// List returns the trip's messages, oldest first.
//
// HTTP: GET /messages/{tripID}
//
// RESPONSE FORMAT:
//
//	[
//	  {"id":1,"trip_id":3,"sender_id":7,"sender_name":"Ana","content":"hi","sent_at":"..."},
//	  ...
//	]
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(r, "tripID")
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found"})
		return
	}

	msgs, err := h.messages.List(r.Context(), tripID)
	if err != nil {
		h.logger.Error("failed to list messages", slog.Int64("tripID", tripID), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, msgs)
}

// postRequest is the body of POST /messages/{tripID}.
type postRequest struct {
	Content string `json:"content"`
}

// Post appends a message from the current user.
//
// HTTP: POST /messages/{tripID}
// REQUEST BODY: {"content": "see you at the station"}
//
// 201 {"ok":true} on success, 400 {"error":"empty"} for blank content,
// 400 {"error":"invalid_json"} for a body that is not a JSON object.
func (h *MessageHandler) Post(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(r, "tripID")
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found"})
		return
	}

	var req postRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_json"})
		return
	}

	if _, err := h.messages.Post(r.Context(), tripID, currentUser(r).UserID, req.Content); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}
