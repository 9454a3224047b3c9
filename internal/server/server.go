package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/mgoltzsche/ai-assistant-chat/internal/request"
	"github.com/mgoltzsche/ai-assistant-chat/internal/session"
)

// DefaultMaxUploadBytes limits the size of a message upload request body.
const DefaultMaxUploadBytes = 32 << 20

// AddRoutes registers the session API.
// When webDir is not empty it is served as static UI.
func AddRoutes(sessions *session.Sessions, webDir string, mux *http.ServeMux) {
	addRoutes(sessions, webDir, DefaultMaxUploadBytes, mux)
}

func addRoutes(sessions *session.Sessions, webDir string, maxUploadBytes int64, mux *http.ServeMux) {
	h := &handlers{
		sessions:       sessions,
		maxUploadBytes: maxUploadBytes,
	}

	if webDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(webDir)))
	}

	mux.HandleFunc("POST /sessions", h.createSession)
	mux.HandleFunc("DELETE /sessions/{sessionId}", h.deleteSession)
	mux.HandleFunc("GET /sessions/{sessionId}/messages", h.listMessages)
	mux.HandleFunc("POST /sessions/{sessionId}/messages", h.sendMessage)
	mux.HandleFunc("GET /sessions/{sessionId}/messages/{index}/audio", h.messageAudio)
	mux.HandleFunc("GET /sessions/{sessionId}/events", h.streamEvents)
}

type handlers struct {
	sessions       *session.Sessions
	maxUploadBytes int64
}

func (h *handlers) createSession(w http.ResponseWriter, req *http.Request) {
	s := h.sessions.Create()

	writeJSON(w, http.StatusCreated, sessionDTO{ID: s.ID})
}

func (h *handlers) deleteSession(w http.ResponseWriter, req *http.Request) {
	if !h.sessions.Delete(req.PathValue("sessionId")) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) listMessages(w http.ResponseWriter, req *http.Request) {
	s, ok := h.sessions.Get(req.PathValue("sessionId"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	msgs := make([]messageDTO, 0, s.Conversation().Len())
	i := 0
	for msg := range s.History() {
		msgs = append(msgs, toMessageDTO(s.ID, i, msg))
		i++
	}

	writeJSON(w, http.StatusOK, messagesDTO{Messages: msgs})
}

func (h *handlers) sendMessage(w http.ResponseWriter, req *http.Request) {
	s, ok := h.sessions.Get(req.PathValue("sessionId"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	req.Body = http.MaxBytesReader(w, req.Body, h.maxUploadBytes)

	err := req.ParseMultipartForm(h.maxUploadBytes)
	if err != nil {
		status := http.StatusBadRequest
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
		}

		http.Error(w, fmt.Sprintf("parse multipart form: %s", err), status)
		return
	}

	audioData, err := readFormFile(req, request.FieldFile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	input, err := request.FromForm(req.FormValue(request.FieldText), audioData)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// The exchange must complete and be recorded even if the client goes away.
	ctx := context.WithoutCancel(req.Context())

	turn, err := s.Send(ctx, req.FormValue(request.FieldUserID), input)
	if err != nil {
		switch {
		case errors.Is(err, request.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, session.ErrSendInProgress):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			slog.Error(fmt.Sprintf("send message: %s", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	appended := turn.Messages()
	msgs := make([]messageDTO, len(appended))
	for i, msg := range appended {
		msgs[i] = toMessageDTO(s.ID, turn.Index+i, msg)
	}

	writeJSON(w, http.StatusOK, messagesDTO{Messages: msgs})
}

func (h *handlers) messageAudio(w http.ResponseWriter, req *http.Request) {
	s, ok := h.sessions.Get(req.PathValue("sessionId"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	index, err := strconv.Atoi(req.PathValue("index"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid message index: %s", err), http.StatusBadRequest)
		return
	}

	msg, ok := s.Conversation().At(index)
	if !ok || len(msg.Audio()) == 0 {
		http.Error(w, "audio message not found", http.StatusNotFound)
		return
	}

	b := msg.Audio()
	header := w.Header()
	header.Set("Content-Type", msg.MIMEType())
	header.Set("Content-Length", strconv.Itoa(len(b)))
	header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)

	_, err = w.Write(b)
	if err != nil {
		slog.Warn(fmt.Sprintf("write audio response: %s", err))
	}
}

func (h *handlers) streamEvents(w http.ResponseWriter, req *http.Request) {
	s, ok := h.sessions.Get(req.PathValue("sessionId"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, req, nil)
	if err != nil {
		slog.Warn(fmt.Sprintf("accept websocket connection: %s", err))
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(req.Context())
	subscription := s.Subscribe(ctx)
	defer subscription.Stop()

	for evt := range subscription.ResultChan() {
		err = wsjson.Write(ctx, conn, toMessageDTO(s.ID, evt.Index, evt.Message))
		if err != nil {
			slog.Debug(fmt.Sprintf("write websocket event: %s", err))
			return
		}
	}

	conn.Close(websocket.StatusNormalClosure, "session ended")
}

func readFormFile(req *http.Request, field string) ([]byte, error) {
	f, _, err := req.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}

		return nil, fmt.Errorf("read form file %s: %w", field, err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", field, err)
	}

	return b, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Warn(fmt.Sprintf("write json response: %s", err))
	}
}
