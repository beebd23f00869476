package server

import (
	"net/http"

	"github.com/lazharichir/zigo/chat"
	"github.com/lazharichir/zigo/domain"
)

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	conv := chat.ConversationID{EventID: r.PathValue("eventID"), Vendor: r.PathValue("vendor")}
	if !s.store.HasEvent(conv.EventID) {
		writeError(w, domain.ErrEventNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.chat.Messages(conv))
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	defer drainBody(r)
	var req sendMessageRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return
	}

	msg, err := s.chat.Send(r.PathValue("eventID"), r.PathValue("vendor"), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
