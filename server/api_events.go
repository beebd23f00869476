package server

import (
	"net/http"

	"github.com/lazharichir/zigo/domain"
	serverevents "github.com/lazharichir/zigo/server/events"
)

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	defer drainBody(r)
	var req domain.NewEvent
	if err := decodeJSONStrict(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return
	}
	if err := domain.Validation(domain.ValidateNewEvent(req)); err != nil {
		writeError(w, err)
		return
	}

	event, err := s.store.GetEvent(s.store.AddEvent(req))
	if err != nil {
		writeError(w, err)
		return
	}
	s.log.Info().Str("event_id", event.ID).Str("name", event.Name).Msg("event created")
	writeJSON(w, http.StatusCreated, event)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.store.GetEvent(r.PathValue("eventID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	defer drainBody(r)
	var req domain.EventUpdate
	if err := decodeJSONStrict(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return
	}
	if err := domain.Validation(domain.ValidateEventUpdate(req)); err != nil {
		writeError(w, err)
		return
	}

	event, err := s.store.UpdateEvent(r.PathValue("eventID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteEvent(r.PathValue("eventID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEventHistory lists the changes recorded for an event, oldest first
func (s *Server) handleEventHistory(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !s.store.HasEvent(eventID) {
		writeError(w, domain.ErrEventNotFound)
		return
	}

	recorded, err := s.journal.Load(eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	history := make([]serverevents.EventEnvelope, 0, len(recorded))
	for _, event := range recorded {
		env, err := serverevents.Wrap(event)
		if err != nil {
			writeError(w, err)
			return
		}
		history = append(history, env)
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleAddVendor(w http.ResponseWriter, r *http.Request) {
	defer drainBody(r)
	var req domain.NewVendor
	if err := decodeJSONStrict(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return
	}
	if err := domain.Validation(domain.ValidateNewVendor(req)); err != nil {
		writeError(w, err)
		return
	}

	vendor, err := s.store.AddVendorToEvent(r.PathValue("eventID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vendor)
}

func (s *Server) handleRemoveVendor(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveVendorFromEvent(r.PathValue("eventID"), r.PathValue("vendorID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVendorPaymentStatus(w http.ResponseWriter, r *http.Request) {
	defer drainBody(r)
	var req statusRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return
	}
	status, err := domain.ParsePaymentStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.UpdateVendorPaymentStatus(r.PathValue("eventID"), r.PathValue("vendorID"), status); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddGuest(w http.ResponseWriter, r *http.Request) {
	defer drainBody(r)
	var req domain.NewGuest
	if err := decodeJSONStrict(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return
	}
	if err := domain.Validation(domain.ValidateNewGuest(req)); err != nil {
		writeError(w, err)
		return
	}

	guest, err := s.store.AddGuestToEvent(r.PathValue("eventID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, guest)
}

func (s *Server) handleGuestStatus(w http.ResponseWriter, r *http.Request) {
	defer drainBody(r)
	var req statusRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return
	}
	status, err := domain.ParseGuestStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.UpdateGuestStatus(r.PathValue("eventID"), r.PathValue("guestID"), status); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveGuest(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveGuestFromEvent(r.PathValue("eventID"), r.PathValue("guestID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteCategory(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.MarkCategoryCompleted(r.PathValue("eventID"), category); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
