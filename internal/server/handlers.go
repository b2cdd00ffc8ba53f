package server

import (
	"encoding/json"
	"net/http"

	"github.com/canac/mailbox/internal/mailerr"
	"github.com/canac/mailbox/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps a mailerr-classified error onto an HTTP status: validation
// failures are 400, everything else (storage I/O) is 500.
func statusFor(err error) int {
	if mailerr.IsValidation(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func parseFilterFromRequest(r *http.Request) (store.Filter, error) {
	return store.ParseFilter(r.URL.Query())
}

func (s *Server) handleListMailboxes(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilterFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	infos, err := s.store.LoadMailboxes(r.Context(), filter)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilterFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	messages, err := s.store.LoadMessages(r.Context(), filter)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// handleAddMessages accepts either a single NewMessage object or a JSON
// array of NewMessage objects.
func (s *Server) handleAddMessages(w http.ResponseWriter, r *http.Request) {
	body, err := decodeOneOrMany[store.NewMessage](r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	added, err := s.store.AddMessages(r.Context(), body)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleChangeState(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilterFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var payload struct {
		NewState store.State `json:"new_state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	changed, err := s.store.ChangeState(r.Context(), filter, payload.NewState)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, changed)
}

// handleDeleteMessages rejects an unconstrained filter with 400 to prevent
// an accidental full-mailbox wipe from a missing query string.
func (s *Server) handleDeleteMessages(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilterFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.MatchesAll() {
		writeError(w, http.StatusBadRequest, "DELETE /messages requires a non-empty filter")
		return
	}
	deleted, err := s.store.DeleteMessages(r.Context(), filter)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

// decodeOneOrMany decodes r's JSON body as either a bare T or a []T,
// peeking at the first non-whitespace byte to decide which.
func decodeOneOrMany[T any](r *http.Request) ([]T, error) {
	dec := json.NewDecoder(r.Body)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	trimmed := trimLeadingSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []T
		if err := json.Unmarshal(raw, &many); err != nil {
			return nil, err
		}
		return many, nil
	}
	var one T
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}

func trimLeadingSpace(b []byte) []byte {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t' || b[i] == '\n' || b[i] == '\r') {
		i++
	}
	return b[i:]
}
