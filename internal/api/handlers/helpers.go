package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"ewaste-collection-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeDomainError maps the error taxonomy onto HTTP statuses and keeps the
// failure reason distinguishable by kind.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrAlreadySettled):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrExternal):
		log.Printf("upstream failure: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusBadGateway, "upstream service failure")
	default:
		log.Printf("request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeStrict parses a single JSON object body, rejecting unknown fields
// and trailing content.
func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

// actorFrom reads the pre-authenticated identity forwarded by the session
// layer. The core trusts these headers; it does not authenticate.
func actorFrom(r *http.Request) (domain.Actor, error) {
	id := r.Header.Get("X-Actor-Id")
	if id == "" {
		return domain.Actor{}, errors.New("X-Actor-Id header is required")
	}
	role, err := domain.ParseRole(r.Header.Get("X-Actor-Role"))
	if err != nil {
		return domain.Actor{}, errors.New("X-Actor-Role header is missing or invalid")
	}
	return domain.Actor{ID: id, Role: role}, nil
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}
