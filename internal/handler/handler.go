// Package handler exposes the order manager over HTTP. Handlers stay
// thin: parse, call the service or store, map sentinel errors to status
// codes.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/quanpos/api/internal/service"
	"github.com/quanpos/api/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service and store sentinels to HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrNoPendingOrder):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDishInactive),
		errors.Is(err, service.ErrDiscountConflict),
		errors.Is(err, service.ErrInvalidDiscount),
		errors.Is(err, service.ErrInvalidPayment):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrOrderNotPending), errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// staffName identifies the acting staff member. Authentication is out
// of scope here, the terminal announces who is logged in.
func staffName(r *http.Request) string {
	return r.Header.Get("X-Staff-Name")
}
