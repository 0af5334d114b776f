package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/formrelay/internal/intake"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeResult(w http.ResponseWriter, res intake.Result) {
	writeJSON(w, res.Status, res.Body)
}
