package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/blog-api/internal/domain"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.TooLarge("Request body too large")
		}
		return domain.Validation("Invalid request body")
	}
	return nil
}
