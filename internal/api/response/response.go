// Package response writes the uniform JSON envelope returned by every endpoint.
package response

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/dom/blog-api/internal/domain"
)

type Success struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
}

type Failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, message string, data interface{}) {
	write(w, status, Success{
		Success:    true,
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// Error converts err into an error envelope. Unrecognised errors become a
// generic 500 and their details go to the log only.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	de := domain.AsError(err)
	if de.Kind == domain.KindInternal {
		log.Printf("ERROR [%s %s] %v", r.Method, r.URL.Path, err)
	}
	write(w, de.StatusCode(), Failure{Success: false, Message: de.Message})
}

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ERROR [response.write] failed to encode response: %v", err)
	}
}
