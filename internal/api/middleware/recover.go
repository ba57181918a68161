package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/dom/blog-api/internal/api/response"
	"github.com/dom/blog-api/internal/domain"
)

// Recoverer turns a panic into the internal error envelope and logs the stack.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			log.Printf("ERROR [middleware.Recoverer] panic: %v\n%s", rvr, debug.Stack())
			response.Error(w, r, domain.Internal(fmt.Errorf("panic: %v", rvr)))
		}()
		next.ServeHTTP(w, r)
	})
}
