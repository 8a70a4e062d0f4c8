package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"tacticalapi/internal/apperr"
	"tacticalapi/internal/validation"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = apperr.Validation("Request body is required")

type ctxKey int

const exposeErrorsKey ctxKey = iota

// ExposeErrors makes 5xx bodies carry the underlying error text. Development only.
func ExposeErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), exposeErrorsKey, true)))
	})
}

func exposeErrors(ctx context.Context) bool {
	v, _ := ctx.Value(exposeErrorsKey).(bool)
	return v
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

type message struct {
	Message string `json:"message"`
}

type internalError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// InternalError writes the generic 500 body.
func InternalError(w http.ResponseWriter, r *http.Request, cause error) {
	msg := "Something went wrong"
	if cause != nil && exposeErrors(r.Context()) {
		msg = cause.Error()
	}
	respondJSON(w, http.StatusInternalServerError, internalError{Error: "Internal Server Error", Message: msg})
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts an error-returning handler. Classified errors become
// {"message"} bodies with their kind's status; everything else is a logged 500.
func handle(lg *zap.SugaredLogger, fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		e, ok := apperr.As(err)
		if !ok || e.Kind.Status() >= http.StatusInternalServerError {
			lg.Errorw("request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", middleware.GetReqID(r.Context()),
				"error", err,
			)
			InternalError(w, r, err)
			return
		}
		respondJSON(w, e.Kind.Status(), message{Message: e.Message})
	}
}

// decode reads a JSON body into dst and runs struct validation on it.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("Request body is too large")
		}
		return apperr.Wrap(apperr.KindValidation, "Invalid request body", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, "Invalid JSON body", err)
	}
	return validation.Struct(dst)
}

// queryInt parses a positive integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
