package handle

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/core/myerrors"
)

const (
	WaitTime = 10

	maxBodyBytes = 1 << 20
)

// jsonResponse writes the given data as a JSON-encoded HTTP response with the status code.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// JsonError writes an error response as JSON with the specified HTTP status code.
func JsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

// StatusOf maps an error to its HTTP status by its myerrors kind.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, myerrors.ErrRideAlreadyClaimed):
		return http.StatusBadRequest
	case errors.Is(err, myerrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, myerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, myerrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, myerrors.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status of err. Internal failures are logged
// and their details are not sent to the client.
func writeError(w http.ResponseWriter, log mylogger.Logger, err error) {
	code := StatusOf(err)
	if code == http.StatusInternalServerError {
		log.Error("request failed", err)
		JsonError(w, code, myerrors.ErrDBConnClosedMsg)
		return
	}
	JsonError(w, code, err)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return myerrors.Validation(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

func pathId(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, myerrors.Validation(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

func queryId(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, myerrors.Validation(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}
