package server

import (
	"encoding/json"
	"errors"
	"net/http"

	bserrors "github.com/matzehuels/baseline/pkg/errors"
)

// maxBodyBytes leaves room for the JSON envelope around a maximal source.
const maxBodyBytes = bserrors.MaxSourceBytes + 64<<10

type errorBody struct {
	Code      bserrors.Code `json:"code"`
	Message   string        `json:"message"`
	RequestID string        `json:"request_id,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := bserrors.HTTPStatus(err)
	code := bserrors.GetCode(err)
	msg := bserrors.UserMessage(err)
	if code == "" {
		code = bserrors.ErrCodeInternal
		msg = "internal error"
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "id", requestIDFrom(r.Context()))
	}
	s.writeJSON(w, status, errorBody{Code: code, Message: msg, RequestID: requestIDFrom(r.Context())})
}

// decode reads a JSON body into v, bounded by maxBodyBytes.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return bserrors.New(bserrors.ErrCodeSourceTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return bserrors.Wrap(bserrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
