package http

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/marinadb/marina"
)

// PlatformErrorCodeHeader shows the error code of a platform error.
const PlatformErrorCodeHeader = "X-Platform-Error-Code"

// Middleware constructor.
type Middleware func(http.Handler) http.Handler

// API provides a consolidated means for handling API interface concerns.
// Concerns such as decoding/encoding request and response bodies as well
// as adding headers for content type and content encoding.
type API struct {
	log *zap.Logger
}

// APIOptFn is a functional option for the API type.
type APIOptFn func(*API)

// WithLog sets the logger.
func WithLog(log *zap.Logger) APIOptFn {
	return func(a *API) {
		a.log = log
	}
}

// NewAPI creates a new API type.
func NewAPI(opts ...APIOptFn) *API {
	api := &API{
		log: zap.NewNop(),
	}
	for _, o := range opts {
		o(api)
	}
	return api
}

// DecodeJSON decodes reader with json.
func (a *API) DecodeJSON(r io.Reader, v interface{}) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return &marina.Error{
			Code: marina.EInvalid,
			Msg:  "invalid json structure",
			Err:  err,
		}
	}
	return nil
}

// Respond writes to the response writer, handling all errors in writing.
func (a *API) Respond(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	if status == http.StatusNoContent || v == nil {
		w.WriteHeader(status)
		return
	}

	b, err := json.Marshal(v)
	if err != nil {
		a.Err(w, r, &marina.Error{
			Code: marina.EInternal,
			Err:  err,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		a.logErr("failed to write response body", r, err)
	}
}

// Err writes the error to the response writer with the appropriate
// status code and platform error code header.
func (a *API) Err(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	code := marina.ErrorCode(err)
	httpCode, ok := statusCodePlatformError[code]
	if !ok {
		httpCode = http.StatusBadRequest
	}

	if httpCode >= http.StatusInternalServerError {
		a.logErr("api error encountered", r, err)
	}

	w.Header().Set(PlatformErrorCodeHeader, code)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(httpCode)

	var e struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	e.Code = code
	if pe, ok := err.(*marina.Error); ok {
		e.Message = pe.Error()
	} else {
		e.Message = "An internal error has occurred"
	}
	b, _ := json.Marshal(e)
	_, _ = w.Write(b)
}

func (a *API) logErr(msg string, r *http.Request, err error) {
	a.log.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
}

// statusCodePlatformError converts a platform error code to an http status code.
var statusCodePlatformError = map[string]int{
	marina.EInternal:             http.StatusInternalServerError,
	marina.EInvalid:              http.StatusBadRequest,
	marina.EEmptyValue:           http.StatusBadRequest,
	marina.EConflict:             http.StatusForbidden,
	marina.ENotFound:             http.StatusNotFound,
	marina.EForbidden:            http.StatusForbidden,
	marina.EUnauthorized:         http.StatusUnauthorized,
	marina.EMethodNotAllowed:     http.StatusMethodNotAllowed,
	marina.ENotAcceptable:        http.StatusNotAcceptable,
	marina.EUnsupportedMediaType: http.StatusUnsupportedMediaType,
}
