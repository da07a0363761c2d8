package middleware

import (
	"bytes"
	"net/http"
)

// responseRecorder tracks the status written downstream and, when keepBody is set, a copy of
// the body.
type responseRecorder struct {
	http.ResponseWriter
	body     bytes.Buffer
	status   int
	keepBody bool
}

func newResponseRecorder(w http.ResponseWriter, keepBody bool) *responseRecorder {
	return &responseRecorder{ResponseWriter: w, status: http.StatusOK, keepBody: keepBody}
}

func (rr *responseRecorder) WriteHeader(code int) {
	rr.status = code
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	if rr.keepBody {
		rr.body.Write(b)
	}
	return rr.ResponseWriter.Write(b)
}

func (rr *responseRecorder) Unwrap() http.ResponseWriter {
	return rr.ResponseWriter
}
