package httpapi

import (
	"net/http"
	"time"
)

const (
	LogMsgRequest        = "http request"
	LogMsgForbidden      = "forbidden request"
	LogMsgInternalError  = "request failed"
	LogMsgRateLimitError = "rate limiter failed, denying borrow"

	LogAttrMethod     = "method"
	LogAttrPath       = "path"
	LogAttrStatus     = "status"
	LogAttrDurationMS = "duration_ms"
	LogAttrUserID     = "user_id"
	LogAttrRole       = "role"
	LogAttrError      = "error"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.InfoContext(r.Context(), LogMsgRequest,
			LogAttrMethod, r.Method,
			LogAttrPath, r.URL.Path,
			LogAttrStatus, rec.status,
			LogAttrDurationMS, float64(time.Since(start).Microseconds())/1000,
			LogAttrUserID, r.Header.Get(HeaderUserID),
		)
	})
}
