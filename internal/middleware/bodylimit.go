package middleware

import (
	"bytes"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/mkarvo/profile-api/internal/apperr"
	applog "github.com/mkarvo/profile-api/internal/platform/logging"
)

// MsgBodyTooLarge is the fixed 413 response detail.
const MsgBodyTooLarge = "Request body too large"

// BodyLimit returns middleware that rejects request bodies above maxBytes
// with 413 before the handler runs.
//
// A declared Content-Length above the ceiling is rejected without reading
// the body at all. Bodies without a trustworthy length (chunked encoding)
// are read incrementally and aborted as soon as the ceiling is crossed, so
// at most maxBytes+1 bytes are ever buffered. Accepted bodies are replayed
// to the handler from the buffer.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				apperr.Write(w, apperr.New(http.StatusRequestEntityTooLarge, MsgBodyTooLarge))
				return
			}
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			body, overflow, err := readCapped(r.Body, maxBytes)
			if err != nil {
				applog.LogWarn(r.Context(), "request body read failed", zap.Error(err))
				apperr.Write(w, apperr.New(http.StatusBadRequest, "Malformed request body"))
				return
			}
			if overflow {
				apperr.Write(w, apperr.New(http.StatusRequestEntityTooLarge, MsgBodyTooLarge))
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			r.ContentLength = int64(len(body))
			next.ServeHTTP(w, r)
		})
	}
}

// readCapped reads at most max bytes from r. overflow reports that the
// source held more than max bytes; reading stops immediately at that point.
func readCapped(r io.Reader, max int64) (body []byte, overflow bool, err error) {
	limited := io.LimitReader(r, max+1)
	buf, err := io.ReadAll(limited)
	if err != nil {
		return nil, false, err
	}
	if int64(len(buf)) > max {
		return nil, true, nil
	}
	return buf, false, nil
}
