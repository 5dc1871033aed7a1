package web

import (
	"mime"
	"net/http"
)

// attachmentWriter defers the attachment headers until the first byte of a
// successful export arrives, so a failed export can still redirect.
type attachmentWriter struct {
	w        http.ResponseWriter
	filename string
	started  bool
}

func (a *attachmentWriter) Write(p []byte) (int, error) {
	a.start()
	return a.w.Write(p)
}

// finish sends the headers for an empty document.
func (a *attachmentWriter) finish() {
	a.start()
}

func (a *attachmentWriter) start() {
	if a.started {
		return
	}
	a.started = true
	h := a.w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.filename}))
	h.Set("X-Content-Type-Options", "nosniff")
	a.w.WriteHeader(http.StatusOK)
}
