package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// FallbackMessage is surfaced when neither the server nor the transport
// produced a usable message.
const FallbackMessage = "request failed"

// maxErrorBody bounds how much of an error response body is retained.
const maxErrorBody = 64 << 10

// ErrNetwork is the designated network-error code. Round-trippers and test
// doubles may return it to mark a failure as transient.
var ErrNetwork = errors.New("network error")

// serverMessage is the error body shape the costume API returns.
type serverMessage struct {
	Message string `json:"message"`
}

// Error is the normalized failure of one call. StatusCode is zero when no
// HTTP response was received, in which case Err holds the transport error.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Message    string // Server-provided message, if any.
	Body       []byte
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
}

// Unwrap returns the underlying transport error.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the response status code, or 0 when none was received.
func (e *Error) HTTPStatus() int {
	return e.StatusCode
}

func newStatusError(req Request, status int, body []byte, parsed *serverMessage) *Error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	msg := ""
	if parsed != nil {
		msg = parsed.Message
	}
	if msg == "" && len(body) > 0 {
		var sm serverMessage
		if json.Unmarshal(body, &sm) == nil {
			msg = sm.Message
		}
	}

	return &Error{
		Method:     req.Method,
		Path:       req.Path,
		StatusCode: status,
		Message:    strings.TrimSpace(msg),
		Body:       body,
	}
}

// UserMessage resolves the human-readable text for a failure, in priority
// order: server-provided message, transport-level message, FallbackMessage.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		if e.StatusCode != 0 {
			return fmt.Sprintf("request failed with status code %d", e.StatusCode)
		}
		if e.Err != nil && e.Err.Error() != "" {
			return transportMessage(e.Err)
		}
		return FallbackMessage
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}

// transportMessage strips the "Get \"url\": " prefix net/http puts on
// transport errors; the user already knows which page they were on.
func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}

// IsTransient reports whether err looks like a network condition worth
// retrying: no response was received because the connection failed, was
// aborted, timed out, or the designated ErrNetwork code was returned.
// Errors carrying an HTTP response and caller cancellations are never transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var e *Error
	if errors.As(err, &e) && e.StatusCode != 0 {
		return false
	}

	if errors.Is(err, ErrNetwork) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// net/http wraps every round-trip failure in *url.Error.
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
