package client

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/dmitrijs2005/recetario/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// RequestError is returned for every non-2xx answer. Message is what the
// server said, or the caller's default when the body carried nothing usable.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}

// Is lets callers match auth and missing-resource answers with errors.Is.
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case common.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// ParseError is returned by Payload.Decode when the body was not JSON.
type ParseError struct {
	Body string
}

func (e *ParseError) Error() string {
	return "response is not JSON"
}

// messageFields are checked in order when extracting a server message.
var messageFields = []string{"message", "error", "detail", "mensaje"}

const maxTextMessage = 200

// truncateText cuts s to at most n bytes without splitting a rune.
func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func newRequestError(status int, p Payload, defaultMessage string) *RequestError {
	msg := ""

	switch {
	case p.IsText():
		msg = truncateText(p.Text(), maxTextMessage)
	default:
		if obj, ok := p.Value().(map[string]any); ok {
			for _, f := range messageFields {
				if s, ok := obj[f].(string); ok && s != "" {
					msg = s
					break
				}
			}
		}
	}

	if msg == "" {
		msg = defaultMessage
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	return &RequestError{Status: status, Message: msg}
}
