package response

import (
	"net/http"
)

// MessageType classifies the severity of a response message
type MessageType string

const (
	MessageInfo    MessageType = "INFO"
	MessageSuccess MessageType = "SUCCESS"
	MessageWarning MessageType = "WARNING"
	MessageError   MessageType = "ERROR"
)

// MetaData carries pagination information alongside listed content
type MetaData struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Size        int `json:"size"`
}

// Response is the uniform envelope returned by every endpoint
type Response struct {
	Content       interface{}       `json:"content,omitempty"`
	Message       string            `json:"message,omitempty"`
	MessageObject map[string]string `json:"messageObject,omitempty"`
	MessageType   MessageType       `json:"messageType,omitempty"`
	RedirectURL   string            `json:"redirectUrl,omitempty"`
	Metadata      *MetaData         `json:"metadata,omitempty"`
	Status        int               `json:"-"`
}

// Error is a business rule violation carrying the response to render.
// Workflows return it instead of leaking transport or database errors.
type Error struct {
	Response Response
}

func (e *Error) Error() string {
	return e.Response.Message
}

// NewError builds a business error with a message, severity and status code
func NewError(message string, messageType MessageType, status int) *Error {
	return &Error{Response: Response{
		Message:     message,
		MessageType: messageType,
		Status:      status,
	}}
}

// AsError extracts the embedded *Error, or wraps an unexpected failure
// into a generic internal error so the boundary always has an envelope.
func AsError(err error) *Error {
	if bizErr, ok := err.(*Error); ok {
		return bizErr
	}
	return NewError("Internal server error", MessageError, http.StatusInternalServerError)
}
