package draft

import (
	"errors"
	"fmt"
)

// User-facing texts.
const (
	PlaceholderText = "Generating draft..."

	MsgEmptyInput  = "Please enter a brief idea for your message."
	MsgEmptyResult = "Could not generate a draft. The response was empty. Please try again."
	msgFailureFmt  = "An error occurred: %s. Please check your connection and try again."
)

var (
	// ErrEmptyInput is returned when the idea is blank. Nothing is sent.
	ErrEmptyInput = errors.New("empty input")
	// ErrEmptyResult is returned when the response carries no draft text.
	ErrEmptyResult = errors.New("empty result")
)

// FailureMessage renders the notification for a transport or decoding error.
func FailureMessage(err error) string {
	return fmt.Sprintf(msgFailureFmt, err.Error())
}
