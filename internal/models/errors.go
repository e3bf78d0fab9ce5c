package models

import (
	"errors"
	"fmt"
)

// Business conditions. The error text is exactly what the user sees in chat;
// the dispatcher is the only place that converts these into messages.
var (
	// ErrNoMoreBuses means a scheduled service has no upcoming arrival.
	ErrNoMoreBuses = errors.New("No more bus liao :(")

	// ErrNoStopsFound means a stop name/description search yielded nothing.
	ErrNoStopsFound = errors.New("No bus stops found. Try another search query.")

	// ErrNoSearchResults means a service/route lookup yielded nothing.
	ErrNoSearchResults = errors.New("No search results match the query")

	// ErrInvalidCommand means the command word is not recognized.
	ErrInvalidCommand = errors.New("Invalid command 😯")

	// ErrInvalidCallbackData means a callback token matches none of the grammars.
	ErrInvalidCallbackData = errors.New("Invalid callback data")

	// ErrTextOnly means the inbound message carried no usable content.
	ErrTextOnly = errors.New("Sorry, I can only understand text :(")
)

// UpstreamError reports a non-success status from the live arrivals API.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("Error occurred. Response status code: %d", e.StatusCode)
	}
	return "Error occurred."
}
