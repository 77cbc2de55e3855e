// Package domain defines domain-level errors for the charts feature.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors for chart building.
// Upper layers map them to user-facing messages and HTTP status codes.
var (
	// ErrSymbolNotFound indicates the provider does not know the ticker.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrNoData indicates the provider returned zero bars for the requested window.
	ErrNoData = errors.New("no price data returned")

	// ErrProviderUnavailable indicates the provider could not be reached or failed server-side.
	ErrProviderUnavailable = errors.New("market data provider unavailable")

	// ErrInvalidSymbol indicates the ticker is empty or contains characters no provider accepts.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrInvalidRequest indicates an unknown period or indicator name.
	ErrInvalidRequest = errors.New("invalid chart request")
)

// FetchError reports a failed market-data fetch for one chart request.
// It always carries a human-readable cause and unwraps to the underlying error.
type FetchError struct {
	Symbol string
	Period string
	Cause  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s (%s): %v", e.Symbol, e.Period, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// Message returns the text shown to the user.
func (e *FetchError) Message() string {
	switch {
	case errors.Is(e.Cause, ErrInvalidSymbol) && e.Symbol == "":
		return "Please enter a ticker."
	case errors.Is(e.Cause, ErrSymbolNotFound), errors.Is(e.Cause, ErrNoData), errors.Is(e.Cause, ErrInvalidSymbol):
		return fmt.Sprintf("Could not load data for ticker %s. Please check the ticker.", e.Symbol)
	case errors.Is(e.Cause, ErrProviderUnavailable):
		return "The market data provider is unavailable. Please try again later."
	default:
		return fmt.Sprintf("An error occurred: %v", e.Cause)
	}
}
