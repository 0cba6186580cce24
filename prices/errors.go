package prices

import "errors"

var (
	// ErrSymbolNotFound means the provider has no quote for the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrRateLimited means the provider refused the call for quota reasons.
	ErrRateLimited = errors.New("price provider rate limited")
	// ErrUnreachable means the provider could not be reached at all.
	ErrUnreachable = errors.New("price provider unreachable")
	// ErrMalformedQuote means the provider answered with an unusable payload.
	ErrMalformedQuote = errors.New("malformed quote payload")
)
