package token

// TokenProvider is a generic interface for a service that provides the
// bearer token sent with each request.
type TokenProvider interface {

	// Retrieves the current token at the time - this may return a fixed
	// or cached value. An empty token means no Authorization header is
	// sent.
	Token() string
}
