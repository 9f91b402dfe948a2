package stadia

import "errors"

var (
	// ErrAuthenticationRequired is returned when a request ends on the identity
	// provider instead of the requested page. The stored session is stale and
	// the host must run the login directive again.
	ErrAuthenticationRequired = errors.New("stadia: authentication required")

	// ErrNoLastPlayed is returned by OwnedTitles when Options.RequireLastPlayed
	// is set and the home page has no "last played" tile.
	ErrNoLastPlayed = errors.New("stadia: last played title not found")

	// ErrNoStore is returned by PassLoginCredentials when the shim was built
	// without a CredentialStore.
	ErrNoStore = errors.New("stadia: no credential store configured")
)
