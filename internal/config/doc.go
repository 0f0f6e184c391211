// Package config holds the settings every action reads at execution time.
//
// Settings is an immutable snapshot. A Store hands out the current snapshot
// and Configure swaps in a new one built from a Patch, so an execution that
// already read its snapshot is never affected by a later reconfigure.
//
// Merge semantics of a Patch:
//   - Non-zero scalars and sources overwrite
//   - Header, query and map fields merge key by key
//   - Middlewares replace the list when non-nil
//   - ClearToken removes the token source
//
// Env loads a starting point from environment variables, prefixed with
// ACTIONKIT_ (the unprefixed name is accepted as a fallback):
//   - BASE_URL, TOKEN, TOKEN_TYPE
//   - CONNECT_TIMEOUT, REQUEST_TIMEOUT, LIST_FORMAT
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, USER_AGENT, COOKIES
//   - LOG_LEVEL, LOG_DEV
//
// Example Usage:
//
//	env := config.LoadOrDefault()
//	settings, err := env.Settings()
//	store := config.NewStore(settings)
//	store.Configure(config.Patch{Token: config.Static("secret")})
package config
