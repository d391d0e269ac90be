// Package common contains shared constants and sentinel errors used across
// the recetario client components.
package common

// HTTP header names set on outbound requests.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// Device storage keys. The values are part of the on-device format and must
// not be renamed without a migration.
const (
	KeyLoggedIn        = "session.logged_in"
	KeyToken           = "session.token"
	KeyUserID          = "session.user_id"
	KeyUsername        = "session.username"
	KeyEmail           = "session.email"
	KeyFirstName       = "session.first_name"
	KeyLastName        = "session.last_name"
	KeyIsStudent       = "session.is_student"
	KeyCredentials     = "credentials.saved"
	KeyModifiedRecipes = "recipes.modified"
	KeyDeviceSecret    = "device.secret"
)

// SessionKeys lists every key owned by the session store.
var SessionKeys = []string{
	KeyLoggedIn,
	KeyToken,
	KeyUserID,
	KeyUsername,
	KeyEmail,
	KeyFirstName,
	KeyLastName,
	KeyIsStudent,
}

// MaxModifiedRecipes is the capacity of the local modified-recipes list.
const MaxModifiedRecipes = 10
