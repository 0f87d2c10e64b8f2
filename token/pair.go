package token

// Storage keys for the persisted token pair.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Pair is the bearer token pair returned by the backend's /token/ endpoint.
// Both values are opaque to the store.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
