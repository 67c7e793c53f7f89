package models

// ProviderOptionsKey is the name under which ProviderOptions are stored
const ProviderOptionsKey = "addic7ed"

// ProviderOptions is the persisted, user-editable provider configuration.
// PasswordHash holds ciphertext once it has been saved through the configuration store.
type ProviderOptions struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

// ProviderIDs represents identifiers the host media library knows for an item
type ProviderIDs struct {
	TVDB string `json:"tvdb,omitempty"`
	IMDB string `json:"imdb,omitempty"`
}
