package session

import "strings"

// Credential holds the conferencing access details of one room
type Credential struct {
	URL        string `json:"url"`
	AccessCode string `json:"access_code"`
}

// Credentials maps an upper-cased room name to its conferencing credential
type Credentials map[string]Credential

// CredentialKey returns the map key used for a room name
func CredentialKey(room string) string {
	return strings.ToUpper(strings.TrimSpace(room))
}

// Lookup finds the credential for a room regardless of the room's casing
func (c Credentials) Lookup(room string) (Credential, bool) {
	if c == nil || room == "" {
		return Credential{}, false
	}
	cred, ok := c[CredentialKey(room)]
	return cred, ok
}

// Set stores a credential, overwriting any previous entry for the room
func (c Credentials) Set(room string, cred Credential) {
	c[CredentialKey(room)] = cred
}
