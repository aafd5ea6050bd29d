package api

// Authenticator is implemented by types able to extract principals from
// Authorization headers.
type Authenticator interface {
	UserIDFromAuthHeader(string) (string, error)
}
