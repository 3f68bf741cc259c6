package domain

// TokenPair is the credential bundle handed back by login-style flows. The
// refresh token is omitted from flows that only mint a new access token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"` // access token lifetime, seconds
}
