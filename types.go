package authcore

// Principal is the authenticated user's identity and role as resolved for
// the current request. Role is an open set of role names compared by exact,
// case-sensitive equality; the platform ships "user" and "admin" but the
// core does not enumerate them.
//
// Principal instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Principal struct {
	ID         string   `json:"_id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Role       string   `json:"role"`
	IsVerified bool     `json:"isVerified"`
	Courses    []string `json:"courses"`
	Avatar     Avatar   `json:"avatar"`
}

// Avatar is the profile-picture reference carried on a [Principal]. It is
// opaque to the authentication core.
type Avatar struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// TokenPair is the credential pair returned by [Authenticator.IssueSession]
// and [Authenticator.RefreshSession]. After a refresh that did not cross
// the rotation threshold, RefreshToken still holds the caller's original
// refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
