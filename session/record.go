package session

// Record is the cached snapshot of a principal. It deliberately mirrors the
// canonical user document's public fields and nothing else: an earlier
// variant serialized token-signing methods into the cache, which made the
// blob unreadable across deploys. Data only.
type Record struct {
	ID         string   `json:"_id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Role       string   `json:"role"`
	IsVerified bool     `json:"isVerified"`
	Courses    []string `json:"courses"`
	Avatar     Avatar   `json:"avatar"`
}

// Avatar is the profile-picture reference carried on a [Record].
type Avatar struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}
