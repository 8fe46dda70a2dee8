package auth

import (
	"time"

	authlib "example.com/habitkick/pkg/auth"
)

// Issuer signs session tokens with DefaultScopes.
type Issuer struct {
	cfg Config
	ttl time.Duration
	now func() time.Time
}

// NewIssuer constructs an Issuer.
func NewIssuer(cfg Config, ttl time.Duration) *Issuer {
	return &Issuer{cfg: cfg, ttl: ttl, now: time.Now}
}

// IssueToken implements domain.TokenIssuer.
func (i *Issuer) IssueToken(userID, email string) (string, time.Time, error) {
	expiresAt := i.now().UTC().Add(i.ttl).Truncate(time.Second)
	token, err := authlib.Issue(i.cfg, userID, email, DefaultScopes, i.ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}
