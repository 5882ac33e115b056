package token

import (
	"fmt"

	"github.com/golang-jwt/jwt"
	"github.com/seamshq/go-seams/internal/store"
)

const (
	authUserIDClaim = "auth_user_id"
	sessionIDClaim  = "session_id"
)

// Session is the decoded payload of a bearer token.
type Session struct {
	AuthUserID int
	SessionID  int
}

// Codec issues and validates bearer tokens. A token is valid iff it is
// decodable and the exact signed string is still present in the session
// registry held inside the store snapshot. Revocation is keyed on the
// exact string rather than the decoded identity, so a forged but
// validly-signed payload cannot fake a logged-out state for an
// unrelated token.
type Codec struct {
	secret []byte
	store  *store.Store
}

func NewCodec(secret []byte, st *store.Store) *Codec {
	return &Codec{secret: secret, store: st}
}

// Issue allocates a session id, signs {auth_user_id, session_id} with
// HS256 and registers the resulting string in the session registry.
func (c *Codec) Issue(userID int) (string, error) {
	sessionID := c.store.NextSessionID()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		authUserIDClaim: userID,
		sessionIDClaim:  sessionID,
	})

	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	snap := c.store.Get()
	snap.Tokens = append(snap.Tokens, signed)
	c.store.Set(snap)

	return signed, nil
}

// Decode verifies the signature and structure of a token. Failure here
// means the token is malformed, which is distinct from "not currently
// active".
func (c *Codec) Decode(tokenString string) (Session, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return Session{}, fmt.Errorf("invalid token claims")
	}

	userID, ok := claims[authUserIDClaim].(float64)
	if !ok {
		return Session{}, fmt.Errorf("invalid %s claim", authUserIDClaim)
	}
	sessionID, ok := claims[sessionIDClaim].(float64)
	if !ok {
		return Session{}, fmt.Errorf("invalid %s claim", sessionIDClaim)
	}

	return Session{AuthUserID: int(userID), SessionID: int(sessionID)}, nil
}

// IsActive reports whether the exact token string is registered.
func (c *Codec) IsActive(tokenString string) bool {
	for _, t := range c.store.Get().Tokens {
		if t == tokenString {
			return true
		}
	}
	return false
}

// Revoke removes the exact token string from the registry. Absent
// tokens are ignored; callers that care must check IsActive first.
func (c *Codec) Revoke(tokenString string) {
	snap := c.store.Get()
	for i, t := range snap.Tokens {
		if t == tokenString {
			snap.Tokens = append(snap.Tokens[:i], snap.Tokens[i+1:]...)
			break
		}
	}
	c.store.Set(snap)
}

// RevokeAllForUser removes every registered token whose decoded user id
// matches. Linear in the number of active sessions.
func (c *Codec) RevokeAllForUser(userID int) {
	snap := c.store.Get()
	kept := snap.Tokens[:0]
	for _, t := range snap.Tokens {
		sess, err := c.Decode(t)
		if err == nil && sess.AuthUserID == userID {
			continue
		}
		kept = append(kept, t)
	}
	snap.Tokens = kept
	c.store.Set(snap)
}
