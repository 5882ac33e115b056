package seams

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/seamshq/go-seams/internal/store"
	"github.com/teris-io/shortid"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}$`)

const maxHandleLen = 20

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token      string `json:"token"`
	AuthUserID int    `json:"auth_user_id"`
}

// Register creates a new account and logs it in. The first registered
// user becomes a global owner and seeds the workspace histories.
func (s *Seams) Register(email, password, nameFirst, nameLast string) (AuthResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.store.Get()

	if !emailRegex.MatchString(email) {
		return AuthResult{}, NewInputError("invalid email")
	}
	if snap.ActiveUserByEmail(email) != nil {
		return AuthResult{}, NewInputError("email already in use")
	}
	if len(password) < 6 {
		return AuthResult{}, NewInputError("password must be at least 6 characters")
	}
	if len(nameFirst) < 1 || len(nameFirst) > 50 {
		return AuthResult{}, NewInputError("first name must be between 1 and 50 characters")
	}
	if len(nameLast) < 1 || len(nameLast) > 50 {
		return AuthResult{}, NewInputError("last name must be between 1 and 50 characters")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	handle := generateHandle(snap, nameFirst, nameLast)

	dt := s.now()
	perm := store.PermMember
	if len(snap.Users) == 0 {
		perm = store.PermOwner
		snap.Workspace.ChannelsExist = append(snap.Workspace.ChannelsExist,
			store.ChannelsExistSample{TimeStamp: dt})
		snap.Workspace.DMsExist = append(snap.Workspace.DMsExist,
			store.DMsExistSample{TimeStamp: dt})
		snap.Workspace.MessagesExist = append(snap.Workspace.MessagesExist,
			store.MessagesExistSample{TimeStamp: dt})
	}

	user := &store.User{
		ID:               len(snap.Users) + 1,
		Email:            email,
		PasswordHash:     hash,
		NameFirst:        nameFirst,
		NameLast:         nameLast,
		Handle:           handle,
		GlobalPermission: perm,
		ProfileImgURL:    "static/default.jpg",
		Stats: store.UserStats{
			ChannelsJoined: []store.ChannelsJoinedSample{{TimeStamp: dt}},
			DMsJoined:      []store.DMsJoinedSample{{TimeStamp: dt}},
			MessagesSent:   []store.MessagesSentSample{{TimeStamp: dt}},
		},
	}
	snap.Users = append(snap.Users, user)
	snap.Workspace.NumUsers++
	s.store.Set(snap)

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	if err := s.save(); err != nil {
		return AuthResult{}, err
	}

	s.incr(MetricUsersRegistered)
	return AuthResult{Token: tok, AuthUserID: user.ID}, nil
}

// Login authenticates an email/password pair and issues a new session
// token.
func (s *Seams) Login(email, password string) (AuthResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.store.Get().ActiveUserByEmail(email)
	if user == nil {
		return AuthResult{}, NewInputError("email not found")
	}
	if !verifyPassword(user.PasswordHash, password) {
		return AuthResult{}, NewInputError("incorrect password")
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	if err := s.save(); err != nil {
		return AuthResult{}, err
	}

	s.incr(MetricLogins)
	return AuthResult{Token: tok, AuthUserID: user.ID}, nil
}

// Logout revokes the exact session token.
func (s *Seams) Logout(tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tokens.IsActive(tok) {
		return NewAccessError("invalid token")
	}

	s.tokens.Revoke(tok)
	return s.save()
}

// PasswordResetRequest stores a reset code for the account and mails it
// out. All of the user's sessions are revoked. Unknown emails are
// ignored silently so the endpoint cannot be used to probe accounts.
func (s *Seams) PasswordResetRequest(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.store.Get()
	user := snap.ActiveUserByEmail(email)
	if user == nil {
		return nil
	}

	code, err := shortid.Generate()
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}

	user.ResetCode = code
	s.tokens.RevokeAllForUser(user.ID)
	s.store.Set(snap)

	if err := s.save(); err != nil {
		return err
	}

	if s.mail != nil {
		body := fmt.Sprintf("Here is your verification code for resetting your password: %s", code)
		if err := s.mail.Send(email, "Seams Password Reset Code", body); err != nil {
			s.log.Printf("send reset mail: %v", err)
		}
	}

	return nil
}

// PasswordResetReset sets a new password for the account holding the
// reset code and invalidates the code.
func (s *Seams) PasswordResetReset(resetCode, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if resetCode == "" {
		return NewInputError("invalid reset code")
	}

	snap := s.store.Get()
	for _, user := range snap.Users {
		if user.ResetCode != resetCode {
			continue
		}

		if len(newPassword) < 6 {
			return NewInputError("password must be at least 6 characters")
		}

		hash, err := hashPassword(newPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		user.PasswordHash = hash
		user.ResetCode = ""
		s.store.Set(snap)
		return s.save()
	}

	return NewInputError("invalid reset code")
}

// generateHandle builds a lowercase alphanumeric handle of at most 20
// characters from the names, appending a numeric suffix until it is
// unique among active users.
func generateHandle(snap *store.Snapshot, nameFirst, nameLast string) string {
	var b strings.Builder
	for _, r := range nameFirst + nameLast {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}

	base := b.String()
	if len(base) > maxHandleLen {
		base = base[:maxHandleLen]
	}

	handle := base
	for k := 0; snap.ActiveUserByHandle(handle) != nil; k++ {
		handle = base + strconv.Itoa(k)
	}
	return handle
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func verifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
