package seams

import (
	"github.com/seamshq/go-seams/internal/store"
)

// UserStatsResult is a user's engagement history plus their
// involvement rate.
type UserStatsResult struct {
	ChannelsJoined  []store.ChannelsJoinedSample `json:"channels_joined"`
	DMsJoined       []store.DMsJoinedSample      `json:"dms_joined"`
	MessagesSent    []store.MessagesSentSample   `json:"messages_sent"`
	InvolvementRate float64                      `json:"involvement_rate"`
}

// WorkspaceStatsResult is the workspace-wide counter history plus the
// utilization rate.
type WorkspaceStatsResult struct {
	ChannelsExist   []store.ChannelsExistSample `json:"channels_exist"`
	DMsExist        []store.DMsExistSample      `json:"dms_exist"`
	MessagesExist   []store.MessagesExistSample `json:"messages_exist"`
	UtilizationRate float64                     `json:"utilization_rate"`
}

// UsersAll returns every active user's profile.
func (s *Seams) UsersAll(tok string) ([]Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.authorize(tok); err != nil {
		return nil, err
	}

	users := []Profile{}
	for _, u := range s.store.Get().Users {
		if !u.Removed {
			users = append(users, profileOf(u))
		}
	}
	return users, nil
}

// UserProfile returns a user's profile. Removed users remain
// retrievable with their scrubbed names.
func (s *Seams) UserProfile(tok string, uID int) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.authorize(tok); err != nil {
		return Profile{}, err
	}

	user := s.store.Get().UserByID(uID)
	if user == nil {
		return Profile{}, NewInputError("invalid u_id")
	}
	return profileOf(user), nil
}

// UserSetName updates the caller's first and last name.
func (s *Seams) UserSetName(tok, nameFirst, nameLast string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return err
	}

	if len(nameFirst) < 1 || len(nameFirst) > 50 {
		return NewInputError("first name must be between 1 and 50 characters")
	}
	if len(nameLast) < 1 || len(nameLast) > 50 {
		return NewInputError("last name must be between 1 and 50 characters")
	}

	snap := s.store.Get()
	user := snap.UserByID(uid)
	user.NameFirst = nameFirst
	user.NameLast = nameLast
	s.store.Set(snap)

	return s.save()
}

// UserSetEmail updates the caller's email address.
func (s *Seams) UserSetEmail(tok, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return err
	}

	if !emailRegex.MatchString(email) {
		return NewInputError("invalid email")
	}

	snap := s.store.Get()
	if other := snap.ActiveUserByEmail(email); other != nil && other.ID != uid {
		return NewInputError("email already in use")
	}

	snap.UserByID(uid).Email = email
	s.store.Set(snap)

	return s.save()
}

// UserSetHandle updates the caller's display handle.
func (s *Seams) UserSetHandle(tok, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return err
	}

	if len(handle) < 3 || len(handle) > maxHandleLen {
		return NewInputError("handle must be between 3 and 20 characters")
	}
	if !isLowerAlnum(handle) {
		return NewInputError("handle must be lowercase alphanumeric")
	}

	snap := s.store.Get()
	if other := snap.ActiveUserByHandle(handle); other != nil && other.ID != uid {
		return NewInputError("handle already in use")
	}

	snap.UserByID(uid).Handle = handle
	s.store.Set(snap)

	return s.save()
}

// UserStats returns the caller's engagement history. The involvement
// rate is (channels joined + dms joined + messages sent) over the
// totals that currently exist, capped at 1.
func (s *Seams) UserStats(tok string) (UserStatsResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return UserStatsResult{}, err
	}

	snap := s.store.Get()
	stats := snap.UserByID(uid).Stats

	chans := stats.ChannelsJoined[len(stats.ChannelsJoined)-1].NumChannelsJoined
	dms := stats.DMsJoined[len(stats.DMsJoined)-1].NumDMsJoined
	msgs := stats.MessagesSent[len(stats.MessagesSent)-1].NumMessagesSent

	ws := snap.Workspace
	denom := ws.ChannelsExist[len(ws.ChannelsExist)-1].NumChannelsExist +
		ws.DMsExist[len(ws.DMsExist)-1].NumDMsExist +
		ws.MessagesExist[len(ws.MessagesExist)-1].NumMessagesExist

	involvement := 0.0
	if denom != 0 {
		involvement = float64(chans+dms+msgs) / float64(denom)
		if involvement > 1 {
			involvement = 1
		}
	}

	return UserStatsResult{
		ChannelsJoined:  stats.ChannelsJoined,
		DMsJoined:       stats.DMsJoined,
		MessagesSent:    stats.MessagesSent,
		InvolvementRate: involvement,
	}, nil
}

// UsersStats returns the workspace counter histories. The utilization
// rate is the share of active users in at least one channel or DM.
func (s *Seams) UsersStats(tok string) (WorkspaceStatsResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.authorize(tok); err != nil {
		return WorkspaceStatsResult{}, err
	}

	snap := s.store.Get()
	utilizers := 0
	for _, u := range snap.Users {
		if u.Removed {
			continue
		}
		joinedCh := u.Stats.ChannelsJoined[len(u.Stats.ChannelsJoined)-1].NumChannelsJoined > 0
		joinedDM := u.Stats.DMsJoined[len(u.Stats.DMsJoined)-1].NumDMsJoined > 0
		if joinedCh || joinedDM {
			utilizers++
		}
	}

	ws := snap.Workspace
	return WorkspaceStatsResult{
		ChannelsExist:   ws.ChannelsExist,
		DMsExist:        ws.DMsExist,
		MessagesExist:   ws.MessagesExist,
		UtilizationRate: float64(utilizers) / float64(ws.NumUsers),
	}, nil
}

func isLowerAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
