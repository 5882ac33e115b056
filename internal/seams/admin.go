package seams

import (
	"github.com/seamshq/go-seams/internal/store"
)

// AdminUserRemove removes a user from Seams. They are stripped from
// all channels and DMs, their sessions are revoked, and the contents
// of their messages are replaced by "Removed user". The profile stays
// retrievable with the name scrubbed to Removed/user; email and handle
// become reusable.
func (s *Seams) AdminUserRemove(tok string, uID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	authID, err := s.authorize(tok)
	if err != nil {
		return err
	}

	snap := s.store.Get()
	if snap.UserByID(authID).GlobalPermission != store.PermOwner {
		return NewAccessError("authorised user is not a global owner")
	}

	target := snap.UserByID(uID)
	if target == nil {
		return NewInputError("invalid u_id")
	}
	if target.GlobalPermission == store.PermOwner && s.countActiveOwners(snap) == 1 {
		return NewInputError("cannot remove the only global owner")
	}

	s.tokens.RevokeAllForUser(uID)

	for _, ch := range snap.Channels {
		ch.RemoveOwner(uID)
		if ch.IsMember(uID) {
			ch.RemoveMember(uID)
		}
	}
	for _, dm := range snap.DMs {
		if dm.IsMember(uID) {
			dm.RemoveMember(uID)
		}
	}

	for _, env := range snap.Messages {
		if env.AuthUserID != uID {
			continue
		}
		if env.ChannelID == store.NoContainer && env.DMID == store.NoContainer {
			continue
		}
		if msg := containerMessage(snap, env); msg != nil {
			msg.Message = removedUser
		}
	}

	target.NameFirst = "Removed"
	target.NameLast = "user"
	target.Removed = true
	snap.Workspace.NumUsers--
	s.store.Set(snap)

	return s.save()
}

// AdminUserPermissionChange sets a user's global permission level. The
// only global owner cannot be demoted.
func (s *Seams) AdminUserPermissionChange(tok string, uID, permissionID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	authID, err := s.authorize(tok)
	if err != nil {
		return err
	}

	snap := s.store.Get()
	if snap.UserByID(authID).GlobalPermission != store.PermOwner {
		return NewAccessError("authorised user is not a global owner")
	}

	target := snap.UserByID(uID)
	if target == nil {
		return NewInputError("invalid u_id")
	}
	if target.GlobalPermission == store.PermOwner && permissionID == store.PermMember &&
		s.countActiveOwners(snap) == 1 {
		return NewInputError("cannot demote the only global owner")
	}
	if permissionID != store.PermOwner && permissionID != store.PermMember {
		return NewInputError("invalid permission id")
	}
	if target.GlobalPermission == permissionID {
		return NewInputError("user already has that permission level")
	}

	target.GlobalPermission = permissionID
	s.store.Set(snap)

	return s.save()
}

func (s *Seams) countActiveOwners(snap *store.Snapshot) int {
	count := 0
	for _, u := range snap.Users {
		if !u.Removed && u.GlobalPermission == store.PermOwner {
			count++
		}
	}
	return count
}
