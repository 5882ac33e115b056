package seams

import (
	"github.com/seamshq/go-seams/internal/store"
)

// ChannelDetails is the full member view of a channel.
type ChannelDetails struct {
	Name         string    `json:"name"`
	IsPublic     bool      `json:"is_public"`
	OwnerMembers []Profile `json:"owner_members"`
	AllMembers   []Profile `json:"all_members"`
}

// MessagePage is a window of up to 50 messages, newest first. End is
// -1 when there are no older messages beyond the window.
type MessagePage struct {
	Messages []store.Message `json:"messages"`
	Start    int             `json:"start"`
	End      int             `json:"end"`
}

const messagePageSize = 50

// ChannelInvite adds an existing user to the channel on behalf of a
// member. The invited user joins immediately.
func (s *Seams) ChannelInvite(tok string, channelID, uID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	authID, err := s.authorize(tok)
	if err != nil {
		return err
	}

	snap := s.store.Get()
	ch := snap.ChannelByID(channelID)
	if ch == nil {
		return NewInputError("invalid channel id")
	}
	if !ch.IsMember(authID) {
		return NewAccessError("authorised user is not a member of the channel")
	}
	if snap.UserByID(uID) == nil {
		return NewInputError("invalid u_id")
	}
	if ch.IsMember(uID) {
		return NewInputError("user is already a member")
	}

	ch.AddMember(uID)
	s.statChannelsJoined(snap.UserByID(uID), 1, s.now())
	s.store.Set(snap)

	return s.save()
}

// ChannelDetails returns name, visibility and member lists for a
// channel the caller belongs to.
func (s *Seams) ChannelDetails(tok string, channelID int) (ChannelDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return ChannelDetails{}, err
	}

	snap := s.store.Get()
	ch := snap.ChannelByID(channelID)
	if ch == nil {
		return ChannelDetails{}, NewInputError("invalid channel id")
	}
	if !ch.IsMember(uid) {
		return ChannelDetails{}, NewAccessError("user is not a member of the channel")
	}

	details := ChannelDetails{
		Name:         ch.Name,
		IsPublic:     ch.IsPublic,
		OwnerMembers: []Profile{},
		AllMembers:   []Profile{},
	}
	for _, id := range ch.Owners {
		details.OwnerMembers = append(details.OwnerMembers, profileOf(snap.UserByID(id)))
	}
	for _, id := range ch.Members {
		details.AllMembers = append(details.AllMembers, profileOf(snap.UserByID(id)))
	}
	return details, nil
}

// ChannelMessages returns up to 50 messages starting at index start,
// where index 0 is the most recent message.
func (s *Seams) ChannelMessages(tok string, channelID, start int) (MessagePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return MessagePage{}, err
	}

	snap := s.store.Get()
	ch := snap.ChannelByID(channelID)
	if ch == nil {
		return MessagePage{}, NewInputError("invalid channel id")
	}
	if !ch.IsMember(uid) {
		return MessagePage{}, NewAccessError("user is not a member of the channel")
	}

	return paginateMessages(ch.Messages, start, uid)
}

// ChannelJoin adds the caller to the channel. Private channels admit
// global owners only.
func (s *Seams) ChannelJoin(tok string, channelID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return err
	}

	snap := s.store.Get()
	ch := snap.ChannelByID(channelID)
	if ch == nil {
		return NewInputError("invalid channel id")
	}
	if ch.IsMember(uid) {
		return NewInputError("user is already a member")
	}

	user := snap.UserByID(uid)
	if !ch.IsPublic && user.GlobalPermission == store.PermMember {
		return NewAccessError("channel is private")
	}

	ch.AddMember(uid)
	s.statChannelsJoined(user, 1, s.now())
	s.store.Set(snap)

	return s.save()
}

// ChannelLeave removes the caller from the channel, including from its
// owner list.
func (s *Seams) ChannelLeave(tok string, channelID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return err
	}

	snap := s.store.Get()
	ch := snap.ChannelByID(channelID)
	if ch == nil {
		return NewInputError("invalid channel id")
	}
	if !ch.IsMember(uid) {
		return NewAccessError("user is not a member of the channel")
	}

	ch.RemoveMember(uid)
	ch.RemoveOwner(uid)
	s.statChannelsJoined(snap.UserByID(uid), -1, s.now())
	s.store.Set(snap)

	return s.save()
}

// ChannelAddOwner promotes a member to channel owner. The caller must
// be a channel owner or a global owner.
func (s *Seams) ChannelAddOwner(tok string, channelID, uID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	authID, err := s.authorize(tok)
	if err != nil {
		return err
	}

	snap := s.store.Get()
	ch := snap.ChannelByID(channelID)
	if ch == nil {
		return NewInputError("invalid channel id")
	}
	if !ch.IsMember(authID) {
		return NewAccessError("authorised user is not a member of the channel")
	}
	if snap.UserByID(uID) == nil {
		return NewInputError("invalid u_id")
	}
	if !ch.IsMember(uID) {
		return NewInputError("user is not a member of the channel")
	}
	if ch.IsOwner(uID) {
		return NewInputError("user is already an owner")
	}
	if !ch.IsOwner(authID) && snap.UserByID(authID).GlobalPermission == store.PermMember {
		return NewAccessError("authorised user does not have owner permissions")
	}

	ch.AddOwner(uID)
	s.store.Set(snap)

	return s.save()
}

// ChannelRemoveOwner demotes a channel owner. The last owner of a
// channel cannot be removed.
func (s *Seams) ChannelRemoveOwner(tok string, channelID, uID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	authID, err := s.authorize(tok)
	if err != nil {
		return err
	}

	snap := s.store.Get()
	ch := snap.ChannelByID(channelID)
	if ch == nil {
		return NewInputError("invalid channel id")
	}
	if !ch.IsMember(authID) {
		return NewAccessError("authorised user is not a member of the channel")
	}
	if snap.UserByID(uID) == nil {
		return NewInputError("invalid u_id")
	}
	if !ch.IsOwner(uID) {
		return NewInputError("user is not an owner of the channel")
	}
	if !ch.IsOwner(authID) && snap.UserByID(authID).GlobalPermission == store.PermMember {
		return NewAccessError("authorised user does not have owner permissions")
	}
	if len(ch.Owners) == 1 {
		return NewInputError("user is the only owner of the channel")
	}

	ch.RemoveOwner(uID)
	s.store.Set(snap)

	return s.save()
}

// paginateMessages windows msgs newest-first from start. Each returned
// message is a copy with IsThisUserReacted computed for uid.
func paginateMessages(msgs []store.Message, start, uid int) (MessagePage, error) {
	total := len(msgs)
	if start >= total && (total != 0 || start != 0) {
		return MessagePage{}, NewInputError("start is greater than the number of messages")
	}

	end := start + messagePageSize
	pageEnd := end
	if end >= total {
		end = total
		pageEnd = -1
	}

	page := []store.Message{}
	for i := start; i < end; i++ {
		msg := msgs[total-1-i]
		msg.Reacts = annotateReacts(msg.Reacts, uid)
		page = append(page, msg)
	}

	return MessagePage{Messages: page, Start: start, End: pageEnd}, nil
}

// annotateReacts copies the react slots with IsThisUserReacted set for
// the reading user.
func annotateReacts(reacts []store.React, uid int) []store.React {
	out := make([]store.React, len(reacts))
	for i, r := range reacts {
		r.IsThisUserReacted = false
		for _, id := range r.UIDs {
			if id == uid {
				r.IsThisUserReacted = true
				break
			}
		}
		out[i] = r
	}
	return out
}
