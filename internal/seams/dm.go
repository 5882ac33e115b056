package seams

import (
	"sort"
	"strings"

	"github.com/seamshq/go-seams/internal/store"
)

// DMSummary is a DM id/name pair used by DMList.
type DMSummary struct {
	DMID int    `json:"dm_id"`
	Name string `json:"name"`
}

// DMDetails is the member view of a DM.
type DMDetails struct {
	Name    string    `json:"name"`
	Members []Profile `json:"members"`
}

// DMCreate creates a direct-message thread between the caller and
// uIDs. The thread name is the alphabetically sorted, comma-and-space
// separated list of all participant handles.
func (s *Seams) DMCreate(tok string, uIDs []int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	authID, err := s.authorize(tok)
	if err != nil {
		return 0, err
	}

	seen := make(map[int]struct{}, len(uIDs))
	for _, id := range uIDs {
		if _, dup := seen[id]; dup {
			return 0, NewInputError("duplicate u_id")
		}
		seen[id] = struct{}{}
	}

	snap := s.store.Get()
	for _, id := range uIDs {
		if snap.UserByID(id) == nil {
			return 0, NewInputError("invalid u_id")
		}
	}

	members := append([]int{authID}, uIDs...)

	handles := make([]string, len(members))
	for i, id := range members {
		handles[i] = snap.UserByID(id).Handle
	}
	sort.Strings(handles)
	name := strings.Join(handles, ", ")

	dm := store.NewDM(len(snap.DMs), name, authID, members)
	snap.DMs = append(snap.DMs, dm)

	dt := s.now()
	for _, id := range members {
		s.statDMsJoined(snap.UserByID(id), 1, dt)
	}
	s.wsDMsExist(1, dt)
	s.store.Set(snap)

	if err := s.save(); err != nil {
		return 0, err
	}

	s.incr(MetricDMsCreated)
	return dm.ID, nil
}

// DMList returns the DMs the caller is a member of.
func (s *Seams) DMList(tok string) ([]DMSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return nil, err
	}

	dms := []DMSummary{}
	for _, dm := range s.store.Get().DMs {
		if !dm.Removed && dm.IsMember(uid) {
			dms = append(dms, DMSummary{DMID: dm.ID, Name: dm.Name})
		}
	}
	return dms, nil
}

// DMDetails returns the name and member profiles of a DM the caller
// belongs to.
func (s *Seams) DMDetails(tok string, dmID int) (DMDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return DMDetails{}, err
	}

	snap := s.store.Get()
	dm := snap.DMByID(dmID)
	if dm == nil {
		return DMDetails{}, NewInputError("invalid dm id")
	}
	if !dm.IsMember(uid) {
		return DMDetails{}, NewAccessError("user is not a member of the dm")
	}

	details := DMDetails{Name: dm.Name, Members: []Profile{}}
	for _, id := range dm.Members {
		details.Members = append(details.Members, profileOf(snap.UserByID(id)))
	}
	return details, nil
}

// DMRemove tombstones a DM so all members are no longer in it. Only
// the creator may remove a DM. The slot is retained so other
// id-indexed references stay valid.
func (s *Seams) DMRemove(tok string, dmID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	authID, err := s.authorize(tok)
	if err != nil {
		return err
	}

	snap := s.store.Get()
	dm := snap.DMByID(dmID)
	if dm == nil {
		return NewInputError("invalid dm id")
	}
	if dm.OwnerID != authID {
		return NewAccessError("authorised user is not the dm creator")
	}
	if !dm.IsMember(authID) {
		return NewAccessError("authorised user is not a member of the dm")
	}

	dt := s.now()
	for _, id := range dm.Members {
		s.statDMsJoined(snap.UserByID(id), -1, dt)
	}
	s.wsDMsExist(-1, dt)
	s.wsMessagesExist(-len(dm.Messages), dt)

	dm.Tombstone()
	s.store.Set(snap)

	return s.save()
}

// DMLeave removes the caller from the DM. The creator may leave and
// the DM persists; its name is not updated.
func (s *Seams) DMLeave(tok string, dmID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return err
	}

	snap := s.store.Get()
	dm := snap.DMByID(dmID)
	if dm == nil {
		return NewInputError("invalid dm id")
	}
	if !dm.IsMember(uid) {
		return NewAccessError("user is not a member of the dm")
	}

	dm.RemoveMember(uid)
	s.statDMsJoined(snap.UserByID(uid), -1, s.now())
	s.store.Set(snap)

	return s.save()
}

// DMMessages returns up to 50 messages starting at index start, where
// index 0 is the most recent message.
func (s *Seams) DMMessages(tok string, dmID, start int) (MessagePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return MessagePage{}, err
	}

	snap := s.store.Get()
	dm := snap.DMByID(dmID)
	if dm == nil {
		return MessagePage{}, NewInputError("invalid dm id")
	}
	if !dm.IsMember(uid) {
		return MessagePage{}, NewAccessError("user is not a member of the dm")
	}

	return paginateMessages(dm.Messages, start, uid)
}
