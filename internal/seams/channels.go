package seams

import (
	"github.com/seamshq/go-seams/internal/store"
)

// ChannelSummary is a channel id/name pair used by the listing
// operations.
type ChannelSummary struct {
	ChannelID int    `json:"channel_id"`
	Name      string `json:"name"`
}

// ChannelsCreate creates a channel with the caller as its first owner
// and member, and returns the new channel id.
func (s *Seams) ChannelsCreate(tok, name string, isPublic bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return 0, err
	}

	if len(name) < 1 || len(name) > 20 {
		return 0, NewInputError("channel name must be between 1 and 20 characters")
	}

	snap := s.store.Get()
	ch := store.NewChannel(len(snap.Channels), name, isPublic, uid)
	snap.Channels = append(snap.Channels, ch)

	dt := s.now()
	s.statChannelsJoined(snap.UserByID(uid), 1, dt)
	s.wsChannelsExist(1, dt)
	s.store.Set(snap)

	if err := s.save(); err != nil {
		return 0, err
	}

	s.incr(MetricChannelsCreated)
	return ch.ID, nil
}

// ChannelsList returns the channels the caller is a member of, in
// creation order.
func (s *Seams) ChannelsList(tok string) ([]ChannelSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return nil, err
	}

	channels := []ChannelSummary{}
	for _, ch := range s.store.Get().Channels {
		if ch.IsMember(uid) {
			channels = append(channels, ChannelSummary{ChannelID: ch.ID, Name: ch.Name})
		}
	}
	return channels, nil
}

// ChannelsListAll returns every channel, including private ones.
func (s *Seams) ChannelsListAll(tok string) ([]ChannelSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.authorize(tok); err != nil {
		return nil, err
	}

	channels := []ChannelSummary{}
	for _, ch := range s.store.Get().Channels {
		channels = append(channels, ChannelSummary{ChannelID: ch.ID, Name: ch.Name})
	}
	return channels, nil
}
