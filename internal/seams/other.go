package seams

import (
	"strings"

	"github.com/seamshq/go-seams/internal/store"
)

// Notification is a single entry in a user's notification feed.
type Notification struct {
	ChannelID           int    `json:"channel_id"`
	DMID                int    `json:"dm_id"`
	NotificationMessage string `json:"notification_message"`
}

// Search returns every message containing the query, case-insensitive,
// from the channels and DMs the caller has joined. Order is
// unspecified.
func (s *Seams) Search(tok, query string) ([]store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return nil, err
	}

	if len(query) < 1 || len(query) > maxMessageLen {
		return nil, NewInputError("query must be between 1 and 1000 characters")
	}

	needle := strings.ToLower(query)
	snap := s.store.Get()

	results := []store.Message{}
	match := func(msgs []store.Message) {
		for _, m := range msgs {
			if strings.Contains(strings.ToLower(m.Message), needle) {
				m.Reacts = annotateReacts(m.Reacts, uid)
				results = append(results, m)
			}
		}
	}

	for _, ch := range snap.Channels {
		if ch.IsMember(uid) {
			match(ch.Messages)
		}
	}
	for _, dm := range snap.DMs {
		if !dm.Removed && dm.IsMember(uid) {
			match(dm.Messages)
		}
	}

	return results, nil
}

// Notifications returns the caller's most recent 20 notifications.
// Notification generation is not implemented yet, so the feed is
// always empty.
func (s *Seams) Notifications(tok string) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.authorize(tok); err != nil {
		return nil, err
	}

	return []Notification{}, nil
}
