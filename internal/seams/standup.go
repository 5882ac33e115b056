package seams

import (
	"errors"
	"strings"
	"time"

	"github.com/seamshq/go-seams/internal/store"
)

// StandupStatus reports whether a standup is running in a channel and
// when it finishes.
type StandupStatus struct {
	IsActive   bool  `json:"is_active"`
	TimeFinish int64 `json:"time_finish"`
}

// StandupStart begins a standup in a channel for length seconds.
// Messages sent with StandupSend during that window are queued and
// flushed as a single message from the starter when the window closes.
func (s *Seams) StandupStart(tok string, channelID, length int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return 0, err
	}

	snap := s.store.Get()
	ch := snap.ChannelByID(channelID)
	if ch == nil {
		return 0, NewInputError("invalid channel id")
	}
	if !ch.IsMember(uid) {
		return 0, NewAccessError("user is not a member of the channel")
	}
	if length < 0 {
		return 0, NewInputError("length cannot be negative")
	}
	if ch.Standup.IsActive {
		return 0, NewInputError("an active standup is already running")
	}

	finish := time.Now().Add(time.Duration(length) * time.Second).Unix()
	ch.Standup.IsActive = true
	ch.Standup.TimeFinish = finish
	ch.Standup.StarterID = uid
	s.store.Set(snap)

	if err := s.save(); err != nil {
		return 0, err
	}

	gen := s.store.Generation()
	s.sched.After(time.Duration(length)*time.Second, func() {
		s.flushStandup(gen, channelID)
	})

	return finish, nil
}

// StandupActive reports the standup state of a channel.
func (s *Seams) StandupActive(tok string, channelID int) (StandupStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return StandupStatus{}, err
	}

	snap := s.store.Get()
	ch := snap.ChannelByID(channelID)
	if ch == nil {
		return StandupStatus{}, NewInputError("invalid channel id")
	}
	if !ch.IsMember(uid) {
		return StandupStatus{}, NewAccessError("user is not a member of the channel")
	}

	if !ch.Standup.IsActive {
		return StandupStatus{}, nil
	}
	return StandupStatus{IsActive: true, TimeFinish: ch.Standup.TimeFinish}, nil
}

// StandupSend queues a message into the channel's running standup.
func (s *Seams) StandupSend(tok string, channelID int, text string) error {
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
	if len(text) > maxMessageLen {
		return NewInputError("message must be at most 1000 characters")
	}
	if !ch.Standup.IsActive {
		return NewInputError("no active standup in the channel")
	}

	ch.Standup.Queue = append(ch.Standup.Queue, store.StandupLine{
		Handle:  snap.UserByID(uid).Handle,
		Message: text,
	})
	s.store.Set(snap)

	return s.save()
}

// flushStandup closes a standup window and sends the queued lines as
// one message from the starter. An empty queue sends nothing; a
// starter who left the channel forfeits the message.
func (s *Seams) flushStandup(gen, channelID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The channel id means nothing across a clear.
	if s.store.Generation() != gen {
		return
	}

	snap := s.store.Get()
	ch := snap.ChannelByID(channelID)
	if ch == nil {
		return
	}

	standup := ch.Standup
	ch.Standup = store.Standup{Queue: []store.StandupLine{}}
	s.store.Set(snap)
	if err := s.save(); err != nil {
		s.log.Printf("persist standup close for channel %d: %v", channelID, err)
	}

	// Each queued line keeps its newline, the last one included, so an
	// empty queue produces an empty summary and the send fails length
	// validation below.
	var summary strings.Builder
	for _, l := range standup.Queue {
		summary.WriteString(l.Handle + ": " + l.Message + "\n")
	}

	if _, err := s.sendToChannel(standup.StarterID, channelID, summary.String()); err != nil {
		var serr *Error
		if !errors.As(err, &serr) {
			s.log.Printf("flush standup for channel %d: %v", channelID, err)
		}
		return
	}
}
