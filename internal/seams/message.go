package seams

import (
	"time"

	"github.com/seamshq/go-seams/internal/store"
)

const (
	maxMessageLen = 1000
	removedUser   = "Removed user"
)

// MessageSend sends a message to a channel the caller belongs to and
// returns its globally unique id.
func (s *Seams) MessageSend(tok string, channelID int, text string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return 0, err
	}
	return s.sendToChannel(uid, channelID, text)
}

// sendToChannel validates and appends a channel message for uid. Lock
// must be held.
func (s *Seams) sendToChannel(uid, channelID int, text string) (int, error) {
	snap := s.store.Get()
	ch := snap.ChannelByID(channelID)
	if ch == nil {
		return 0, NewInputError("invalid channel id")
	}
	if !ch.IsMember(uid) {
		return 0, NewAccessError("user is not a member of the channel")
	}
	if len(text) < 1 || len(text) > maxMessageLen {
		return 0, NewInputError("message must be between 1 and 1000 characters")
	}

	id := s.store.NextMessageID()
	snap.Messages = append(snap.Messages, &store.Envelope{
		MessageID:  id,
		AuthUserID: uid,
		ChannelID:  channelID,
		DMID:       store.NoContainer,
	})

	dt := s.now()
	msg := store.NewMessage(id, uid, text, dt)
	ch.Messages = append(ch.Messages, msg)

	s.statMessagesSent(snap.UserByID(uid), dt)
	s.wsMessagesExist(1, dt)
	s.store.Set(snap)

	if err := s.save(); err != nil {
		return 0, err
	}

	s.incr(MetricMessagesSent)
	s.publish(MessageEvent{
		Recipients: append([]int{}, ch.Members...),
		ChannelID:  channelID,
		DMID:       store.NoContainer,
		Message:    msg,
	})
	return id, nil
}

// MessageSendDM sends a message to a DM the caller belongs to.
func (s *Seams) MessageSendDM(tok string, dmID int, text string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return 0, err
	}
	return s.sendToDM(uid, dmID, text)
}

// sendToDM validates and appends a DM message for uid. Lock must be
// held.
func (s *Seams) sendToDM(uid, dmID int, text string) (int, error) {
	snap := s.store.Get()
	dm := snap.DMByID(dmID)
	if dm == nil {
		return 0, NewInputError("invalid dm id")
	}
	if !dm.IsMember(uid) {
		return 0, NewAccessError("user is not a member of the dm")
	}
	if len(text) < 1 || len(text) > maxMessageLen {
		return 0, NewInputError("message must be between 1 and 1000 characters")
	}

	id := s.store.NextMessageID()
	snap.Messages = append(snap.Messages, &store.Envelope{
		MessageID:  id,
		AuthUserID: uid,
		ChannelID:  store.NoContainer,
		DMID:       dmID,
	})

	dt := s.now()
	msg := store.NewMessage(id, uid, text, dt)
	dm.Messages = append(dm.Messages, msg)

	s.statMessagesSent(snap.UserByID(uid), dt)
	s.wsMessagesExist(1, dt)
	s.store.Set(snap)

	if err := s.save(); err != nil {
		return 0, err
	}

	s.incr(MetricMessagesSent)
	s.publish(MessageEvent{
		Recipients: append([]int{}, dm.Members...),
		ChannelID:  store.NoContainer,
		DMID:       dmID,
		Message:    msg,
	})
	return id, nil
}

// MessageEdit replaces the text of a message. The editor must be the
// sender or hold owner permissions for the container. An empty edit
// removes the message.
func (s *Seams) MessageEdit(tok string, messageID int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if text == "" {
		return s.messageRemoveLocked(tok, messageID)
	}

	uid, err := s.authorize(tok)
	if err != nil {
		return err
	}

	snap := s.store.Get()
	env := s.visibleEnvelope(snap, uid, messageID)
	if env == nil {
		return NewInputError("invalid message id")
	}
	if len(text) > maxMessageLen {
		return NewInputError("message must be at most 1000 characters")
	}
	if !s.canActOnMessage(snap, uid, env) {
		return NewAccessError("user may not edit this message")
	}

	msg := containerMessage(snap, env)
	msg.Message = text
	s.store.Set(snap)

	return s.save()
}

// MessageRemove deletes a message from its container. The envelope is
// retained with both containers cleared so the id stays burned.
func (s *Seams) MessageRemove(tok string, messageID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messageRemoveLocked(tok, messageID)
}

func (s *Seams) messageRemoveLocked(tok string, messageID int) error {
	uid, err := s.authorize(tok)
	if err != nil {
		return err
	}

	snap := s.store.Get()
	env := s.visibleEnvelope(snap, uid, messageID)
	if env == nil {
		return NewInputError("invalid message id")
	}
	if !s.canActOnMessage(snap, uid, env) {
		return NewAccessError("user may not remove this message")
	}

	if env.ChannelID != store.NoContainer {
		ch := snap.ChannelByID(env.ChannelID)
		ch.Messages = deleteMessage(ch.Messages, messageID)
	} else {
		dm := snap.DMSlot(env.DMID)
		dm.Messages = deleteMessage(dm.Messages, messageID)
	}

	env.ChannelID = store.NoContainer
	env.DMID = store.NoContainer

	s.wsMessagesExist(-1, s.now())
	s.store.Set(snap)

	return s.save()
}

// MessageReact adds the caller's react to a message in a container
// they belong to.
func (s *Seams) MessageReact(tok string, messageID, reactID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return err
	}

	snap := s.store.Get()
	env := s.visibleEnvelope(snap, uid, messageID)
	if env == nil {
		return NewInputError("invalid message id")
	}
	if reactID != store.OnlyReactID {
		return NewInputError("invalid react id")
	}

	msg := containerMessage(snap, env)
	react := &msg.Reacts[0]
	for _, id := range react.UIDs {
		if id == uid {
			return NewInputError("already reacted")
		}
	}

	react.UIDs = append(react.UIDs, uid)
	s.store.Set(snap)

	return s.save()
}

// MessageUnreact removes the caller's react from a message.
func (s *Seams) MessageUnreact(tok string, messageID, reactID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return err
	}

	snap := s.store.Get()
	env := s.visibleEnvelope(snap, uid, messageID)
	if env == nil {
		return NewInputError("invalid message id")
	}
	if reactID != store.OnlyReactID {
		return NewInputError("invalid react id")
	}

	msg := containerMessage(snap, env)
	react := &msg.Reacts[0]
	found := false
	for i, id := range react.UIDs {
		if id == uid {
			react.UIDs = append(react.UIDs[:i], react.UIDs[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return NewInputError("not reacted")
	}

	s.store.Set(snap)
	return s.save()
}

// MessagePin marks a message as pinned. Requires owner permissions for
// the container.
func (s *Seams) MessagePin(tok string, messageID int) error {
	return s.setPinned(tok, messageID, true)
}

// MessageUnpin clears the pin flag.
func (s *Seams) MessageUnpin(tok string, messageID int) error {
	return s.setPinned(tok, messageID, false)
}

func (s *Seams) setPinned(tok string, messageID int, pinned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return err
	}

	snap := s.store.Get()
	env := s.visibleEnvelope(snap, uid, messageID)
	if env == nil {
		return NewInputError("invalid message id")
	}
	if !s.hasOwnerPerms(snap, uid, env) {
		return NewAccessError("user does not have owner permissions")
	}

	msg := containerMessage(snap, env)
	if msg.IsPinned == pinned {
		if pinned {
			return NewInputError("message is already pinned")
		}
		return NewInputError("message is not pinned")
	}

	msg.IsPinned = pinned
	s.store.Set(snap)

	return s.save()
}

// MessageSendLater arms a channel message for delivery at timeSent
// (unix seconds). The message id is burned immediately; the envelope
// gains its container when the job fires.
func (s *Seams) MessageSendLater(tok string, channelID int, text string, timeSent int64) (int, error) {
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
	if len(text) < 1 || len(text) > maxMessageLen {
		return 0, NewInputError("message must be between 1 and 1000 characters")
	}

	now := s.now()
	if timeSent < now {
		return 0, NewInputError("time_sent is in the past")
	}

	id := s.allocateDelayed(snap, uid)
	gen := s.store.Generation()
	s.sched.After(time.Duration(timeSent-now)*time.Second, func() {
		s.deliverDelayed(gen, id, uid, text, timeSent, channelID, store.NoContainer)
	})

	return id, s.save()
}

// MessageSendLaterDM arms a DM message for delivery at timeSent. If
// the DM has been removed by the time the job fires, the send is
// discarded.
func (s *Seams) MessageSendLaterDM(tok string, dmID int, text string, timeSent int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return 0, err
	}

	snap := s.store.Get()
	dm := snap.DMByID(dmID)
	if dm == nil {
		return 0, NewInputError("invalid dm id")
	}
	if !dm.IsMember(uid) {
		return 0, NewAccessError("user is not a member of the dm")
	}
	if len(text) < 1 || len(text) > maxMessageLen {
		return 0, NewInputError("message must be between 1 and 1000 characters")
	}

	now := s.now()
	if timeSent < now {
		return 0, NewInputError("time_sent is in the past")
	}

	id := s.allocateDelayed(snap, uid)
	gen := s.store.Generation()
	s.sched.After(time.Duration(timeSent-now)*time.Second, func() {
		s.deliverDelayed(gen, id, uid, text, timeSent, store.NoContainer, dmID)
	})

	return id, s.save()
}

// allocateDelayed burns a message id with no container yet.
func (s *Seams) allocateDelayed(snap *store.Snapshot, uid int) int {
	id := s.store.NextMessageID()
	snap.Messages = append(snap.Messages, &store.Envelope{
		MessageID:  id,
		AuthUserID: uid,
		ChannelID:  store.NoContainer,
		DMID:       store.NoContainer,
	})
	s.store.Set(snap)
	return id
}

// deliverDelayed runs on the scheduler when a delayed send fires. It
// takes the service lock, so it is serialized with request handling.
func (s *Seams) deliverDelayed(gen, messageID, uid int, text string, timeSent int64, channelID, dmID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A clear since arming means the id slot, the sender and the
	// container all belong to a different workspace now.
	if s.store.Generation() != gen {
		return
	}

	snap := s.store.Get()

	// A send into a since-removed DM is discarded; this is the only
	// cancellation-like behavior for delayed sends.
	if dmID != store.NoContainer && snap.DMByID(dmID) == nil {
		return
	}

	env := snap.EnvelopeByID(messageID)
	if env == nil {
		return
	}
	env.ChannelID = channelID
	env.DMID = dmID

	msg := store.NewMessage(messageID, uid, text, timeSent)
	var recipients []int
	if channelID != store.NoContainer {
		ch := snap.ChannelByID(channelID)
		ch.Messages = append(ch.Messages, msg)
		recipients = append([]int{}, ch.Members...)
	} else {
		dm := snap.DMByID(dmID)
		dm.Messages = append(dm.Messages, msg)
		recipients = append([]int{}, dm.Members...)
	}

	s.statMessagesSent(snap.UserByID(uid), timeSent)
	s.wsMessagesExist(1, timeSent)
	s.store.Set(snap)

	if err := s.save(); err != nil {
		s.log.Printf("persist delayed message %d: %v", messageID, err)
	}

	s.incr(MetricMessagesSent)
	s.publish(MessageEvent{
		Recipients: recipients,
		ChannelID:  channelID,
		DMID:       dmID,
		Message:    msg,
	})
}

// MessageShare sends a copy of an existing message, plus an optional
// addition, to another channel or DM. The new message has no link to
// the original.
func (s *Seams) MessageShare(tok string, ogMessageID int, text string, channelID, dmID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, err := s.authorize(tok)
	if err != nil {
		return 0, err
	}

	snap := s.store.Get()
	toChannel := snap.ChannelByID(channelID) != nil
	toDM := snap.DMByID(dmID) != nil
	if !toChannel && !toDM {
		return 0, NewInputError("invalid channel and dm id")
	}
	if channelID != store.NoContainer && dmID != store.NoContainer {
		return 0, NewInputError("one of channel_id and dm_id must be -1")
	}
	if channelID == store.NoContainer && !snap.DMByID(dmID).IsMember(uid) {
		return 0, NewAccessError("user is not a member of the dm")
	}
	if dmID == store.NoContainer && !snap.ChannelByID(channelID).IsMember(uid) {
		return 0, NewAccessError("user is not a member of the channel")
	}

	env := s.visibleEnvelope(snap, uid, ogMessageID)
	if env == nil {
		return 0, NewInputError("invalid og_message_id")
	}
	if len(text) > maxMessageLen {
		return 0, NewInputError("message must be at most 1000 characters")
	}

	shared := containerMessage(snap, env).Message
	if text != "" {
		shared = shared + "\n" + text
	}

	if channelID != store.NoContainer {
		return s.sendToChannel(uid, channelID, shared)
	}
	return s.sendToDM(uid, dmID, shared)
}

// visibleEnvelope returns the envelope for messageID if the message
// currently lives in a container uid belongs to.
func (s *Seams) visibleEnvelope(snap *store.Snapshot, uid, messageID int) *store.Envelope {
	env := snap.EnvelopeByID(messageID)
	if env == nil {
		return nil
	}
	if env.ChannelID != store.NoContainer {
		if ch := snap.ChannelByID(env.ChannelID); ch != nil && ch.IsMember(uid) {
			return env
		}
		return nil
	}
	if env.DMID != store.NoContainer {
		if dm := snap.DMByID(env.DMID); dm != nil && dm.IsMember(uid) {
			return env
		}
	}
	return nil
}

// canActOnMessage reports whether uid may edit or remove the message:
// the sender always may; channel owners and, in channels, global
// owners may; in DMs only the creator may.
func (s *Seams) canActOnMessage(snap *store.Snapshot, uid int, env *store.Envelope) bool {
	if env.AuthUserID == uid {
		return true
	}
	if env.ChannelID != store.NoContainer {
		if snap.ChannelByID(env.ChannelID).IsOwner(uid) {
			return true
		}
		return snap.UserByID(uid).GlobalPermission == store.PermOwner
	}
	return snap.DMByID(env.DMID).OwnerID == uid
}

// hasOwnerPerms reports whether uid holds owner permissions over the
// message's container, with the global-owner escape for channels.
func (s *Seams) hasOwnerPerms(snap *store.Snapshot, uid int, env *store.Envelope) bool {
	if env.ChannelID != store.NoContainer {
		if snap.ChannelByID(env.ChannelID).IsOwner(uid) {
			return true
		}
		return snap.UserByID(uid).GlobalPermission == store.PermOwner
	}
	return snap.DMByID(env.DMID).OwnerID == uid
}

func containerMessage(snap *store.Snapshot, env *store.Envelope) *store.Message {
	var msgs []store.Message
	if env.ChannelID != store.NoContainer {
		msgs = snap.ChannelByID(env.ChannelID).Messages
	} else {
		msgs = snap.DMSlot(env.DMID).Messages
	}
	for i := range msgs {
		if msgs[i].MessageID == env.MessageID {
			return &msgs[i]
		}
	}
	return nil
}

func deleteMessage(msgs []store.Message, messageID int) []store.Message {
	for i := range msgs {
		if msgs[i].MessageID == messageID {
			return append(msgs[:i], msgs[i+1:]...)
		}
	}
	return msgs
}
