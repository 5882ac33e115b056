package seams

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamshq/go-seams/internal/store"
)

func TestMessageSend_GlobalIDs(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	chID, err := s.ChannelsCreate(alice.Token, "dev", true)
	require.NoError(t, err)
	dmID, err := s.DMCreate(alice.Token, []int{bob.AuthUserID})
	require.NoError(t, err)

	// Message ids are allocated from one workspace-wide counter, so
	// they never collide across containers.
	id0, err := s.MessageSend(alice.Token, chID, "in channel")
	require.NoError(t, err)
	id1, err := s.MessageSendDM(alice.Token, dmID, "in dm")
	require.NoError(t, err)
	id2, err := s.MessageSend(alice.Token, chID, "back in channel")
	require.NoError(t, err)

	assert.Equal(t, 0, id0)
	assert.Equal(t, 1, id1)
	assert.Equal(t, 2, id2)
}

func TestMessageSend_Validation(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	chID, err := s.ChannelsCreate(alice.Token, "dev", true)
	require.NoError(t, err)

	_, err = s.MessageSend(alice.Token, 99, "hello")
	assertInputError(t, err)

	_, err = s.MessageSend(bob.Token, chID, "hello")
	assertAccessError(t, err)

	_, err = s.MessageSend(alice.Token, chID, "")
	assertInputError(t, err)

	_, err = s.MessageSend(alice.Token, chID, strings.Repeat("x", 1001))
	assertInputError(t, err)

	_, err = s.MessageSend(alice.Token, chID, strings.Repeat("x", 1000))
	assert.NoError(t, err)
}

func TestMessageEdit(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	chID, err := s.ChannelsCreate(alice.Token, "dev", true)
	require.NoError(t, err)
	require.NoError(t, s.ChannelJoin(bob.Token, chID))

	msgID, err := s.MessageSend(bob.Token, chID, "hello")
	require.NoError(t, err)

	err = s.MessageEdit(bob.Token, 99, "new text")
	assertInputError(t, err)

	err = s.MessageEdit(bob.Token, msgID, strings.Repeat("x", 1001))
	assertInputError(t, err)

	// A plain member cannot edit someone else's message; the channel
	// owner can.
	carol := registerUser(t, s, "carol@example.com", "Carol", "Cherry")
	require.NoError(t, s.ChannelJoin(carol.Token, chID))
	err = s.MessageEdit(carol.Token, msgID, "hijacked")
	assertAccessError(t, err)

	require.NoError(t, s.MessageEdit(alice.Token, msgID, "moderated"))

	page, err := s.ChannelMessages(bob.Token, chID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "moderated", page.Messages[0].Message)
}

func TestMessageEdit_EmptyRemoves(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")

	chID, err := s.ChannelsCreate(alice.Token, "dev", true)
	require.NoError(t, err)
	msgID, err := s.MessageSend(alice.Token, chID, "hello")
	require.NoError(t, err)

	require.NoError(t, s.MessageEdit(alice.Token, msgID, ""))

	page, err := s.ChannelMessages(alice.Token, chID, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)

	// The id is burned, not recycled.
	err = s.MessageEdit(alice.Token, msgID, "resurrect")
	assertInputError(t, err)

	next, err := s.MessageSend(alice.Token, chID, "after")
	require.NoError(t, err)
	assert.Equal(t, msgID+1, next)
}

func TestMessageRemove(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	dmID, err := s.DMCreate(alice.Token, []int{bob.AuthUserID})
	require.NoError(t, err)
	msgID, err := s.MessageSendDM(bob.Token, dmID, "hello")
	require.NoError(t, err)

	err = s.MessageRemove(alice.Token, 99)
	assertInputError(t, err)

	// In DMs only the sender or creator may remove; bob is the sender.
	require.NoError(t, s.MessageRemove(bob.Token, msgID))

	page, err := s.DMMessages(alice.Token, dmID, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
}

func TestMessageRemove_DMCreatorModerates(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	dmID, err := s.DMCreate(alice.Token, []int{bob.AuthUserID})
	require.NoError(t, err)
	msgID, err := s.MessageSendDM(bob.Token, dmID, "hello")
	require.NoError(t, err)

	// The global owner has no special power in DMs, but alice created
	// this one.
	require.NoError(t, s.MessageRemove(alice.Token, msgID))
}

func TestMessageReact(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	chID, err := s.ChannelsCreate(alice.Token, "dev", true)
	require.NoError(t, err)
	require.NoError(t, s.ChannelJoin(bob.Token, chID))
	msgID, err := s.MessageSend(alice.Token, chID, "hello")
	require.NoError(t, err)

	err = s.MessageReact(alice.Token, msgID, 2)
	assertInputError(t, err)

	require.NoError(t, s.MessageReact(bob.Token, msgID, store.OnlyReactID))

	err = s.MessageReact(bob.Token, msgID, store.OnlyReactID)
	assertInputError(t, err)

	// The react annotation is computed per reader.
	page, err := s.ChannelMessages(bob.Token, chID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.True(t, page.Messages[0].Reacts[0].IsThisUserReacted)
	assert.Equal(t, []int{bob.AuthUserID}, page.Messages[0].Reacts[0].UIDs)

	page, err = s.ChannelMessages(alice.Token, chID, 0)
	require.NoError(t, err)
	assert.False(t, page.Messages[0].Reacts[0].IsThisUserReacted)

	require.NoError(t, s.MessageUnreact(bob.Token, msgID, store.OnlyReactID))

	err = s.MessageUnreact(bob.Token, msgID, store.OnlyReactID)
	assertInputError(t, err)
}

func TestMessagePin(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	chID, err := s.ChannelsCreate(alice.Token, "dev", true)
	require.NoError(t, err)
	require.NoError(t, s.ChannelJoin(bob.Token, chID))
	msgID, err := s.MessageSend(bob.Token, chID, "hello")
	require.NoError(t, err)

	// Pinning needs owner permissions, even for the sender.
	err = s.MessagePin(bob.Token, msgID)
	assertAccessError(t, err)

	require.NoError(t, s.MessagePin(alice.Token, msgID))

	err = s.MessagePin(alice.Token, msgID)
	assertInputError(t, err)

	page, err := s.ChannelMessages(bob.Token, chID, 0)
	require.NoError(t, err)
	assert.True(t, page.Messages[0].IsPinned)

	require.NoError(t, s.MessageUnpin(alice.Token, msgID))

	err = s.MessageUnpin(alice.Token, msgID)
	assertInputError(t, err)
}

func TestMessageSendLater(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")

	chID, err := s.ChannelsCreate(alice.Token, "dev", true)
	require.NoError(t, err)

	_, err = s.MessageSendLater(alice.Token, chID, "too late", time.Now().Unix()-10)
	assertInputError(t, err)

	_, err = s.MessageSendLater(alice.Token, 99, "hello", time.Now().Unix()+1)
	assertInputError(t, err)

	msgID, err := s.MessageSendLater(alice.Token, chID, "delayed", time.Now().Unix()+1)
	require.NoError(t, err)

	// The id is burned immediately even though nothing is visible yet.
	page, err := s.ChannelMessages(alice.Token, chID, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)

	immediate, err := s.MessageSend(alice.Token, chID, "immediate")
	require.NoError(t, err)
	assert.Equal(t, msgID+1, immediate)

	assert.Eventually(t, func() bool {
		page, err := s.ChannelMessages(alice.Token, chID, 0)
		return err == nil && len(page.Messages) == 2
	}, 3*time.Second, 50*time.Millisecond, "delayed message should arrive")

	page, err = s.ChannelMessages(alice.Token, chID, 0)
	require.NoError(t, err)
	assert.Equal(t, "delayed", page.Messages[0].Message,
		"the delayed message is newest by position despite its lower id")
}

func TestMessageSendLaterDM_RemovedDMDiscards(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	dmID, err := s.DMCreate(alice.Token, []int{bob.AuthUserID})
	require.NoError(t, err)

	msgID, err := s.MessageSendLaterDM(alice.Token, dmID, "delayed", time.Now().Unix()+1)
	require.NoError(t, err)

	require.NoError(t, s.DMRemove(alice.Token, dmID))

	time.Sleep(1500 * time.Millisecond)

	// The send fired into a tombstoned DM and was discarded; the
	// envelope never gained a container.
	env := s.store.Get().EnvelopeByID(msgID)
	require.NotNil(t, env)
	assert.Equal(t, store.NoContainer, env.ChannelID)
	assert.Equal(t, store.NoContainer, env.DMID)
}

func TestMessageSendLater_SkippedAfterClear(t *testing.T) {
	s := newTestSeams(t)
	registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	chID, err := s.ChannelsCreate(bob.Token, "dev", true)
	require.NoError(t, err)
	_, err = s.MessageSendLater(bob.Token, chID, "delayed", time.Now().Unix()+1)
	require.NoError(t, err)

	require.NoError(t, s.Clear())

	// Repopulate: every id the pending job refers to is reused by a
	// brand-new entity, and its sender no longer exists at all.
	carol := registerUser(t, s, "carol@example.com", "Carol", "Cherry")
	newCh, err := s.ChannelsCreate(carol.Token, "general", true)
	require.NoError(t, err)
	require.Equal(t, chID, newCh)
	msgID, err := s.MessageSend(carol.Token, newCh, "fresh start")
	require.NoError(t, err)
	require.Equal(t, 0, msgID)

	time.Sleep(1500 * time.Millisecond)

	page, err := s.ChannelMessages(carol.Token, newCh, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1, "the pre-clear job must not fire into the new workspace")
	assert.Equal(t, "fresh start", page.Messages[0].Message)

	env := s.store.Get().EnvelopeByID(msgID)
	require.NotNil(t, env)
	assert.Equal(t, newCh, env.ChannelID)
}

func TestMessageShare(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	chID, err := s.ChannelsCreate(alice.Token, "dev", true)
	require.NoError(t, err)
	dmID, err := s.DMCreate(alice.Token, []int{bob.AuthUserID})
	require.NoError(t, err)

	ogID, err := s.MessageSend(alice.Token, chID, "original")
	require.NoError(t, err)

	_, err = s.MessageShare(alice.Token, ogID, "", 99, store.NoContainer)
	assertInputError(t, err)

	_, err = s.MessageShare(alice.Token, ogID, "", chID, dmID)
	assertInputError(t, err)

	_, err = s.MessageShare(bob.Token, ogID, "", chID, store.NoContainer)
	assertAccessError(t, err)

	// Bob is not in the channel, so he cannot see the original either.
	_, err = s.MessageShare(bob.Token, ogID, "", store.NoContainer, dmID)
	assertInputError(t, err)

	sharedID, err := s.MessageShare(alice.Token, ogID, "look at this", store.NoContainer, dmID)
	require.NoError(t, err)
	assert.NotEqual(t, ogID, sharedID)

	page, err := s.DMMessages(bob.Token, dmID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "original\nlook at this", page.Messages[0].Message)

	// Sharing without an addition copies the text as is.
	shared2, err := s.MessageShare(alice.Token, ogID, "", store.NoContainer, dmID)
	require.NoError(t, err)
	assert.Equal(t, sharedID+1, shared2)

	page, err = s.DMMessages(bob.Token, dmID, 0)
	require.NoError(t, err)
	assert.Equal(t, "original", page.Messages[0].Message)
}
