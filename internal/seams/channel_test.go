package seams

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelsCreate(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")

	id, err := s.ChannelsCreate(alice.Token, "dev", true)
	require.NoError(t, err)
	assert.Equal(t, 0, id, "channel ids start at 0")

	id, err = s.ChannelsCreate(alice.Token, "ops", false)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = s.ChannelsCreate(alice.Token, "", true)
	assertInputError(t, err)

	_, err = s.ChannelsCreate(alice.Token, strings.Repeat("x", 21), true)
	assertInputError(t, err)
}

func TestChannelsList(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	devID, err := s.ChannelsCreate(alice.Token, "dev", true)
	require.NoError(t, err)
	_, err = s.ChannelsCreate(alice.Token, "secret", false)
	require.NoError(t, err)

	mine, err := s.ChannelsList(bob.Token)
	require.NoError(t, err)
	assert.Empty(t, mine)

	all, err := s.ChannelsListAll(bob.Token)
	require.NoError(t, err)
	assert.Len(t, all, 2, "listall includes private channels the caller is not in")

	require.NoError(t, s.ChannelJoin(bob.Token, devID))

	mine, err = s.ChannelsList(bob.Token)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "dev", mine[0].Name)
}

func TestChannelJoin(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	public, err := s.ChannelsCreate(bob.Token, "dev", true)
	require.NoError(t, err)
	private, err := s.ChannelsCreate(bob.Token, "secret", false)
	require.NoError(t, err)

	err = s.ChannelJoin(alice.Token, 99)
	assertInputError(t, err)

	err = s.ChannelJoin(bob.Token, public)
	assertInputError(t, err)

	// Alice is the first user, hence a global owner, and may join
	// private channels. A third plain member may not.
	require.NoError(t, s.ChannelJoin(alice.Token, private))

	carol := registerUser(t, s, "carol@example.com", "Carol", "Cherry")
	err = s.ChannelJoin(carol.Token, private)
	assertAccessError(t, err)

	require.NoError(t, s.ChannelJoin(carol.Token, public))
}

func TestChannelInvite(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	chID, err := s.ChannelsCreate(alice.Token, "dev", true)
	require.NoError(t, err)

	err = s.ChannelInvite(alice.Token, 99, bob.AuthUserID)
	assertInputError(t, err)

	err = s.ChannelInvite(bob.Token, chID, bob.AuthUserID)
	assertAccessError(t, err)

	err = s.ChannelInvite(alice.Token, chID, 99)
	assertInputError(t, err)

	require.NoError(t, s.ChannelInvite(alice.Token, chID, bob.AuthUserID))

	err = s.ChannelInvite(alice.Token, chID, bob.AuthUserID)
	assertInputError(t, err)

	details, err := s.ChannelDetails(bob.Token, chID)
	require.NoError(t, err)
	assert.Len(t, details.AllMembers, 2)
}

func TestChannelDetails(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	chID, err := s.ChannelsCreate(alice.Token, "dev", false)
	require.NoError(t, err)

	_, err = s.ChannelDetails(alice.Token, 99)
	assertInputError(t, err)

	_, err = s.ChannelDetails(bob.Token, chID)
	assertAccessError(t, err)

	details, err := s.ChannelDetails(alice.Token, chID)
	require.NoError(t, err)
	assert.Equal(t, "dev", details.Name)
	assert.False(t, details.IsPublic)
	require.Len(t, details.OwnerMembers, 1)
	assert.Equal(t, alice.AuthUserID, details.OwnerMembers[0].UID)
	require.Len(t, details.AllMembers, 1)
	assert.Equal(t, "aliceapple", details.AllMembers[0].HandleStr)
}

func TestChannelLeave(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	chID, err := s.ChannelsCreate(alice.Token, "dev", true)
	require.NoError(t, err)
	require.NoError(t, s.ChannelJoin(bob.Token, chID))

	err = s.ChannelLeave(alice.Token, 99)
	assertInputError(t, err)

	// Leaving also removes ownership; the channel may end up ownerless.
	require.NoError(t, s.ChannelLeave(alice.Token, chID))

	details, err := s.ChannelDetails(bob.Token, chID)
	require.NoError(t, err)
	assert.Empty(t, details.OwnerMembers)
	assert.Len(t, details.AllMembers, 1)

	err = s.ChannelLeave(alice.Token, chID)
	assertAccessError(t, err)
}

func TestChannelAddOwner(t *testing.T) {
	s := newTestSeams(t)
	registerUser(t, s, "admin@example.com", "Admin", "Owner")
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	chID, err := s.ChannelsCreate(alice.Token, "dev", true)
	require.NoError(t, err)
	require.NoError(t, s.ChannelJoin(bob.Token, chID))

	carol := registerUser(t, s, "carol@example.com", "Carol", "Cherry")
	require.NoError(t, s.ChannelJoin(carol.Token, chID))

	err = s.ChannelAddOwner(alice.Token, chID, 99)
	assertInputError(t, err)

	// Target must already be a member.
	outsider := registerUser(t, s, "dave@example.com", "Dave", "Durian")
	err = s.ChannelAddOwner(alice.Token, chID, outsider.AuthUserID)
	assertInputError(t, err)

	err = s.ChannelAddOwner(alice.Token, chID, alice.AuthUserID)
	assertInputError(t, err)

	// A plain member cannot promote.
	err = s.ChannelAddOwner(bob.Token, chID, carol.AuthUserID)
	assertAccessError(t, err)

	require.NoError(t, s.ChannelAddOwner(alice.Token, chID, bob.AuthUserID))

	details, err := s.ChannelDetails(alice.Token, chID)
	require.NoError(t, err)
	assert.Len(t, details.OwnerMembers, 2)
}

func TestChannelRemoveOwner(t *testing.T) {
	s := newTestSeams(t)
	registerUser(t, s, "admin@example.com", "Admin", "Owner")
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	chID, err := s.ChannelsCreate(alice.Token, "dev", true)
	require.NoError(t, err)
	require.NoError(t, s.ChannelJoin(bob.Token, chID))

	// The sole owner cannot be demoted.
	err = s.ChannelRemoveOwner(alice.Token, chID, alice.AuthUserID)
	assertInputError(t, err)

	err = s.ChannelRemoveOwner(alice.Token, chID, bob.AuthUserID)
	assertInputError(t, err)

	require.NoError(t, s.ChannelAddOwner(alice.Token, chID, bob.AuthUserID))
	require.NoError(t, s.ChannelRemoveOwner(alice.Token, chID, bob.AuthUserID))

	details, err := s.ChannelDetails(alice.Token, chID)
	require.NoError(t, err)
	require.Len(t, details.OwnerMembers, 1)
	assert.Equal(t, alice.AuthUserID, details.OwnerMembers[0].UID)
}

func TestChannelMessages_Pagination(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")

	chID, err := s.ChannelsCreate(alice.Token, "dev", true)
	require.NoError(t, err)

	// Empty channel: start 0 is the one index that is always valid.
	page, err := s.ChannelMessages(alice.Token, chID, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
	assert.Equal(t, -1, page.End)

	_, err = s.ChannelMessages(alice.Token, chID, 1)
	assertInputError(t, err)

	for i := 0; i < 55; i++ {
		_, err := s.MessageSend(alice.Token, chID, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	page, err = s.ChannelMessages(alice.Token, chID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 50)
	assert.Equal(t, 0, page.Start)
	assert.Equal(t, 50, page.End, "a full window points at the next start index")
	assert.Equal(t, "message 54", page.Messages[0].Message, "index 0 is the most recent message")

	page, err = s.ChannelMessages(alice.Token, chID, 50)
	require.NoError(t, err)
	require.Len(t, page.Messages, 5)
	assert.Equal(t, -1, page.End, "reaching the oldest message yields the -1 sentinel")
	assert.Equal(t, "message 0", page.Messages[4].Message)

	_, err = s.ChannelMessages(alice.Token, chID, 56)
	assertInputError(t, err)
}
