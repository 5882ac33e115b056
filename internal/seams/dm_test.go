package seams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDMCreate(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")
	carol := registerUser(t, s, "carol@example.com", "Carol", "Cherry")

	dmID, err := s.DMCreate(alice.Token, []int{carol.AuthUserID, bob.AuthUserID})
	require.NoError(t, err)
	assert.Equal(t, 0, dmID, "dm ids start at 0")

	details, err := s.DMDetails(bob.Token, dmID)
	require.NoError(t, err)
	assert.Equal(t, "aliceapple, bobbanana, carolcherry", details.Name,
		"dm name is the sorted handle list")
	assert.Len(t, details.Members, 3)

	_, err = s.DMCreate(alice.Token, []int{bob.AuthUserID, bob.AuthUserID})
	assertInputError(t, err)

	_, err = s.DMCreate(alice.Token, []int{99})
	assertInputError(t, err)

	// A solo DM is allowed.
	solo, err := s.DMCreate(alice.Token, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, solo)
}

func TestDMList(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")
	carol := registerUser(t, s, "carol@example.com", "Carol", "Cherry")

	dmID, err := s.DMCreate(alice.Token, []int{bob.AuthUserID})
	require.NoError(t, err)
	_, err = s.DMCreate(alice.Token, []int{carol.AuthUserID})
	require.NoError(t, err)

	dms, err := s.DMList(bob.Token)
	require.NoError(t, err)
	require.Len(t, dms, 1)
	assert.Equal(t, dmID, dms[0].DMID)

	dms, err = s.DMList(alice.Token)
	require.NoError(t, err)
	assert.Len(t, dms, 2)
}

func TestDMLeave(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	dmID, err := s.DMCreate(alice.Token, []int{bob.AuthUserID})
	require.NoError(t, err)

	err = s.DMLeave(bob.Token, 99)
	assertInputError(t, err)

	require.NoError(t, s.DMLeave(bob.Token, dmID))

	_, err = s.DMDetails(bob.Token, dmID)
	assertAccessError(t, err)

	// The creator leaving does not remove the DM and the name stays.
	require.NoError(t, s.DMLeave(alice.Token, dmID))
	snap := s.store.Get()
	assert.Equal(t, "aliceapple, bobbanana", snap.DMSlot(dmID).Name)
	assert.False(t, snap.DMSlot(dmID).Removed)
}

func TestDMRemove(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")

	dmID, err := s.DMCreate(alice.Token, []int{bob.AuthUserID})
	require.NoError(t, err)
	_, err = s.MessageSendDM(alice.Token, dmID, "hello")
	require.NoError(t, err)

	err = s.DMRemove(alice.Token, 99)
	assertInputError(t, err)

	// Only the creator may remove the DM.
	err = s.DMRemove(bob.Token, dmID)
	assertAccessError(t, err)

	require.NoError(t, s.DMRemove(alice.Token, dmID))

	// The DM is gone for every operation, including the creator's.
	_, err = s.DMDetails(alice.Token, dmID)
	assertInputError(t, err)
	_, err = s.DMMessages(alice.Token, dmID, 0)
	assertInputError(t, err)
	err = s.DMRemove(alice.Token, dmID)
	assertInputError(t, err)

	dms, err := s.DMList(alice.Token)
	require.NoError(t, err)
	assert.Empty(t, dms)

	// The slot is tombstoned in place so later dm ids keep their
	// positions.
	dmID2, err := s.DMCreate(alice.Token, []int{bob.AuthUserID})
	require.NoError(t, err)
	assert.Equal(t, dmID+1, dmID2)
}

func TestDMMessages(t *testing.T) {
	s := newTestSeams(t)
	alice := registerUser(t, s, "alice@example.com", "Alice", "Apple")
	bob := registerUser(t, s, "bob@example.com", "Bob", "Banana")
	carol := registerUser(t, s, "carol@example.com", "Carol", "Cherry")

	dmID, err := s.DMCreate(alice.Token, []int{bob.AuthUserID})
	require.NoError(t, err)

	_, err = s.MessageSendDM(alice.Token, dmID, "first")
	require.NoError(t, err)
	_, err = s.MessageSendDM(bob.Token, dmID, "second")
	require.NoError(t, err)

	_, err = s.DMMessages(carol.Token, dmID, 0)
	assertAccessError(t, err)

	page, err := s.DMMessages(bob.Token, dmID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "second", page.Messages[0].Message)
	assert.Equal(t, "first", page.Messages[1].Message)
	assert.Equal(t, -1, page.End)

	_, err = s.DMMessages(bob.Token, dmID, 3)
	assertInputError(t, err)
}
