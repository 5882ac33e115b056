package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamshq/go-seams/internal/store"
)

var testSecret = []byte("test_signing_secret")

func TestCodec_IssueAndDecode(t *testing.T) {
	st := store.NewStore()
	codec := NewCodec(testSecret, st)

	tok, err := codec.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	sess, err := codec.Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, 42, sess.AuthUserID)
	assert.Equal(t, 1, sess.SessionID, "first issued session id should be 1")

	tok2, err := codec.Issue(42)
	require.NoError(t, err)
	assert.NotEqual(t, tok, tok2, "each session should get a distinct token")

	sess2, err := codec.Decode(tok2)
	require.NoError(t, err)
	assert.Equal(t, 2, sess2.SessionID)
}

func TestCodec_DecodeRejectsBadTokens(t *testing.T) {
	st := store.NewStore()
	codec := NewCodec(testSecret, st)

	tcases := []struct {
		name  string
		token string
	}{
		{
			name:  "garbage",
			token: "not-a-jwt",
		},
		{
			name:  "empty",
			token: "",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.Decode(tc.token)
			assert.Error(t, err)
		})
	}
}

func TestCodec_DecodeRejectsWrongSecret(t *testing.T) {
	st := store.NewStore()
	other := NewCodec([]byte("some_other_secret"), st)

	tok, err := other.Issue(1)
	require.NoError(t, err)

	codec := NewCodec(testSecret, st)
	_, err = codec.Decode(tok)
	assert.Error(t, err, "token signed with a different secret must not decode")
}

func TestCodec_Revoke(t *testing.T) {
	st := store.NewStore()
	codec := NewCodec(testSecret, st)

	tok, err := codec.Issue(1)
	require.NoError(t, err)
	assert.True(t, codec.IsActive(tok))

	codec.Revoke(tok)
	assert.False(t, codec.IsActive(tok))

	// Revoking again is a no-op.
	codec.Revoke(tok)
	assert.False(t, codec.IsActive(tok))

	_, err = codec.Decode(tok)
	assert.NoError(t, err, "a revoked token still decodes, it is just not active")
}

func TestCodec_RevokeAllForUser(t *testing.T) {
	st := store.NewStore()
	codec := NewCodec(testSecret, st)

	tokA1, err := codec.Issue(1)
	require.NoError(t, err)
	tokA2, err := codec.Issue(1)
	require.NoError(t, err)
	tokB, err := codec.Issue(2)
	require.NoError(t, err)

	codec.RevokeAllForUser(1)

	assert.False(t, codec.IsActive(tokA1))
	assert.False(t, codec.IsActive(tokA2))
	assert.True(t, codec.IsActive(tokB), "other users' sessions survive")
}
