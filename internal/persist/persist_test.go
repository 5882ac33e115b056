package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamshq/go-seams/internal/store"
)

func TestGateway_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seams.json")
	gw := NewGateway(path)

	st := store.NewStore()
	snap := st.Get()
	snap.Users = append(snap.Users, &store.User{ID: 1, Email: "a@example.com", Handle: "alice"})
	snap.Channels = append(snap.Channels, store.NewChannel(0, "dev", true, 1))
	snap.Tokens = append(snap.Tokens, "tok-1")
	st.Set(snap)
	st.NextSessionID()
	st.NextMessageID()
	st.NextMessageID()

	require.NoError(t, gw.Save(st))

	loaded := store.NewStore()
	require.NoError(t, gw.Load(loaded))

	got := loaded.Get()
	require.Len(t, got.Users, 1)
	assert.Equal(t, "a@example.com", got.Users[0].Email)
	assert.Equal(t, []string{"tok-1"}, got.Tokens)

	session, message := loaded.Counters()
	assert.Equal(t, 1, session)
	assert.Equal(t, 2, message)

	require.Len(t, got.Channels, 1)
	assert.True(t, got.Channels[0].IsMember(1), "membership index should be rebuilt on load")
}

func TestGateway_LoadMissingFile(t *testing.T) {
	gw := NewGateway(filepath.Join(t.TempDir(), "absent.json"))

	assert.Error(t, gw.Load(store.NewStore()), "starting without the data file must fail")
}

func TestGateway_Bootstrap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seams.json")
	gw := NewGateway(path)

	require.NoError(t, gw.Bootstrap())

	st := store.NewStore()
	require.NoError(t, gw.Load(st))
	assert.Empty(t, st.Get().Users)
	session, message := st.Counters()
	assert.Equal(t, 0, session)
	assert.Equal(t, 0, message)
}

func TestGateway_BootstrapKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seams.json")
	gw := NewGateway(path)

	st := store.NewStore()
	snap := st.Get()
	snap.Users = append(snap.Users, &store.User{ID: 1, Email: "a@example.com", Handle: "alice"})
	st.Set(snap)
	require.NoError(t, gw.Save(st))

	require.NoError(t, gw.Bootstrap())

	loaded := store.NewStore()
	require.NoError(t, gw.Load(loaded))
	require.Len(t, loaded.Get().Users, 1, "bootstrap must not overwrite live data")
}

func TestGateway_LoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seams.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	gw := NewGateway(path)
	assert.Error(t, gw.Load(store.NewStore()))
}

func TestGateway_LoadMissingDataStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seams.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"session_tracker":1}`), 0o600))

	gw := NewGateway(path)
	assert.Error(t, gw.Load(store.NewStore()))
}
