package persist

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/seamshq/go-seams/internal/store"
)

// document is the single persisted JSON layout: the full snapshot plus
// both allocator values. There is no versioning field; a shape change
// to the snapshot breaks file compatibility.
type document struct {
	DataStore      *store.Snapshot `json:"data_store"`
	SessionTracker int             `json:"session_tracker"`
	MessageTracker int             `json:"message_tracker"`
}

// Gateway persists the store to a single file after every mutating
// operation and restores it at process start. Writes are synchronous
// full overwrites.
type Gateway struct {
	path string
}

func NewGateway(path string) *Gateway {
	return &Gateway{path: path}
}

// Save serializes the snapshot and both allocators, overwriting the
// file in full.
func (g *Gateway) Save(st *store.Store) error {
	session, message := st.Counters()
	doc := document{
		DataStore:      st.Get(),
		SessionTracker: session,
		MessageTracker: message,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	if err := os.WriteFile(g.path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", g.path, err)
	}

	return nil
}

// Bootstrap writes an empty document if the file does not exist yet.
// An existing file is left alone, so running a bootstrap against live
// data is harmless.
func (g *Gateway) Bootstrap() error {
	if _, err := os.Stat(g.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", g.path, err)
	}

	return g.Save(store.NewStore())
}

// Load restores the snapshot and both allocators from the file. An
// absent or malformed file is an error; the caller must not start
// without its persisted state. First boots create the file with
// Bootstrap.
func (g *Gateway) Load(st *store.Store) error {
	data, err := os.ReadFile(g.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", g.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", g.path, err)
	}
	if doc.DataStore == nil {
		return fmt.Errorf("parse %s: missing data_store", g.path)
	}

	doc.DataStore.Reindex()
	st.Set(doc.DataStore)
	st.SetCounters(doc.SessionTracker, doc.MessageTracker)

	return nil
}
