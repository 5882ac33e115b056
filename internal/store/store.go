package store

// Snapshot is the single aggregate holding every entity collection.
// All reads and writes in the process go through Get/Set on a Store.
type Snapshot struct {
	Users     []*User     `json:"users"`
	Channels  []*Channel  `json:"channels"`
	DMs       []*DM       `json:"dms"`
	Messages  []*Envelope `json:"messages"`
	Tokens    []string    `json:"tokens"`
	Workspace Workspace   `json:"workspace"`
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		Users:    []*User{},
		Channels: []*Channel{},
		DMs:      []*DM{},
		Messages: []*Envelope{},
		Tokens:   []string{},
		Workspace: Workspace{
			ChannelsExist: []ChannelsExistSample{},
			DMsExist:      []DMsExistSample{},
			MessagesExist: []MessagesExistSample{},
		},
	}
}

// Reindex rebuilds the in-memory membership indexes. It must be called
// after a snapshot is deserialized, since the indexes are not persisted.
func (s *Snapshot) Reindex() {
	for _, c := range s.Channels {
		c.reindex()
	}
	for _, d := range s.DMs {
		d.reindex()
	}
}

// UserByID returns the user with the given id. Ids are 1-based and
// dense, so the lookup is positional. Removed users are still returned;
// callers that need active users only must check Removed.
func (s *Snapshot) UserByID(id int) *User {
	if id < 1 || id > len(s.Users) {
		return nil
	}
	return s.Users[id-1]
}

// ActiveUserByEmail returns the non-removed user with the given email.
func (s *Snapshot) ActiveUserByEmail(email string) *User {
	for _, u := range s.Users {
		if !u.Removed && u.Email == email {
			return u
		}
	}
	return nil
}

// ActiveUserByHandle returns the non-removed user with the given handle.
func (s *Snapshot) ActiveUserByHandle(handle string) *User {
	for _, u := range s.Users {
		if !u.Removed && u.Handle == handle {
			return u
		}
	}
	return nil
}

func (s *Snapshot) ChannelByID(id int) *Channel {
	if id < 0 || id >= len(s.Channels) {
		return nil
	}
	return s.Channels[id]
}

// DMByID returns the DM with the given id, or nil if the id is out of
// range or the slot is tombstoned.
func (s *Snapshot) DMByID(id int) *DM {
	if id < 0 || id >= len(s.DMs) {
		return nil
	}
	if d := s.DMs[id]; !d.Removed {
		return d
	}
	return nil
}

// DMSlot returns the DM slot regardless of tombstone state.
func (s *Snapshot) DMSlot(id int) *DM {
	if id < 0 || id >= len(s.DMs) {
		return nil
	}
	return s.DMs[id]
}

// EnvelopeByID returns the envelope for a message id in O(1). Message
// ids are allocated densely and every allocation appends an envelope,
// so the slice index equals the id.
func (s *Snapshot) EnvelopeByID(id int) *Envelope {
	if id < 0 || id >= len(s.Messages) {
		return nil
	}
	return s.Messages[id]
}

// Store owns the aggregate and both identifier allocators. It replaces
// the usual global-singleton arrangement: the process entry point
// constructs one Store and passes it by reference everywhere.
type Store struct {
	snap           *Snapshot
	sessionCounter int
	messageCounter int
	generation     int
}

func NewStore() *Store {
	return &Store{snap: newSnapshot()}
}

// Get returns the current aggregate by reference; there is no
// copy-on-read in single-process scope.
func (st *Store) Get() *Snapshot {
	return st.snap
}

// Set replaces the aggregate wholesale.
func (st *Store) Set(s *Snapshot) {
	st.snap = s
}

// NextSessionID increments and returns the session counter. The first
// issued value is 1.
func (st *Store) NextSessionID() int {
	st.sessionCounter++
	return st.sessionCounter
}

// NextMessageID returns the current message counter, then increments.
// The first issued value is 0.
func (st *Store) NextMessageID() int {
	id := st.messageCounter
	st.messageCounter++
	return id
}

// Counters reports both allocator values for persistence.
func (st *Store) Counters() (session, message int) {
	return st.sessionCounter, st.messageCounter
}

// SetCounters restores both allocators, e.g. after a load. Skipping
// this after a restart would make fresh ids collide with persisted
// entities.
func (st *Store) SetCounters(session, message int) {
	st.sessionCounter = session
	st.messageCounter = message
}

// Generation reports how many times the store has been cleared.
// Delayed jobs capture it when armed so a job scheduled against one
// workspace never fires into the next: ids restart from zero after a
// clear, and a stale job would otherwise hit reused slots.
func (st *Store) Generation() int {
	return st.generation
}

// Clear resets every collection and both allocators. This is the only
// operation that frees id slots.
func (st *Store) Clear() {
	st.snap = newSnapshot()
	st.sessionCounter = 0
	st.messageCounter = 0
	st.generation++
}
