package seams

import (
	"log"
	"sync"
	"time"

	"github.com/seamshq/go-seams/internal/mailer"
	"github.com/seamshq/go-seams/internal/persist"
	"github.com/seamshq/go-seams/internal/scheduler"
	"github.com/seamshq/go-seams/internal/store"
	"github.com/seamshq/go-seams/internal/token"
)

// Metric names registered with the stats sink.
const (
	MetricUsersRegistered = "UsersRegistered"
	MetricLogins          = "Logins"
	MetricChannelsCreated = "ChannelsCreated"
	MetricDMsCreated      = "DMsCreated"
	MetricMessagesSent    = "MessagesSent"
)

// Metrics lists every metric the service increments, for registration
// at startup.
var Metrics = []string{
	MetricUsersRegistered,
	MetricLogins,
	MetricChannelsCreated,
	MetricDMsCreated,
	MetricMessagesSent,
}

// StatsSink receives operation counts.
type StatsSink interface {
	Incr(name string)
}

// MessageEvent describes a message that just landed in a channel or DM.
type MessageEvent struct {
	Recipients []int
	ChannelID  int
	DMID       int
	Message    store.Message
}

// EventSink receives live message events for fan-out to connected
// clients.
type EventSink interface {
	MessagePosted(ev MessageEvent)
}

// Seams implements the domain services over the central store. Every
// operation runs under one mutex: request handlers and fired delayed
// jobs share the same serialization point, so a delayed send can never
// race a request against the store.
type Seams struct {
	mu sync.Mutex

	log     *log.Logger
	store   *store.Store
	tokens  *token.Codec
	persist *persist.Gateway
	sched   *scheduler.Scheduler
	stats   StatsSink
	events  EventSink
	mail    mailer.Mailer
	photos  *PhotoStore
}

func New(logger *log.Logger, st *store.Store, codec *token.Codec, gw *persist.Gateway,
	sched *scheduler.Scheduler, stats StatsSink, events EventSink, mail mailer.Mailer,
	photos *PhotoStore) *Seams {
	return &Seams{
		log:     logger,
		store:   st,
		tokens:  codec,
		persist: gw,
		sched:   sched,
		stats:   stats,
		events:  events,
		mail:    mail,
		photos:  photos,
	}
}

// Clear resets the data store to its empty state along with both id
// allocators.
func (s *Seams) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Clear()
	return s.save()
}

// Authorize validates a session token on behalf of callers outside the
// request path, such as the websocket upgrade. It takes the service
// lock so the token registry is never read concurrently with a handler
// mutating it.
func (s *Seams) Authorize(tok string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.authorize(tok)
}

// authorize validates a bearer token: registry membership first, then
// decode. Returns the authenticated user id. Callers hold s.mu.
func (s *Seams) authorize(tok string) (int, error) {
	if !s.tokens.IsActive(tok) {
		return 0, NewAccessError("invalid token")
	}
	sess, err := s.tokens.Decode(tok)
	if err != nil {
		return 0, NewAccessError("invalid token")
	}
	return sess.AuthUserID, nil
}

// save persists the full store. A write failure propagates untouched:
// there is no recovery path inside the core.
func (s *Seams) save() error {
	return s.persist.Save(s.store)
}

func (s *Seams) incr(name string) {
	if s.stats != nil {
		s.stats.Incr(name)
	}
}

func (s *Seams) publish(ev MessageEvent) {
	if s.events != nil {
		s.events.MessagePosted(ev)
	}
}

func (s *Seams) now() int64 {
	return time.Now().Unix()
}

// Profile is the externally visible shape of a user.
type Profile struct {
	UID           int    `json:"u_id"`
	Email         string `json:"email"`
	NameFirst     string `json:"name_first"`
	NameLast      string `json:"name_last"`
	HandleStr     string `json:"handle_str"`
	ProfileImgURL string `json:"profile_img_url"`
}

func profileOf(u *store.User) Profile {
	return Profile{
		UID:           u.ID,
		Email:         u.Email,
		NameFirst:     u.NameFirst,
		NameLast:      u.NameLast,
		HandleStr:     u.Handle,
		ProfileImgURL: u.ProfileImgURL,
	}
}

// Append-only stats history helpers. The current value is the last
// sample; each change appends a new one.

func (s *Seams) statChannelsJoined(u *store.User, delta int, dt int64) {
	hist := u.Stats.ChannelsJoined
	cur := hist[len(hist)-1].NumChannelsJoined
	u.Stats.ChannelsJoined = append(hist, store.ChannelsJoinedSample{
		NumChannelsJoined: cur + delta,
		TimeStamp:         dt,
	})
}

func (s *Seams) statDMsJoined(u *store.User, delta int, dt int64) {
	hist := u.Stats.DMsJoined
	cur := hist[len(hist)-1].NumDMsJoined
	u.Stats.DMsJoined = append(hist, store.DMsJoinedSample{
		NumDMsJoined: cur + delta,
		TimeStamp:    dt,
	})
}

func (s *Seams) statMessagesSent(u *store.User, dt int64) {
	hist := u.Stats.MessagesSent
	cur := hist[len(hist)-1].NumMessagesSent
	u.Stats.MessagesSent = append(hist, store.MessagesSentSample{
		NumMessagesSent: cur + 1,
		TimeStamp:       dt,
	})
}

func (s *Seams) wsChannelsExist(delta int, dt int64) {
	snap := s.store.Get()
	hist := snap.Workspace.ChannelsExist
	cur := hist[len(hist)-1].NumChannelsExist
	snap.Workspace.ChannelsExist = append(hist, store.ChannelsExistSample{
		NumChannelsExist: cur + delta,
		TimeStamp:        dt,
	})
}

func (s *Seams) wsDMsExist(delta int, dt int64) {
	snap := s.store.Get()
	hist := snap.Workspace.DMsExist
	cur := hist[len(hist)-1].NumDMsExist
	snap.Workspace.DMsExist = append(hist, store.DMsExistSample{
		NumDMsExist: cur + delta,
		TimeStamp:   dt,
	})
}

func (s *Seams) wsMessagesExist(delta int, dt int64) {
	snap := s.store.Get()
	hist := snap.Workspace.MessagesExist
	cur := hist[len(hist)-1].NumMessagesExist
	snap.Workspace.MessagesExist = append(hist, store.MessagesExistSample{
		NumMessagesExist: cur + delta,
		TimeStamp:        dt,
	})
}
