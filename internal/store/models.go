package store

// Global permission levels.
const (
	PermOwner  = 1
	PermMember = 2
)

// OnlyReactID is the single react type currently supported.
const OnlyReactID = 1

// NoContainer marks an envelope slot that points at neither a channel
// nor a DM, i.e. the message is deleted or not yet delivered.
const NoContainer = -1

type User struct {
	ID               int       `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"password_hash"`
	NameFirst        string    `json:"name_first"`
	NameLast         string    `json:"name_last"`
	Handle           string    `json:"handle"`
	GlobalPermission int       `json:"global_permission"`
	Removed          bool      `json:"removed"`
	ProfileImgURL    string    `json:"profile_img_url"`
	ResetCode        string    `json:"reset_code,omitempty"`
	Stats            UserStats `json:"stats"`
}

// UserStats holds append-only histories, one sample per change.
// The current value is always the last element.
type UserStats struct {
	ChannelsJoined []ChannelsJoinedSample `json:"channels_joined"`
	DMsJoined      []DMsJoinedSample      `json:"dms_joined"`
	MessagesSent   []MessagesSentSample   `json:"messages_sent"`
}

type ChannelsJoinedSample struct {
	NumChannelsJoined int   `json:"num_channels_joined"`
	TimeStamp         int64 `json:"time_stamp"`
}

type DMsJoinedSample struct {
	NumDMsJoined int   `json:"num_dms_joined"`
	TimeStamp    int64 `json:"time_stamp"`
}

type MessagesSentSample struct {
	NumMessagesSent int   `json:"num_messages_sent"`
	TimeStamp       int64 `json:"time_stamp"`
}

type React struct {
	ReactID           int   `json:"react_id"`
	UIDs              []int `json:"u_ids"`
	IsThisUserReacted bool  `json:"is_this_user_reacted"`
}

// Message is a message record inside its owning channel or DM. The
// global envelope index records which container that is.
type Message struct {
	MessageID int     `json:"message_id"`
	UID       int     `json:"u_id"`
	Message   string  `json:"message"`
	TimeSent  int64   `json:"time_sent"`
	Reacts    []React `json:"reacts"`
	IsPinned  bool    `json:"is_pinned"`
}

// NewMessage builds a message record with the default empty react slot.
func NewMessage(id, uid int, text string, timeSent int64) Message {
	return Message{
		MessageID: id,
		UID:       uid,
		Message:   text,
		TimeSent:  timeSent,
		Reacts: []React{
			{ReactID: OnlyReactID, UIDs: []int{}},
		},
	}
}

// Envelope answers "where does this message id currently live". At most
// one of ChannelID/DMID is set; both NoContainer means deleted or a
// delayed send that has not fired yet.
type Envelope struct {
	MessageID  int `json:"message_id"`
	AuthUserID int `json:"auth_user_id"`
	ChannelID  int `json:"channel_id"`
	DMID       int `json:"dm_id"`
}

type Standup struct {
	Queue      []StandupLine `json:"msg_queue"`
	IsActive   bool          `json:"is_active"`
	TimeFinish int64         `json:"time_finish"`
	StarterID  int           `json:"starter_id"`
}

type StandupLine struct {
	Handle  string `json:"handle"`
	Message string `json:"message"`
}

type Channel struct {
	ID       int       `json:"channel_id"`
	Name     string    `json:"name"`
	IsPublic bool      `json:"is_public"`
	Owners   []int     `json:"owners"`
	Members  []int     `json:"members"`
	Messages []Message `json:"messages"`
	Standup  Standup   `json:"standup"`

	memberSet map[int]struct{}
}

// NewChannel creates a channel with the creator as its first owner and
// member.
func NewChannel(id int, name string, isPublic bool, creator int) *Channel {
	c := &Channel{
		ID:        id,
		Name:      name,
		IsPublic:  isPublic,
		Owners:    []int{creator},
		Members:   []int{creator},
		Messages:  []Message{},
		Standup:   Standup{Queue: []StandupLine{}},
		memberSet: map[int]struct{}{creator: {}},
	}
	return c
}

func (c *Channel) IsMember(uid int) bool {
	_, ok := c.memberSet[uid]
	return ok
}

func (c *Channel) AddMember(uid int) {
	if c.IsMember(uid) {
		return
	}
	c.Members = append(c.Members, uid)
	c.memberSet[uid] = struct{}{}
}

func (c *Channel) RemoveMember(uid int) {
	delete(c.memberSet, uid)
	c.Members = removeID(c.Members, uid)
}

func (c *Channel) IsOwner(uid int) bool {
	for _, id := range c.Owners {
		if id == uid {
			return true
		}
	}
	return false
}

func (c *Channel) AddOwner(uid int) {
	if !c.IsOwner(uid) {
		c.Owners = append(c.Owners, uid)
	}
}

func (c *Channel) RemoveOwner(uid int) {
	c.Owners = removeID(c.Owners, uid)
}

// reindex rebuilds the non-serialized membership index after a load.
func (c *Channel) reindex() {
	c.memberSet = make(map[int]struct{}, len(c.Members))
	for _, id := range c.Members {
		c.memberSet[id] = struct{}{}
	}
}

// DM is a direct-message thread. A removed DM keeps its slot so that
// id-indexed references stay positionally valid; Removed is the
// explicit tombstone state.
type DM struct {
	ID       int       `json:"dm_id"`
	Name     string    `json:"name"`
	OwnerID  int       `json:"owner_id"`
	Members  []int     `json:"members"`
	Messages []Message `json:"messages"`
	Removed  bool      `json:"removed"`

	memberSet map[int]struct{}
}

// NewDM creates a DM owned by creator with the given members, which
// must already include the creator.
func NewDM(id int, name string, creator int, members []int) *DM {
	d := &DM{
		ID:       id,
		Name:     name,
		OwnerID:  creator,
		Members:  members,
		Messages: []Message{},
	}
	d.reindex()
	return d
}

func (d *DM) IsMember(uid int) bool {
	_, ok := d.memberSet[uid]
	return ok
}

func (d *DM) AddMember(uid int) {
	if d.IsMember(uid) {
		return
	}
	d.Members = append(d.Members, uid)
	d.memberSet[uid] = struct{}{}
}

func (d *DM) RemoveMember(uid int) {
	delete(d.memberSet, uid)
	d.Members = removeID(d.Members, uid)
}

// Tombstone empties membership and marks the slot removed.
func (d *DM) Tombstone() {
	d.Members = []int{}
	d.memberSet = make(map[int]struct{})
	d.Removed = true
}

func (d *DM) reindex() {
	d.memberSet = make(map[int]struct{}, len(d.Members))
	for _, id := range d.Members {
		d.memberSet[id] = struct{}{}
	}
}

// Workspace holds the workspace-wide append-only counter histories.
type Workspace struct {
	ChannelsExist []ChannelsExistSample `json:"channels_exist"`
	DMsExist      []DMsExistSample      `json:"dms_exist"`
	MessagesExist []MessagesExistSample `json:"messages_exist"`
	NumUsers      int                   `json:"num_users"`
}

type ChannelsExistSample struct {
	NumChannelsExist int   `json:"num_channels_exist"`
	TimeStamp        int64 `json:"time_stamp"`
}

type DMsExistSample struct {
	NumDMsExist int   `json:"num_dms_exist"`
	TimeStamp   int64 `json:"time_stamp"`
}

type MessagesExistSample struct {
	NumMessagesExist int   `json:"num_messages_exist"`
	TimeStamp        int64 `json:"time_stamp"`
}

func removeID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
