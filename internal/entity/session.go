package entity

type Mode string

const (
	ModeTwoPlayer Mode = "two-player"
	ModeVsRemote  Mode = "vs-remote"
)

func (that Mode) IsValid() bool {
	return that == ModeTwoPlayer || that == ModeVsRemote
}

// Session is one in-game controller state. A player without a session is at the menu.
type Session struct {
	ID         string   `json:"id"`
	Mode       Mode     `json:"mode"`
	RemoteMark Mark     `json:"remote_mark,omitempty"`
	History    *History `json:"history"`
}

func NewSession(id string, mode Mode) *Session {
	session := &Session{
		ID:      id,
		Mode:    mode,
		History: NewHistory(),
	}

	if mode == ModeVsRemote {
		session.RemoteMark = PlayerO
	}

	return session
}

func (that *Session) IsVsRemote() bool {
	return that.Mode == ModeVsRemote
}

func (that *Session) IsRemoteTurn() bool {
	return that.IsVsRemote() && that.History.NextMark() == that.RemoteMark
}

// Clone returns a deep copy, so stored sessions never share a ledger with callers.
func (that *Session) Clone() *Session {
	clone := *that
	if that.History != nil {
		history := *that.History
		history.Snapshots = that.History.All()
		clone.History = &history
	}
	return &clone
}
