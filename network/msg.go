// Package network defines the wire model shared by the Node Runtime and the
// Orchestrator: one JSON object per line, UTF-8, newline-terminated,
// camelCase field names.
package network

import (
	"github.com/goccy/go-json"
)

// MsgType is the discriminant of the tagged-sum wire message.
type MsgType string

const (
	MsgOut      MsgType = "OUT"
	MsgIn       MsgType = "IN"
	MsgAnnounce MsgType = "ANNOUNCE"
	MsgReport   MsgType = "REPORT"
)

// Dir is the direction label carried on OUT/IN/ANNOUNCE messages.
type Dir string

const (
	DirLeft  Dir = "L"
	DirRight Dir = "R"
)

// Opposite returns the other direction; used when reflecting an IN or
// forwarding an IN that belongs to another originator.
func (d Dir) Opposite() Dir {
	if d == DirLeft {
		return DirRight
	}
	return DirLeft
}

// Side labels the ring neighbor an inbound envelope arrived from, derived
// by the Listener from the sender's senderIndex.
type Side int

const (
	SideUnknown Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// Message is the single record type backing every wire line. All fields
// except Type and UID are optional; optional fields use pointers so
// "absent" and "zero" stay distinguishable (phase 0 and rounds 0 are both
// legitimate values).
type Message struct {
	Type MsgType `json:"type"`
	UID  int64   `json:"uid"`

	Phase       *int   `json:"phase,omitempty"`
	TTL         *int   `json:"ttl,omitempty"`
	Dir         Dir    `json:"dir,omitempty"`
	Winner      *int64 `json:"winner,omitempty"`
	Rounds      *int   `json:"rounds,omitempty"`
	Messages    *int64 `json:"messages,omitempty"`
	SenderIndex *int   `json:"senderIndex,omitempty"`
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

// NewOut builds an OUT probe.
func NewOut(uid int64, phase, ttl int, dir Dir, senderIndex int) Message {
	return Message{
		Type:        MsgOut,
		UID:         uid,
		Phase:       intPtr(phase),
		TTL:         intPtr(ttl),
		Dir:         dir,
		SenderIndex: intPtr(senderIndex),
	}
}

// NewIn builds an IN acknowledgement/reflection.
func NewIn(uid int64, phase int, dir Dir, senderIndex int) Message {
	return Message{
		Type:        MsgIn,
		UID:         uid,
		Phase:       intPtr(phase),
		Dir:         dir,
		SenderIndex: intPtr(senderIndex),
	}
}

// NewAnnounce builds an ANNOUNCE relay.
func NewAnnounce(uid, winner int64, dir Dir, senderIndex int) Message {
	return Message{
		Type:        MsgAnnounce,
		UID:         uid,
		Winner:      int64Ptr(winner),
		Dir:         dir,
		SenderIndex: intPtr(senderIndex),
	}
}

// NewReport builds the terminal per-node REPORT.
func NewReport(selfUID, winner int64, rounds int, messages int64) Message {
	return Message{
		Type:     MsgReport,
		UID:      selfUID,
		Winner:   int64Ptr(winner),
		Rounds:   intPtr(rounds),
		Messages: int64Ptr(messages),
	}
}

// Encode serializes m as one line of JSON terminated by a single newline.
func Encode(m Message) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Decode parses one line (without its trailing newline) into a Message.
// Unknown fields are ignored by the underlying decoder; unknown
// discriminants are left for the caller to drop.
func Decode(line []byte) (Message, error) {
	var m Message
	err := json.Unmarshal(line, &m)
	return m, err
}

// IsReportComplete reports whether a REPORT carries the three fields the
// Orchestrator requires to accept it.
func (m Message) IsReportComplete() bool {
	return m.Type == MsgReport && m.Winner != nil && m.Rounds != nil && m.Messages != nil
}
