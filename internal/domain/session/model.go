// Package session tracks the voice sessions the backend has issued tokens
// for. Each record follows one room from token issuance through the call
// being answered, and feeds the supervisor stats endpoint.
package session

import "time"

// State tracks where a session is in its lifecycle.
type State string

const (
	// StateCreated means a token was issued but nobody joined the room yet.
	StateCreated State = "created"
	// StateConnected means a participant joined the LiveKit room.
	StateConnected State = "connected"
)

// Session is one tracked voice call.
type Session struct {
	Room      string    `json:"room"`
	Identity  string    `json:"identity"`
	Name      string    `json:"name"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// Credential is an issued room join credential.
type Credential struct {
	Room      string
	Identity  string
	Token     string
	ExpiresAt time.Time
}

// Counts is an aggregate view over the store, consumed by the stats
// endpoint. Pending counts live sessions, Total every token ever issued,
// Resolved every call that connected and then ended.
type Counts struct {
	Pending  int
	Total    int
	Resolved int
}
