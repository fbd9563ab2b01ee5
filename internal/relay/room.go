package relay

// Participant is one connection's membership record within a room. The same
// user may appear twice if it opens two connections; each is tracked
// independently by its Conn.
type Participant struct {
	UserID   string
	UserName string
}

// Room is the set of connections currently associated with one interview
// session. Rooms carry no lock of their own: the hub mutex guards every
// access, so membership mutation and the broadcast it triggers complete
// atomically with respect to other events.
type Room struct {
	id           string
	participants map[*Conn]Participant
}

func newRoom(id string) *Room {
	return &Room{id: id, participants: map[*Conn]Participant{}}
}

// add inserts a connection into the room.
func (r *Room) add(c *Conn, p Participant) {
	r.participants[c] = p
}

// remove deletes a connection from the room. No-op if absent.
// Returns the removed participant and whether it was present.
func (r *Room) remove(c *Conn) (Participant, bool) {
	p, ok := r.participants[c]
	if ok {
		delete(r.participants, c)
	}
	return p, ok
}

// broadcast queues a frame on every member except the excluded connection.
// A nil except delivers to all members, sender included. Slow consumers
// have the frame dropped rather than ever blocking the relay.
func (r *Room) broadcast(except *Conn, frame []byte) {
	for c := range r.participants {
		if c == except {
			continue
		}
		c.send(frame)
	}
}

// empty reports whether the room has no members left.
func (r *Room) empty() bool { return len(r.participants) == 0 }
