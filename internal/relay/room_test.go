package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomAddRemove(t *testing.T) {
	rm := newRoom("s1")
	c := &Conn{out: make(chan []byte, 4)}

	rm.add(c, Participant{UserID: "u1", UserName: "Ann"})
	p, ok := rm.remove(c)
	assert.True(t, ok)
	assert.Equal(t, "u1", p.UserID)
	assert.True(t, rm.empty())

	// removing again is a no-op, not an error
	_, ok = rm.remove(c)
	assert.False(t, ok)
}

func TestRoomTracksDuplicateUsersPerConnection(t *testing.T) {
	rm := newRoom("s1")
	c1 := &Conn{out: make(chan []byte, 4)}
	c2 := &Conn{out: make(chan []byte, 4)}

	// Same user on two transports: two independent participants.
	rm.add(c1, Participant{UserID: "u1"})
	rm.add(c2, Participant{UserID: "u1"})

	_, ok := rm.remove(c1)
	assert.True(t, ok)
	assert.False(t, rm.empty())
}

func TestRoomBroadcastExcludesSender(t *testing.T) {
	rm := newRoom("s1")
	a := &Conn{out: make(chan []byte, 4)}
	b := &Conn{out: make(chan []byte, 4)}
	rm.add(a, Participant{UserID: "ua"})
	rm.add(b, Participant{UserID: "ub"})

	rm.broadcast(a, []byte("x"))
	assert.Len(t, b.out, 1)
	assert.Len(t, a.out, 0)

	rm.broadcast(nil, []byte("y"))
	assert.Len(t, a.out, 1)
	assert.Len(t, b.out, 2)
}

func TestRoomBroadcastDropsOnFullBuffer(t *testing.T) {
	rm := newRoom("s1")
	slow := &Conn{out: make(chan []byte, 1)}
	rm.add(slow, Participant{UserID: "u1"})

	// Second frame must be dropped, never block the relay.
	rm.broadcast(nil, []byte("first"))
	rm.broadcast(nil, []byte("second"))

	assert.Equal(t, []byte("first"), <-slow.out)
	assert.Len(t, slow.out, 0)
}
