package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetNotifiesBeforeReturning(t *testing.T) {
	s := New(0)

	var seen []int
	s.Subscribe(func(v int) { seen = append(seen, v) })

	s.Set(1)
	assert.Equal(t, []int{1}, seen)
	assert.Equal(t, 1, s.Get())

	s.Update(func(v int) int { return v + 41 })
	assert.Equal(t, []int{1, 42}, seen)
	assert.Equal(t, 42, s.Get())
}

func TestSubscriberSeesNewValueOnRead(t *testing.T) {
	s := New("")
	var observed string
	s.Subscribe(func(string) { observed = s.Get() })

	s.Set("fresh")
	assert.Equal(t, "fresh", observed)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	s := New(0)
	calls := 0
	unsub := s.Subscribe(func(int) { calls++ })

	s.Set(1)
	unsub()
	s.Set(2)

	assert.Equal(t, 1, calls)
}

func TestUnsubscribeDuringNotification(t *testing.T) {
	s := New(0)
	var unsub func()
	calls := 0
	unsub = s.Subscribe(func(int) {
		calls++
		unsub()
	})

	s.Set(1)
	s.Set(2)

	assert.Equal(t, 1, calls)
}

func TestMultipleSubscribers(t *testing.T) {
	s := New(0)
	a, b := 0, 0
	s.Subscribe(func(v int) { a = v })
	s.Subscribe(func(v int) { b = v })

	s.Set(7)
	assert.Equal(t, 7, a)
	assert.Equal(t, 7, b)
}
