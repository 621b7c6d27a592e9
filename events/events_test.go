package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	var p Publisher = &r

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			p.Publish(SubjectPostCreated, Event{PostID: id, Actor: "leo"})
		}(uint(i + 1))
	}
	wg.Wait()

	assert.Len(t, r.Events(), 10)
	for _, s := range r.Subjects() {
		assert.Equal(t, SubjectPostCreated, s)
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NotPanics(t, func() { p.Publish(SubjectFollowed, Event{Actor: "a", Author: "b"}) })
}
