package events

import "sync"

type Published struct {
	Subject string
	Event   Event
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Published
}

func (r *Recorder) Publish(subject string, e Event) {
	r.mu.Lock()
	r.events = append(r.events, Published{Subject: subject, Event: e})
	r.mu.Unlock()
}

func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Subjects() []string {
	var out []string
	for _, p := range r.Events() {
		out = append(out, p.Subject)
	}
	return out
}
