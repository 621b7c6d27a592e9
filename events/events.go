// Package events announces content changes to other services. Subscribers
// get JSON messages on the yatube.* subjects.
package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectPostCreated  = "yatube.post.created"
	SubjectPostEdited   = "yatube.post.edited"
	SubjectPostDeleted  = "yatube.post.deleted"
	SubjectCommentAdded = "yatube.comment.added"
	SubjectFollowed     = "yatube.follow.created"
	SubjectUnfollowed   = "yatube.follow.deleted"
)

type Event struct {
	PostID    uint      `json:"postId,omitempty"`
	CommentID uint      `json:"commentId,omitempty"`
	Actor     string    `json:"actor"`
	Author    string    `json:"author,omitempty"`
	GroupSlug string    `json:"groupSlug,omitempty"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(subject string, e Event)
}

// Nop drops every event; it is used when NATS is not configured.
type Nop struct{}

func (Nop) Publish(string, Event) {}

type NATS struct {
	conn *nats.Conn
}

func NewNATS(conn *nats.Conn) *NATS {
	return &NATS{conn: conn}
}

// Connect retries for a while so the service can start alongside the broker.
func Connect(url string) (*nats.Conn, error) {
	var (
		conn *nats.Conn
		err  error
	)
	for i := 0; i < 10; i++ {
		conn, err = nats.Connect(url, nats.Name("yatube"))
		if err == nil {
			log.Println("[INFO] NATS connected")
			return conn, nil
		}
		log.Printf("Waiting for NATS to be ready... (%v)", err)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connect to NATS after retries: %w", err)
}

// Publish is fire-and-forget: a broker failure is logged and never fails the
// request that produced the event.
func (n *NATS) Publish(subject string, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("Failed to encode %s event: %v", subject, err)
		return
	}
	if err := n.conn.Publish(subject, data); err != nil {
		log.Printf("Failed to publish %s event: %v", subject, err)
	}
}

// Subscribe decodes every yatube.* message and hands it to fn.
func Subscribe(conn *nats.Conn, fn func(subject string, e Event)) (*nats.Subscription, error) {
	return conn.Subscribe("yatube.>", func(msg *nats.Msg) {
		var e Event
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			log.Printf("Failed to parse event: %v", err)
			return
		}
		fn(msg.Subject, e)
	})
}
