package domain

import (
	"github.com/google/uuid"
)

// CommandKind is the kind of a post mutation command.
type CommandKind string

const (
	CommandCreate CommandKind = "create"
	CommandUpdate CommandKind = "update"
	CommandDelete CommandKind = "delete"
)

func (k CommandKind) String() string { return string(k) }

func (k CommandKind) IsValid() bool {
	switch k {
	case CommandCreate, CommandUpdate, CommandDelete:
		return true
	}
	return false
}

// Event returns the broker event name and routing key for the kind,
// e.g. "post.create". Queues are bound 1:1 to these keys.
func (k CommandKind) Event() string { return "post." + string(k) }

// MutationCommand is one create/update/delete intent against a post. It exists
// only on the wire between producer and worker; redelivery is the broker's
// concern. PostID is always set: for creates the producer pre-allocates it,
// which doubles as the idempotency key (redelivered creates collide on the
// primary key and are suppressed).
type MutationCommand struct {
	Kind      CommandKind
	PostID    uuid.UUID
	Title     *string
	Body      *string
	ActorID   uuid.UUID
	ActorName string
}
