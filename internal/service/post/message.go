package post

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/inkwell-backend/internal/domain"
)

// Wire format of a mutation command, shared by producer and worker:
//
//	{"event": "post.<create|update|delete>", "data": {...}}
//
// The routing key equals the event name.

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type commandData struct {
	ID        uuid.UUID `json:"id"`
	Title     *string   `json:"title,omitempty"`
	Body      *string   `json:"body,omitempty"`
	ActorID   uuid.UUID `json:"actor_id"`
	ActorName string    `json:"actor_name"`
}

// encodeCommand serializes a mutation command into its broker message body.
func encodeCommand(cmd domain.MutationCommand) ([]byte, error) {
	data, err := json.Marshal(commandData{
		ID:        cmd.PostID,
		Title:     cmd.Title,
		Body:      cmd.Body,
		ActorID:   cmd.ActorID,
		ActorName: cmd.ActorName,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal command data: %w", err)
	}

	body, err := json.Marshal(envelope{Event: cmd.Kind.Event(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("marshal command envelope: %w", err)
	}

	return body, nil
}

// decodeCommand parses a broker message body back into a mutation command.
func decodeCommand(body []byte) (domain.MutationCommand, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return domain.MutationCommand{}, fmt.Errorf("unmarshal command envelope: %w", err)
	}

	kind := domain.CommandKind(strings.TrimPrefix(env.Event, "post."))
	if !strings.HasPrefix(env.Event, "post.") || !kind.IsValid() {
		return domain.MutationCommand{}, fmt.Errorf("unknown event %q", env.Event)
	}

	var data commandData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return domain.MutationCommand{}, fmt.Errorf("unmarshal command data: %w", err)
	}
	if data.ID == uuid.Nil {
		return domain.MutationCommand{}, fmt.Errorf("event %q: missing post id", env.Event)
	}

	return domain.MutationCommand{
		Kind:      kind,
		PostID:    data.ID,
		Title:     data.Title,
		Body:      data.Body,
		ActorID:   data.ActorID,
		ActorName: data.ActorName,
	}, nil
}
