package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/gridstate/internal/engine"
	"github.com/roach88/gridstate/internal/ir"
)

// marshalPayload converts the arguments of an event to canonical JSON
// TEXT. All three argument fields are always present so equal events
// store byte-identical payloads.
func marshalPayload(ev engine.Event) (string, error) {
	data, err := ir.MarshalCanonical(map[string]any{
		"key":    ev.Key,
		"row_id": ev.RowID,
		"query":  ev.Query,
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(data), nil
}

// unmarshalEvent rebuilds an event from its stored type and payload.
func unmarshalEvent(typ, payload string) (engine.Event, error) {
	ev := engine.Event{Type: engine.EventType(typ)}
	if payload == "" || payload == "{}" {
		return ev, nil
	}
	var args struct {
		Key   string `json:"key"`
		RowID string `json:"row_id"`
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(payload), &args); err != nil {
		return engine.Event{}, fmt.Errorf("unmarshal payload: %w", err)
	}
	ev.Key, ev.RowID, ev.Query = args.Key, args.RowID, args.Query
	return ev, nil
}
