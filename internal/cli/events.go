package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/gridstate/internal/engine"
)

// ParseEventToken parses the command-line form of an event:
//
//	sort:<column>  toggle_row:<id>  toggle_expand:<id>  filter:<query>
//	toggle_all     cancel_batch     toggle_expand_all
//
// "filter:" with nothing after the colon clears the filter. Everything
// after the first colon is the argument, so queries may contain colons.
func ParseEventToken(token string) (engine.Event, error) {
	name, arg, hasArg := strings.Cut(token, ":")
	typ := engine.EventType(name)
	if !engine.ValidEventTypes[typ] {
		return engine.Event{}, fmt.Errorf("unknown event %q", name)
	}

	switch typ {
	case engine.EventSort, engine.EventToggleRow, engine.EventToggleExpand:
		if arg == "" {
			return engine.Event{}, fmt.Errorf("event %q needs an argument (%s:<value>)", name, name)
		}
	case engine.EventFilter:
		if !hasArg {
			return engine.Event{}, fmt.Errorf("event %q needs a query (filter:<text>, or filter: to clear)", name)
		}
	default:
		if hasArg {
			return engine.Event{}, fmt.Errorf("event %q takes no argument", name)
		}
	}

	switch typ {
	case engine.EventSort:
		return engine.SortEvent(arg), nil
	case engine.EventToggleRow:
		return engine.ToggleRowEvent(arg), nil
	case engine.EventToggleExpand:
		return engine.ToggleExpandEvent(arg), nil
	case engine.EventFilter:
		return engine.FilterEvent(arg), nil
	}
	return engine.Event{Type: typ}, nil
}

// ParseEventTokens parses every token, stopping at the first error.
func ParseEventTokens(tokens []string) ([]engine.Event, error) {
	events := make([]engine.Event, 0, len(tokens))
	for i, tok := range tokens {
		ev, err := ParseEventToken(tok)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		events = append(events, ev)
	}
	return events, nil
}
