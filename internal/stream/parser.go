// Package stream consumes the upstream detector's event feed: a
// reconnecting SSE client with jittered exponential backoff plus a periodic
// REST puller. Both feed received notifications into the merge engine.
package stream

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// sseEvent is one decoded server-sent event.
type sseEvent struct {
	Event string
	ID    string
	Data  []byte
}

// parseStream reads the SSE wire format line by line and emits complete
// events. Comment lines (leading colon) and unknown fields are ignored.
// Multiple data lines are joined with newlines per the SSE contract.
func parseStream(r io.Reader, emit func(sseEvent)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current sseEvent
	var data [][]byte

	flush := func() {
		if len(data) == 0 && current.Event == "" && current.ID == "" {
			return
		}
		current.Data = bytes.Join(data, []byte("\n"))
		emit(current)
		current = sseEvent{}
		data = nil
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, ":"):
			// Comment, typically a server keep-alive.
		case strings.HasPrefix(line, "event:"):
			current.Event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "id:"):
			current.ID = strings.TrimSpace(strings.TrimPrefix(line, "id:"))
		case strings.HasPrefix(line, "data:"):
			value := strings.TrimPrefix(line, "data:")
			value = strings.TrimPrefix(value, " ")
			data = append(data, []byte(value))
		}
	}

	flush()
	return scanner.Err()
}
