package pps

import (
	"context"
	"strconv"
)

// EventReader adapts a cursor to a byte stream: each exhausted Read blocks
// for the next pulse and yields the event id as decimal ASCII followed by a
// newline, which is what a consumer sees when it byte-reads the simulated
// event device. The blocking primitive itself stays in Cursor; this is a
// thin rendering layer.
type EventReader struct {
	ctx    context.Context
	cursor *Cursor
	rest   []byte // unread tail of the current event line
}

// NewEventReader wraps a cursor. Cancelling ctx unblocks a pending Read
// with ErrWaitInterrupted.
func NewEventReader(ctx context.Context, cursor *Cursor) *EventReader {
	return &EventReader{ctx: ctx, cursor: cursor}
}

// Read returns bytes of the current event line, waiting for the next pulse
// once the line is exhausted. Short destination buffers receive the line
// across multiple calls without waiting again.
func (r *EventReader) Read(p []byte) (int, error) {
	if len(r.rest) == 0 {
		id, err := r.cursor.Wait(r.ctx)
		if err != nil {
			return 0, err
		}
		r.rest = strconv.AppendUint(r.rest, uint64(id), 10)
		r.rest = append(r.rest, '\n')
	}
	n := copy(p, r.rest)
	r.rest = r.rest[n:]
	return n, nil
}
