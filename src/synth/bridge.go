package synth

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"
)

// ----- Remote Hardware Bridge ----- //

// bridgeFlushInterval caps param traffic at 20 messages per second per key to
// protect the constrained transport behind the bridge.
const bridgeFlushInterval = 50 * time.Millisecond

type bridgeNoteJSON struct {
	Type     string `json:"type"`
	Note     int    `json:"note"`
	Velocity int    `json:"velocity"`
}
type bridgeParamJSON struct {
	Type  string      `json:"type"`
	Key   string      `json:"key"`
	Value interface{} `json:"value"` // number for knobs, string for selectors
}
type bridgeSyncJSON struct {
	Type  string          `json:"type"`
	Patch json.RawMessage `json:"patch"`
}

// Notifier emits outbound events to remote hardware as JSON lines. Note
// events go out immediately because their timing matters; parameter changes
// are coalesced per key and flushed at most once per interval; a full-patch
// sync bypasses coalescing entirely. A nil writer disables the bridge, so
// callers never need to guard their calls.
type Notifier struct {
	mu      sync.Mutex
	w       io.Writer
	pending map[string]interface{}
}

func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{
		w:       w,
		pending: make(map[string]interface{}),
	}
}

// NoteOn sends a note-on immediately, without batching.
func (n *Notifier) NoteOn(note int, velocity int) {
	n.send(&bridgeNoteJSON{Type: "note_on", Note: note, Velocity: velocity})
}

// NoteOff sends a note-off immediately, without batching.
func (n *Notifier) NoteOff(note int) {
	n.send(&bridgeNoteJSON{Type: "note_off", Note: note})
}

// Param records a parameter change for the next flush. Repeated edits of the
// same key inside one interval collapse to the latest value.
func (n *Notifier) Param(key string, value interface{}) {
	if n == nil || n.w == nil {
		return
	}
	n.mu.Lock()
	n.pending[key] = value
	n.mu.Unlock()
}

// SyncPatch pushes the whole patch immediately, e.g. after a preset load.
// Pending coalesced edits are dropped; the sync supersedes them.
func (n *Notifier) SyncPatch(p Patch) {
	if n == nil || n.w == nil {
		return
	}
	n.mu.Lock()
	for key := range n.pending {
		delete(n.pending, key)
	}
	n.mu.Unlock()
	n.send(&bridgeSyncJSON{Type: "sync", Patch: p.toJSON()})
}

// Flush writes every pending parameter change. Run calls this on the flush
// interval; tests call it directly.
func (n *Notifier) Flush() {
	if n == nil || n.w == nil {
		return
	}
	n.mu.Lock()
	if len(n.pending) == 0 {
		n.mu.Unlock()
		return
	}
	batch := make([]*bridgeParamJSON, 0, len(n.pending))
	for key, value := range n.pending {
		batch = append(batch, &bridgeParamJSON{Type: "param", Key: key, Value: value})
		delete(n.pending, key)
	}
	n.mu.Unlock()
	for _, msg := range batch {
		n.send(msg)
	}
}

// Run flushes coalesced params until the context is canceled.
func (n *Notifier) Run(ctx context.Context) error {
	if n == nil || n.w == nil {
		<-ctx.Done()
		return nil
	}
	t := time.NewTicker(bridgeFlushInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			n.Flush()
			return nil
		case <-t.C:
			n.Flush()
		}
	}
}

func (n *Notifier) send(v interface{}) {
	if n == nil || n.w == nil {
		return
	}
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := n.w.Write(append(bytes, '\n')); err != nil {
		log.Printf("bridge write failed: %v\n", err)
	}
}
