package rpal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pierrec/lz4/v4"
)

// traceEvent mirrors the Chrome about:tracing "JSON Array Format" the
// teacher's scm/trace.go writes for its own profiling hooks — reused here
// for step-by-step CSE machine tracing (§4.6) instead of SQL query timing,
// so `-trace out.json` output opens directly in chrome://tracing or
// Perfetto.
type traceEvent struct {
	Name string         `json:"name"`
	Cat  string         `json:"cat"`
	Ph   string         `json:"ph"` // "i" for instant events: one per rule application
	TS   int64          `json:"ts"`
	PID  int            `json:"pid"`
	TID  int            `json:"tid"`
	Args map[string]any `json:"args,omitempty"`
}

// Tracer records one instant event per Machine.Step call. RunID groups every
// event from one interpreter run — useful once -serve (§4.7) fans the same
// stream out to more than one connected viewer.
type Tracer struct {
	RunID  string
	w      io.WriteCloser
	enc    *json.Encoder
	first  bool
	step   uint64 // step counter, updated with sync/atomic
	Server *TraceServer // optional: also fan events out over -serve's WebSocket
}

// NewTracer opens path for writing and emits the JSON array's opening
// bracket. If path ends in ".lz4" the stream is transparently compressed —
// grounded on the teacher's pierrec/lz4 dependency, unused by scm/trace.go
// itself but exercised here for compact trace archives.
func NewTracer(path string) (*Tracer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	var w io.WriteCloser = f
	if hasSuffix(path, ".lz4") {
		w = &lz4WriteCloser{zw: lz4.NewWriter(f), f: f}
	}
	t := &Tracer{RunID: uuid.NewString(), w: w, first: true}
	if _, err := io.WriteString(w, "["); err != nil {
		return nil, err
	}
	t.enc = json.NewEncoder(w)
	return t, nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

type lz4WriteCloser struct {
	zw *lz4.Writer
	f  *os.File
}

func (l *lz4WriteCloser) Write(p []byte) (int, error) { return l.zw.Write(p) }
func (l *lz4WriteCloser) Close() error {
	if err := l.zw.Close(); err != nil {
		return err
	}
	return l.f.Close()
}

// before records the rule about to fire, labeled by what's being consumed
// off Control — cheap enough to call unconditionally since the CLI only
// constructs a Tracer when -trace is passed.
func (t *Tracer) before(m *Machine, item ctrlItem) {
	step := atomic.AddUint64(&t.step, 1)
	name := fmt.Sprintf("%T", item)
	if n, ok := item.(*ASTNode); ok {
		name = n.Type.String()
	}
	t.emit(traceEvent{
		Name: name,
		Cat:  "cse-step",
		Ph:   "i",
		TS:   int64(step),
		PID:  1,
		TID:  int(m.Env.Depth()),
		Args: map[string]any{
			"run":        t.RunID,
			"stackDepth": len(m.Stack),
			"envDepth":   m.Env.Depth(),
		},
	})
}

// after is a hook point for post-step trace events (e.g. stack snapshots);
// kept separate from before so a future viewer can pair "begin"/"end" marks
// without restructuring Step's dispatch.
func (t *Tracer) after(m *Machine) {}

func (t *Tracer) emit(ev traceEvent) {
	if !t.first {
		io.WriteString(t.w, ",")
	}
	t.first = false
	b, _ := json.Marshal(ev)
	t.w.Write(b)
	if t.Server != nil {
		t.Server.Broadcast(b)
	}
}

// Close writes the JSON array's closing bracket and flushes the underlying
// writer (and the lz4 frame, if compression was requested).
func (t *Tracer) Close() error {
	if _, err := io.WriteString(t.w, "]"); err != nil {
		return err
	}
	return t.w.Close()
}
