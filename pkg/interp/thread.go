package interp

import "github.com/kestrelvm/kestrel/pkg/frame"

// ThreadState is the thread-level state machine: Ready -> Running ->
// (Halted | Failed). Run reports Failed for every error that ends the run,
// a VMFatal included; a heap invariant break panics instead of returning.
type ThreadState int

const (
	Ready ThreadState = iota
	Running
	Halted
	Failed
)

func (s ThreadState) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Halted:
		return "Halted"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Thread is the single Java thread this interpreter drives.
type Thread struct {
	State  ThreadState
	frames []*frame.Frame
}

func newThread() *Thread { return &Thread{State: Ready} }

func (t *Thread) pushFrame(f *frame.Frame) { t.frames = append(t.frames, f) }

func (t *Thread) popFrame() *frame.Frame {
	f := t.frames[len(t.frames)-1]
	t.frames = t.frames[:len(t.frames)-1]
	return f
}

func (t *Thread) currentFrame() *frame.Frame {
	if len(t.frames) == 0 {
		return nil
	}
	return t.frames[len(t.frames)-1]
}

func (t *Thread) depth() int { return len(t.frames) }
