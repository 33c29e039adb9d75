package exec

// A Tracer observes instruction execution. Tracing forces the interpreter
// onto its slow path; a nil tracer has no cost.
type Tracer interface {
	// Instruction is called before each instruction is executed with the
	// current cursor pair and the opcode about to run.
	Instruction(pc, mc int, opcode byte)
}

// A Thread carries information about a single interpreter call chain. A
// thread must not be shared across goroutines; a host embedding multiple
// interpreters gives each its own thread.
type Thread struct {
	tracer   Tracer
	depth    uint
	maxDepth uint
}

// NewThread creates a new thread with the given max call depth, if any.
func NewThread(maxDepth uint) Thread {
	if maxDepth == 0 {
		maxDepth = (1 << 32) - 1
	}
	return Thread{maxDepth: maxDepth}
}

// NewTracingThread creates a new thread whose instruction stream is reported
// to tracer.
func NewTracingThread(tracer Tracer, maxDepth uint) Thread {
	t := NewThread(maxDepth)
	t.tracer = tracer
	return t
}

// Tracer returns the thread's tracer, if any.
func (t *Thread) Tracer() (Tracer, bool) {
	return t.tracer, t.tracer != nil
}

// MaxDepth returns the maximum call stack depth.
func (t *Thread) MaxDepth() uint {
	return t.maxDepth
}

// Enter pushes an activation onto the thread's stack. Each call to Enter must
// be balanced with a call to Leave.
func (t *Thread) Enter() {
	if t.depth >= t.maxDepth {
		panic(TrapCallStackExhausted)
	}
	t.depth++
}

// Leave pops the top of the thread's stack.
func (t *Thread) Leave() {
	t.depth--
}
