package render

// Scheduler coalesces render requests into at most one paint per frame.
// Schedule may be called any number of times between two frame callbacks;
// the first call asks the host for a frame and the frame paints once.
// Between BeginBatch and EndBatch no frame is requested; the outermost
// EndBatch requests one if anything was scheduled meanwhile.
//
// Scheduler is not safe for concurrent use; it lives on the event loop.
type Scheduler struct {
	request   func()
	pending   bool
	requested bool
	batch     int
	paints    int
}

// NewScheduler returns a scheduler that calls request when it needs the
// host to deliver a frame callback.
func NewScheduler(request func()) *Scheduler {
	return &Scheduler{request: request}
}

// SetRequest replaces the frame request hook.
func (s *Scheduler) SetRequest(request func()) { s.request = request }

func (s *Scheduler) Schedule() {
	s.pending = true
	s.ask()
}

func (s *Scheduler) BeginBatch() { s.batch++ }

func (s *Scheduler) EndBatch() {
	if s.batch == 0 {
		return
	}
	s.batch--
	if s.pending {
		s.ask()
	}
}

// Pending reports whether a paint is owed.
func (s *Scheduler) Pending() bool { return s.pending }

// Frame is the frame callback. It paints if a render is owed and no batch
// is open, and reports whether it painted.
func (s *Scheduler) Frame(paint func()) bool {
	s.requested = false
	if !s.pending || s.batch > 0 {
		return false
	}
	s.pending = false
	if paint != nil {
		paint()
	}
	s.paints++
	return true
}

// Paints returns how many frames have painted.
func (s *Scheduler) Paints() int { return s.paints }

func (s *Scheduler) ask() {
	if s.batch > 0 || s.requested {
		return
	}
	s.requested = true
	if s.request != nil {
		s.request()
	}
}
