package virtual

// UpdateScheduler collapses any number of update requests made before the
// next frame into a single run.
type UpdateScheduler struct {
	frames  FrameRequester
	run     func()
	pending bool
	fired   int
}

// NewUpdateScheduler returns a scheduler that calls run from frames.
func NewUpdateScheduler(frames FrameRequester, run func()) *UpdateScheduler {
	return &UpdateScheduler{frames: frames, run: run}
}

// Request schedules run for the next frame unless a run is already pending.
// It reports whether a new frame callback was requested.
func (s *UpdateScheduler) Request() bool {
	if s.pending {
		return false
	}
	s.pending = true
	s.frames.RequestFrame(s.fire)
	return true
}

// Pending reports whether a run is scheduled and has not started yet.
func (s *UpdateScheduler) Pending() bool {
	return s.pending
}

// Fired returns how many scheduled runs have executed.
func (s *UpdateScheduler) Fired() int {
	return s.fired
}

func (s *UpdateScheduler) fire() {
	s.pending = false
	s.fired++
	s.run()
}
