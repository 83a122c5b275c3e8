package scan

import (
	"image"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/veridoc/docscan/internal/authenticity"
)

// FrameSource yields raw frames on demand.
//
// NextFrame returns the next available frame, or ok=false when no frame is
// currently available; the latter is a normal condition (the loop skips the
// tick), never an error.
type FrameSource interface {
	NextFrame() (frame image.Image, ok bool)
}

// FrameSourceFunc adapts a plain function to the FrameSource interface.
type FrameSourceFunc func() (image.Image, bool)

// NextFrame implements FrameSource.
func (f FrameSourceFunc) NextFrame() (image.Image, bool) { return f() }

// State is the loop's position in the detection state machine.
type State int

const (
	StateIdle State = iota
	StateDetecting
	StateCandidateFound
	StateAnalyzing
	StateVerified
	StateRejected
	StateStopped
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDetecting:
		return "detecting"
	case StateCandidateFound:
		return "candidate_found"
	case StateAnalyzing:
		return "analyzing"
	case StateVerified:
		return "verified"
	case StateRejected:
		return "rejected"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// CycleResult is the output of one completed detection cycle.
//
// Authenticity is nil when no document was located in the cycle.
type CycleResult struct {
	Detection    *DetectionResult
	Authenticity *authenticity.Report
}

// Loop is a handle to a running detection loop.
//
// The loop is duty-cycled: every TickInterval it considers running the
// pipeline, but actually runs it only when TicksPerDetect ticks have
// elapsed or DetectionInterval wall-clock time has passed since the last
// run, whichever happens first. This bounds CPU usage without starving
// responsiveness.
type Loop struct {
	scanner  *Scanner
	src      FrameSource
	onResult func(*CycleResult)
	onError  func(error)
	log      *logrus.Logger

	// mu guards stopped, state and every callback invocation. Holding it
	// across the callback is what makes Stop's guarantee airtight: once
	// Stop returns, no further onResult call can be in flight.
	mu      sync.Mutex
	stopped bool
	state   State

	stop chan struct{}
	done chan struct{}
}

// StartLoop starts the duty-cycled detection loop on a new goroutine.
//
// onResult receives exactly one CycleResult per completed cycle, in cycle
// order. onError receives cycle-level failures; after each one the loop
// backs off for BackoffDelay and then resumes, it never stops on its own.
// Either callback may be nil.
func (s *Scanner) StartLoop(src FrameSource, onResult func(*CycleResult), onError func(error)) *Loop {
	l := &Loop{
		scanner:  s,
		src:      src,
		onResult: onResult,
		onError:  onError,
		log:      s.log,
		state:    StateIdle,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go l.run()
	return l
}

// Stop terminates the loop.
//
// Any scheduled tick that has not started a cycle will not start one, and a
// cycle already inside the pipeline completes but its result is dropped:
// after Stop returns there are zero further onResult or onError
// invocations. Stop is idempotent and does not wait for the loop goroutine
// to exit; use Wait for that.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.stopped {
		l.stopped = true
		l.state = StateStopped
		close(l.stop)
	}
	l.mu.Unlock()
}

// Wait blocks until the loop goroutine has exited. Stop must be called
// first or Wait blocks forever.
func (l *Loop) Wait() {
	<-l.done
}

// State returns the loop's current state-machine position.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loop) run() {
	defer close(l.done)

	opts := l.scanner.opts
	ticker := time.NewTicker(opts.TickInterval)
	defer ticker.Stop()

	ticks := 0
	var lastRun time.Time
	var notBefore time.Time // backoff barrier after a cycle error

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			now := time.Now()
			if now.Before(notBefore) {
				continue
			}

			ticks++
			due := ticks >= opts.TicksPerDetect ||
				lastRun.IsZero() ||
				now.Sub(lastRun) >= opts.DetectionInterval
			if !due {
				continue
			}
			ticks = 0
			lastRun = now

			if failed := l.runCycle(); failed {
				notBefore = time.Now().Add(opts.BackoffDelay)
			}
		}
	}
}

// runCycle executes one full detect-then-verify cycle. It returns true when
// the cycle failed and the loop should back off.
func (l *Loop) runCycle() bool {
	l.setState(StateDetecting)

	frame, ok := l.src.NextFrame()
	if !ok {
		// No frame available is a normal transient condition.
		l.setState(StateIdle)
		return false
	}

	det, err := l.scanner.Detect(frame)
	if err != nil {
		l.reportError(err)
		return true
	}

	result := &CycleResult{Detection: det}
	if det.Success {
		l.setState(StateCandidateFound)
		l.setState(StateAnalyzing)

		report, err := l.scanner.Verify(det.Cropped)
		if err != nil {
			l.reportError(err)
			return true
		}
		result.Authenticity = report
		if report.Authentic {
			l.setState(StateVerified)
		} else {
			l.setState(StateRejected)
		}
	} else {
		l.setState(StateIdle)
	}

	l.emit(result)
	return false
}

// emit delivers a cycle result unless the loop has been stopped, in which
// case the result is dropped, not delivered late.
func (l *Loop) emit(result *CycleResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped || l.onResult == nil {
		return
	}
	l.onResult(result)
}

// reportError delivers a cycle error through the error callback, subject to
// the same stop guarantee as emit.
func (l *Loop) reportError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.log.WithError(err).Warn("detection cycle failed, backing off")
	if l.onError != nil {
		l.onError(err)
	}
}

func (l *Loop) setState(s State) {
	l.mu.Lock()
	if !l.stopped {
		l.state = s
	}
	l.mu.Unlock()
}
