package scheduler

import (
	"log"
	"sync"
	"time"
)

// Scheduler arms delayed jobs (message sendlater, standup flushes) and
// runs each one exactly once when its delay elapses. Jobs are plain
// closures; serialization against request handling is the caller's
// concern (the domain service runs every job through the same lock as
// its request path), so a fired job can never race a request.
type Scheduler struct {
	log *log.Logger

	mu      sync.Mutex
	nextID  int
	timers  map[int]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func New(logger *log.Logger) *Scheduler {
	return &Scheduler{
		log:    logger,
		timers: make(map[int]*time.Timer),
	}
}

// After arms job to run once after d. Jobs armed after Shutdown are
// dropped.
func (s *Scheduler) After(d time.Duration, job func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.log.Println("scheduler stopped, dropping job")
		return
	}

	id := s.nextID
	s.nextID++
	s.wg.Add(1)

	s.timers[id] = time.AfterFunc(d, func() {
		defer s.wg.Done()

		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		delete(s.timers, id)
		s.mu.Unlock()

		job()
	})
}

// Shutdown cancels all pending timers and waits for in-flight jobs.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	s.stopped = true
	for id, t := range s.timers {
		if t.Stop() {
			s.wg.Done()
		}
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
}
