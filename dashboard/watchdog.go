package dashboard

import (
	"context"
	"time"
)

const (
	// watchdogTick is how often agent contact is checked.
	watchdogTick = 1 * time.Second

	// contactTimeout is how long the dashboard waits without a push
	// before raising the lost-contact banner.
	contactTimeout = 10 * time.Second
)

// markContact stamps the last successful push and clears the
// lost-contact banner if it was raised by the watchdog.
func (s *Server) markContact() {
	s.mu.Lock()
	regained := s.contactLost
	s.contactLost = false
	s.lastPush = time.Now()
	s.mu.Unlock()

	if regained {
		s.manager.HideMessage()
	}
}

// lastContact returns the last push timestamp and whether the
// lost-contact banner is up.
func (s *Server) lastContact() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPush, s.contactLost
}

// RunWatchdog raises a persistent warning popup when no push has
// arrived within contactTimeout. It returns when ctx is cancelled.
func (s *Server) RunWatchdog(ctx context.Context) {
	ticker := time.NewTicker(watchdogTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkContact(time.Now())
		}
	}
}

// checkContact evaluates the contact deadline at the given instant.
func (s *Server) checkContact(now time.Time) {
	s.mu.Lock()
	elapsed := now.Sub(s.lastPush)
	alreadyLost := s.contactLost
	if elapsed >= contactTimeout {
		s.contactLost = true
	}
	lost := s.contactLost
	s.mu.Unlock()

	if lost && !alreadyLost {
		s.logger.Warn("lost contact with agent", "elapsed", elapsed)
		s.manager.ShowMessage(
			"Warning",
			"Lost contact with agent",
			0, 0, "WARNING",
		)
		s.redraw()
	}
}
