package booking

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper periodically cancels unpaid pending bookings past their TTL.
// The in-request timer the customer flow used to arm does not survive a
// process restart, so cleanup runs as a stateless sweep over persisted
// rows instead.
type Sweeper struct {
	svc      Service
	log      *logrus.Logger
	ttl      time.Duration
	interval time.Duration
	stopCh   chan struct{}
}

// NewSweeper creates a sweeper. ttl is how long a pending booking may
// stay unpaid; interval is the sweep period.
func NewSweeper(svc Service, ttl, interval time.Duration, log *logrus.Logger) *Sweeper {
	return &Sweeper{
		svc:      svc,
		log:      log,
		ttl:      ttl,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (s *Sweeper) Start() {
	s.log.WithField("interval", s.interval).Info("starting pending-booking sweeper")
	go s.run()
}

// Stop stops the background sweep loop.
func (s *Sweeper) Stop() {
	close(s.stopCh)
}

func (s *Sweeper) run() {
	// Sweep immediately on start to cover bookings orphaned by a restart.
	s.RunOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce()
		case <-s.stopCh:
			s.log.Info("pending-booking sweeper stopped")
			return
		}
	}
}

// RunOnce runs a single sweep cycle. Exposed for tests and manual
// triggering; never surfaces errors to a caller.
func (s *Sweeper) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	expired, err := s.svc.ExpireStalePending(ctx, s.ttl)
	if err != nil {
		s.log.WithError(err).Error("pending-booking sweep failed")
		return
	}
	if expired > 0 {
		s.log.WithField("count", expired).Info("expired unpaid pending bookings")
	}
}
