package websocket

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// IdleCloser disconnects sessions idle for longer than timeout
type IdleCloser interface {
	CloseIdle(now time.Time, timeout time.Duration) int
}

// SessionCleanupService handles background tasks for session management
type SessionCleanupService struct {
	target      IdleCloser
	idleTimeout time.Duration
	interval    time.Duration
	logger      *zap.Logger
	stopChan    chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

// NewSessionCleanupService creates a new session cleanup service
func NewSessionCleanupService(target IdleCloser, idleTimeout, interval time.Duration, logger *zap.Logger) *SessionCleanupService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionCleanupService{
		target:      target,
		idleTimeout: idleTimeout,
		interval:    interval,
		logger:      logger,
		stopChan:    make(chan struct{}),
		now:         time.Now,
	}
}

// Start begins the background cleanup process
func (s *SessionCleanupService) Start() {
	go s.cleanupLoop()
	s.logger.Info("Session cleanup service started",
		zap.Duration("idleTimeout", s.idleTimeout),
		zap.Duration("interval", s.interval))
}

// Stop gracefully stops the cleanup service
func (s *SessionCleanupService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.logger.Info("Session cleanup service stopped")
	})
}

// cleanupLoop runs the cleanup process periodically
func (s *SessionCleanupService) cleanupLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runCleanup()
		}
	}
}

// runCleanup closes every idle session
func (s *SessionCleanupService) runCleanup() int {
	if s.idleTimeout <= 0 {
		return 0
	}
	closed := s.target.CloseIdle(s.now(), s.idleTimeout)
	if closed > 0 {
		s.logger.Info("Closed idle sessions", zap.Int("count", closed))
	}
	return closed
}
