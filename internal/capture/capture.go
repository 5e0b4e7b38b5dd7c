// Package capture owns the barcode input device. At most one session is
// active at a time and the device is released on every exit path.
package capture

import (
	"context"
	"errors"
	"sync"

	apperrors "github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
)

// ErrClosed is returned when the decoder stops before producing a code
var ErrClosed = errors.New("capture: decoder closed")

// ErrNoSession is returned by Next when no session was started
var ErrNoSession = errors.New("capture: no active session")

// Decoder is a barcode source, such as a camera or a keyboard-wedge reader
type Decoder interface {
	// Open acquires the device and starts emitting decoded codes
	Open(ctx context.Context) (<-chan string, error)
	// Close releases the device. It must be safe to call more than once.
	Close() error
}

// Manager runs capture sessions over a decoder
type Manager struct {
	mu      sync.Mutex
	decoder Decoder
	session *session
	logger  *logger.Logger
}

type session struct {
	codes  <-chan string
	cancel context.CancelFunc
	once   sync.Once
	dec    Decoder
}

func (s *session) release(log *logger.Logger) {
	s.once.Do(func() {
		s.cancel()
		if err := s.dec.Close(); err != nil {
			log.WarnWithErr(err, "Failed to release capture device")
		}
	})
}

// NewManager creates a session manager for a decoder
func NewManager(dec Decoder, log *logger.Logger) *Manager {
	return &Manager{decoder: dec, logger: log}
}

// Start opens a new session, tearing down any previous one first.
// Failing to open the device yields CAMERA_UNAVAILABLE.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		m.session.release(m.logger)
		m.session = nil
	}

	sctx, cancel := context.WithCancel(ctx)
	codes, err := m.decoder.Open(sctx)
	if err != nil {
		cancel()
		m.decoder.Close()
		return apperrors.CameraUnavailable(err)
	}
	m.session = &session{codes: codes, cancel: cancel, dec: m.decoder}
	return nil
}

// Next waits for one decoded code, then ends the session. The device is
// released whether a code arrives, ctx is cancelled or the decoder stops.
func (m *Manager) Next(ctx context.Context) (string, error) {
	m.mu.Lock()
	s := m.session
	m.mu.Unlock()
	if s == nil {
		return "", ErrNoSession
	}
	defer m.end(s)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case code, ok := <-s.codes:
			if !ok {
				return "", ErrClosed
			}
			if code == "" {
				continue
			}
			return code, nil
		}
	}
}

// Stop ends the active session, if any
func (m *Manager) Stop() {
	m.mu.Lock()
	s := m.session
	m.mu.Unlock()
	if s != nil {
		m.end(s)
	}
}

// Active reports whether a session is running
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

func (m *Manager) end(s *session) {
	s.release(m.logger)
	m.mu.Lock()
	if m.session == s {
		m.session = nil
	}
	m.mu.Unlock()
}

// Scan is Start followed by Next
func (m *Manager) Scan(ctx context.Context) (string, error) {
	if err := m.Start(ctx); err != nil {
		return "", err
	}
	return m.Next(ctx)
}
