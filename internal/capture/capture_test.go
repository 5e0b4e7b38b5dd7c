package capture

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
)

type fakeDecoder struct {
	mu      sync.Mutex
	codes   chan string
	openErr error
	opens   int
	closes  int
}

func (f *fakeDecoder) Open(ctx context.Context) (<-chan string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opens++
	f.codes = make(chan string, 1)
	return f.codes, nil
}

func (f *fakeDecoder) Close() error {
	f.mu.Lock()
	f.closes++
	f.mu.Unlock()
	return nil
}

func (f *fakeDecoder) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens, f.closes
}

func TestManager_ReleasesAfterResult(t *testing.T) {
	dec := &fakeDecoder{}
	m := NewManager(dec, logger.Nop())

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	dec.codes <- "7501000673209"

	code, err := m.Next(context.Background())
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if code != "7501000673209" {
		t.Errorf("Next() = %q", code)
	}
	if m.Active() {
		t.Error("session should end after one result")
	}
	if _, closes := dec.counts(); closes != 1 {
		t.Errorf("device released %d times, want 1", closes)
	}
}

func TestManager_ReleasesOnCancel(t *testing.T) {
	dec := &fakeDecoder{}
	m := NewManager(dec, logger.Nop())
	if err := m.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := m.Next(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Next() error = %v, want deadline exceeded", err)
	}
	if _, closes := dec.counts(); closes != 1 {
		t.Errorf("device released %d times, want 1", closes)
	}
}

func TestManager_RestartTearsDownPrevious(t *testing.T) {
	dec := &fakeDecoder{}
	m := NewManager(dec, logger.Nop())

	for i := 0; i < 3; i++ {
		if err := m.Start(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	opens, closes := dec.counts()
	if opens != 3 || closes != 2 {
		t.Errorf("opens=%d closes=%d, want 3 and 2", opens, closes)
	}
	m.Stop()
	if _, closes := dec.counts(); closes != 3 {
		t.Errorf("closes=%d after Stop, want 3", closes)
	}
}

func TestManager_OpenFailure(t *testing.T) {
	dec := &fakeDecoder{openErr: errors.New("permission denied")}
	m := NewManager(dec, logger.Nop())

	err := m.Start(context.Background())
	if !apperrors.HasCode(err, apperrors.ErrCodeCameraUnavailable) {
		t.Fatalf("Start() error = %v, want CAMERA_UNAVAILABLE", err)
	}
	if m.Active() {
		t.Error("no session should be active after a failed start")
	}
	if _, err := m.Next(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Errorf("Next() error = %v, want ErrNoSession", err)
	}
}

func TestReaderDecoder(t *testing.T) {
	dec := NewReaderDecoder(strings.NewReader("\n  \n7501-0006-73216\r\n"))
	m := NewManager(dec, logger.Nop())

	code, err := m.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if code != "7501000673216" {
		t.Errorf("Scan() = %q, want 7501000673216", code)
	}

	// Input is exhausted; the next session sees the decoder close.
	_, err = m.Scan(context.Background())
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Scan() error = %v, want ErrClosed", err)
	}
}
