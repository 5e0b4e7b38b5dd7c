package capture

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"unicode"
)

// ReaderDecoder decodes one barcode per line from a reader. Keyboard-wedge
// scanners and piped stdin both look like this. Lines that are not a
// plausible barcode are skipped.
type ReaderDecoder struct {
	r      io.Reader
	mu     sync.Mutex
	opened bool
}

// NewReaderDecoder creates a decoder over r
func NewReaderDecoder(r io.Reader) *ReaderDecoder {
	return &ReaderDecoder{r: r}
}

// Open starts reading lines. The reader can only be opened once at a time.
func (d *ReaderDecoder) Open(ctx context.Context) (<-chan string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.r == nil {
		return nil, errors.New("no input device")
	}
	if d.opened {
		return nil, errors.New("input device is busy")
	}
	d.opened = true

	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(d.r)
		for sc.Scan() {
			code := cleanCode(sc.Text())
			if code == "" {
				continue
			}
			select {
			case out <- code:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Close marks the device free
func (d *ReaderDecoder) Close() error {
	d.mu.Lock()
	d.opened = false
	d.mu.Unlock()
	return nil
}

// cleanCode strips whitespace and separators some scanners append
func cleanCode(line string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, line)
}
