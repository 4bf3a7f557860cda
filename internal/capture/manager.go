package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	fdStdin  = 0
	fdStdout = 1
	fdStderr = 2
)

var (
	// ErrSessionActive is returned when a session is opened while another one
	// still owns the standard descriptors
	ErrSessionActive = errors.New("a capture session is already active")
	// ErrIncomplete is returned when output is read before the session is closed
	ErrIncomplete = errors.New("capture not finished")
	// ErrUnsupported is returned on platforms without descriptor duplication
	ErrUnsupported = errors.New("descriptor capture is not supported on this platform")
)

// terminal guards the process-wide standard descriptors
var terminal struct {
	mu     sync.Mutex
	active bool
}

func acquire() error {
	terminal.mu.Lock()
	defer terminal.mu.Unlock()
	if terminal.active {
		return ErrSessionActive
	}
	terminal.active = true
	return nil
}

func release() {
	terminal.mu.Lock()
	defer terminal.mu.Unlock()
	terminal.active = false
}

// Active reports whether a session currently owns the standard descriptors
func Active() bool {
	terminal.mu.Lock()
	defer terminal.mu.Unlock()
	return terminal.active
}

// Option configures a Session
type Option func(*Session)

// WithInput substitutes the standard input with text for the session lifetime
func WithInput(text string) Option {
	return func(s *Session) {
		s.inputText = &text
	}
}

// Session owns the redirected standard descriptors for one execution.
// It must be closed exactly once; Close is safe to call again.
type Session struct {
	mode      Mode
	inputText *string

	input *os.File // backing file for the substituted stdin
	store *os.File // growable backing file for the captured stream(s)
	sink  *os.File // null sink for the unwanted stream

	saved  []savedFD
	output string
	closed bool
	owner  bool
}

type savedFD struct {
	target int
	dup    int
}

// Open starts capturing according to mode. With None nothing is redirected.
func Open(mode Mode, opts ...Option) (*Session, error) {
	if _, ok := modeNames[mode]; !ok {
		return nil, &InvalidModeError{Value: mode.String()}
	}

	s := &Session{mode: mode}
	for _, opt := range opts {
		opt(s)
	}

	if !mode.Redirects() {
		return s, nil
	}

	if err := acquire(); err != nil {
		return nil, err
	}
	s.owner = true

	if err := s.redirectAll(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) redirectAll() error {
	syncStreams()

	if s.inputText != nil {
		f, err := os.CreateTemp("", "failprint-stdin-*")
		if err != nil {
			return fmt.Errorf("failed to create input file: %w", err)
		}
		s.input = f
		if _, err := io.WriteString(f, *s.inputText); err != nil {
			return fmt.Errorf("failed to write input file: %w", err)
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("failed to rewind input file: %w", err)
		}
		if err := s.redirect(fdStdin, f); err != nil {
			return err
		}
	}

	wantOut, wantErr := s.mode.Wants()
	if !wantOut || !wantErr {
		sink, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("failed to open null sink: %w", err)
		}
		s.sink = sink
	}

	store, err := os.CreateTemp("", "failprint-capture-*")
	if err != nil {
		return fmt.Errorf("failed to create capture file: %w", err)
	}
	s.store = store

	outTarget, errTarget := s.sink, s.sink
	if wantOut {
		outTarget = s.store
	}
	if wantErr {
		errTarget = s.store
	}

	if err := s.redirect(fdStdout, outTarget); err != nil {
		return err
	}
	return s.redirect(fdStderr, errTarget)
}

// redirect saves a duplicate of target and points target at f
func (s *Session) redirect(target int, f *os.File) error {
	dup, err := dupCloexec(target)
	if err != nil {
		return fmt.Errorf("failed to save descriptor %d: %w", target, err)
	}
	s.saved = append(s.saved, savedFD{target: target, dup: dup})
	if err := dup2(int(f.Fd()), target); err != nil {
		return fmt.Errorf("failed to redirect descriptor %d: %w", target, err)
	}
	return nil
}

// Close restores the original descriptors and collects the captured output.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if !s.owner {
		return nil
	}
	defer release()

	syncStreams()

	var errs []error
	for i := len(s.saved) - 1; i >= 0; i-- {
		fd := s.saved[i]
		if err := dup2(fd.dup, fd.target); err != nil {
			errs = append(errs, fmt.Errorf("failed to restore descriptor %d: %w", fd.target, err))
		}
		if err := closeFD(fd.dup); err != nil {
			errs = append(errs, err)
		}
	}
	s.saved = nil

	if s.sink != nil {
		errs = append(errs, s.sink.Close())
	}
	if s.input != nil {
		errs = append(errs, s.input.Close(), os.Remove(s.input.Name()))
	}
	if s.store != nil {
		data, err := readAll(s.store)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to read captured output: %w", err))
		}
		s.output = Decode(data)
		errs = append(errs, s.store.Close(), os.Remove(s.store.Name()))
	}

	return errors.Join(errs...)
}

func readAll(f *os.File) ([]byte, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(f)
}

// Mode returns the session capture mode
func (s *Session) Mode() Mode {
	return s.mode
}

// Output returns what was captured. It fails until the session is closed.
func (s *Session) Output() (string, error) {
	if !s.closed {
		return "", ErrIncomplete
	}
	return s.output, nil
}

// String returns the captured output, or an empty string while capturing
func (s *Session) String() string {
	out, _ := s.Output()
	return out
}

// Do runs fn inside a session and returns the captured output. The session
// is closed even when fn panics; the panic continues after restoration.
func Do(mode Mode, input *string, fn func() error) (output string, err error) {
	var opts []Option
	if input != nil {
		opts = append(opts, WithInput(*input))
	}

	s, err := Open(mode, opts...)
	if err != nil {
		return "", err
	}
	defer func() {
		cerr := s.Close()
		output = s.output
		err = errors.Join(err, cerr)
	}()

	err = fn()
	return
}

// syncStreams pushes pending writes down to the descriptors. Errors such as
// EINVAL on pipes and terminals are expected and ignored.
func syncStreams() {
	_ = os.Stdout.Sync()
	_ = os.Stderr.Sync()
}
