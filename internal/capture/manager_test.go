//go:build unix

package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type fdIdentity struct {
	dev uint64
	ino uint64
}

func identity(t *testing.T, fd int) fdIdentity {
	t.Helper()
	var st unix.Stat_t
	require.NoError(t, unix.Fstat(fd, &st))
	return fdIdentity{dev: uint64(st.Dev), ino: uint64(st.Ino)}
}

func countOpenFDs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("no /proc/self/fd on this platform")
	}
	return len(entries)
}

// printMarkers writes to both streams from this process and from a child
func printMarkers() error {
	fmt.Fprint(os.Stdout, "out-marker\n")
	fmt.Fprint(os.Stderr, "err-marker\n")

	child := exec.Command("sh", "-c", "echo child-out; echo child-err >&2")
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	return child.Run()
}

func TestDo_Modes(t *testing.T) {
	tests := []struct {
		mode    Mode
		present []string
		absent  []string
	}{
		{Both, []string{"out-marker", "err-marker", "child-out", "child-err"}, nil},
		{Stdout, []string{"out-marker", "child-out"}, []string{"err-marker", "child-err"}},
		{Stderr, []string{"err-marker", "child-err"}, []string{"out-marker", "child-out"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			output, err := Do(tt.mode, nil, printMarkers)
			require.NoError(t, err)
			for _, s := range tt.present {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, output, s)
			}
		})
	}
}

func TestDo_NoneCapturesNothing(t *testing.T) {
	before := identity(t, fdStdout)

	output, err := Do(None, nil, func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, "", output)
	assert.Equal(t, before, identity(t, fdStdout))
	assert.False(t, Active())
}

func TestDo_ReturnsFunctionError(t *testing.T) {
	boom := errors.New("boom")
	output, err := Do(Both, nil, func() error {
		fmt.Println("before failure")
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "before failure\n", output)
}

func TestDo_Input(t *testing.T) {
	input := "first line\nsecond line\n"
	var read []byte

	output, err := Do(Both, &input, func() error {
		var err error
		read, err = io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		child := exec.Command("cat")
		child.Stdin = os.Stdin
		child.Stdout = os.Stdout
		return child.Run()
	})
	require.NoError(t, err)
	assert.Equal(t, input, string(read))
	// the child shares the already consumed offset
	assert.Equal(t, "", output)
}

func TestDo_InputForChild(t *testing.T) {
	input := "piped to child"
	output, err := Do(Both, &input, func() error {
		child := exec.Command("cat")
		child.Stdin = os.Stdin
		child.Stdout = os.Stdout
		return child.Run()
	})
	require.NoError(t, err)
	assert.Equal(t, input, output)
}

func TestDo_RestoresAfterPanic(t *testing.T) {
	out, errFD := identity(t, fdStdout), identity(t, fdStderr)

	func() {
		defer func() {
			r := recover()
			assert.Equal(t, "kaboom", r)
		}()
		_, _ = Do(Both, nil, func() error {
			fmt.Println("about to panic")
			panic("kaboom")
		})
	}()

	assert.Equal(t, out, identity(t, fdStdout))
	assert.Equal(t, errFD, identity(t, fdStderr))
	assert.False(t, Active())
}

func TestOpen_RejectsNestedSession(t *testing.T) {
	s, err := Open(Both)
	require.NoError(t, err)

	_, err = Open(Stdout)
	assert.ErrorIs(t, err, ErrSessionActive)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "Close must be idempotent")

	again, err := Open(Stderr)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestSession_OutputBeforeClose(t *testing.T) {
	s, err := Open(Both)
	require.NoError(t, err)

	fmt.Print("pending")
	_, err = s.Output()
	outputErr := err

	require.NoError(t, s.Close())
	assert.ErrorIs(t, outputErr, ErrIncomplete)

	out, err := s.Output()
	require.NoError(t, err)
	assert.Equal(t, "pending", out)
	assert.Equal(t, "pending", s.String())
}

func TestOpen_InvalidMode(t *testing.T) {
	_, err := Open(Mode(7))
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestDo_RepeatedRunsKeepDescriptors(t *testing.T) {
	out, errFD := identity(t, fdStdout), identity(t, fdStderr)
	openBefore := countOpenFDs(t)

	modes := []Mode{Both, Stdout, Stderr, None}
	for i := 0; i < 1000; i++ {
		mode := modes[i%len(modes)]
		output, err := Do(mode, nil, func() error {
			if mode.Redirects() {
				fmt.Fprintf(os.Stdout, "run %d\n", i)
			}
			return nil
		})
		require.NoError(t, err)
		if mode == Both || mode == Stdout {
			require.Equal(t, fmt.Sprintf("run %d\n", i), output)
		}
	}

	assert.Equal(t, out, identity(t, fdStdout))
	assert.Equal(t, errFD, identity(t, fdStderr))
	assert.Equal(t, openBefore, countOpenFDs(t))
}
