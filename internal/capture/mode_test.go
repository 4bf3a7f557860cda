package capture

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCast(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  Mode
	}{
		{"nil means both", nil, Both},
		{"true means both", true, Both},
		{"false means none", false, None},
		{"mode is kept", Stderr, Stderr},
		{"stdout string", "stdout", Stdout},
		{"stderr string", "stderr", Stderr},
		{"both string", "both", Both},
		{"none string", "none", None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cast(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCast_Invalid(t *testing.T) {
	for _, value := range []any{"STDOUT", "", "all", 3, Mode(42)} {
		_, err := Cast(value)
		require.Error(t, err, "Cast(%v)", value)
		assert.True(t, errors.Is(err, ErrInvalidMode))

		var modeErr *InvalidModeError
		assert.True(t, errors.As(err, &modeErr))
	}
}

func TestModeString(t *testing.T) {
	for _, name := range Names() {
		mode, err := Parse(name)
		require.NoError(t, err)
		assert.Equal(t, name, mode.String())
	}
	assert.Equal(t, "mode(9)", Mode(9).String())
}

func TestModeWants(t *testing.T) {
	tests := []struct {
		mode             Mode
		wantOut, wantErr bool
	}{
		{Both, true, true},
		{Stdout, true, false},
		{Stderr, false, true},
		{None, false, false},
	}
	for _, tt := range tests {
		out, err := tt.mode.Wants()
		assert.Equal(t, tt.wantOut, out, tt.mode.String())
		assert.Equal(t, tt.wantErr, err, tt.mode.String())
	}
	assert.False(t, None.Redirects())
	assert.True(t, Stdout.Redirects())
}

func TestDecode(t *testing.T) {
	assert.Equal(t, "héllo", Decode([]byte("héllo")))
	assert.Equal(t, "ÿa", Decode([]byte{0xff, 'a'}))
	assert.Equal(t, "", Decode(nil))
}
