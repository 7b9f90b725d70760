package watchdog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCausedReboot(t *testing.T) {
	tests := []struct {
		name  string
		cause uint8
		want  bool
	}{
		{name: "clean boot", cause: 0x00, want: false},
		{name: "card reset", cause: 0x20, want: true},
		{name: "card reset with other flags", cause: 0x21, want: true},
		{name: "overheat only", cause: 0x01, want: false},
		{name: "fan fault only", cause: 0x02, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CausedReboot(tt.cause))
		})
	}
}

func TestCaptureResetCause(t *testing.T) {
	dir := t.TempDir()
	bootStatus := filepath.Join(dir, "bootstatus")
	mirror := filepath.Join(dir, "resetcause")

	require.NoError(t, os.WriteFile(bootStatus, []byte("32\n"), 0o644))

	cause, err := CaptureResetCause(bootStatus, mirror)
	require.NoError(t, err)
	require.Equal(t, uint8(0x20), cause)
	require.True(t, CausedReboot(cause))

	// The mirror holds exactly the captured byte.
	got, err := ReadMirror(mirror)
	require.NoError(t, err)
	require.Equal(t, cause, got)
}

func TestCaptureOverwritesPreviousBoot(t *testing.T) {
	dir := t.TempDir()
	bootStatus := filepath.Join(dir, "bootstatus")
	mirror := filepath.Join(dir, "resetcause")

	// Previous boot left a watchdog-reset marker behind.
	require.NoError(t, os.WriteFile(mirror, []byte{0x20}, 0o644))

	// This boot is clean; the capture must replace the stale value.
	require.NoError(t, os.WriteFile(bootStatus, []byte("0\n"), 0o644))
	cause, err := CaptureResetCause(bootStatus, mirror)
	require.NoError(t, err)
	require.Equal(t, uint8(0), cause)

	got, err := ReadMirror(mirror)
	require.NoError(t, err)
	require.False(t, CausedReboot(got))
}

func TestCaptureResetCauseErrors(t *testing.T) {
	dir := t.TempDir()
	mirror := filepath.Join(dir, "resetcause")

	_, err := CaptureResetCause(filepath.Join(dir, "missing"), mirror)
	require.Error(t, err)

	garbage := filepath.Join(dir, "garbage")
	require.NoError(t, os.WriteFile(garbage, []byte("not-a-number\n"), 0o644))
	_, err = CaptureResetCause(garbage, mirror)
	require.Error(t, err)
}

func TestReadMirrorErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadMirror(filepath.Join(dir, "missing"))
	require.Error(t, err)

	long := filepath.Join(dir, "long")
	require.NoError(t, os.WriteFile(long, []byte{1, 2}, 0o644))
	_, err = ReadMirror(long)
	require.Error(t, err)
}

func TestFakeRecordsArmAndKicks(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFake()
	f.Clock = func() time.Time { return now }

	require.NoError(t, f.Arm(time.Second))
	require.Len(t, f.Arms, 1)
	require.Len(t, f.Kicks, 1, "Arm must kick once")

	now = now.Add(50 * time.Millisecond)
	require.NoError(t, f.Kick())
	require.Len(t, f.Kicks, 2)
	require.Equal(t, 50*time.Millisecond, f.Kicks[1].Sub(f.Kicks[0]))

	require.NoError(t, f.Close())
	require.True(t, f.Closed)
}
