package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProgressBar(t *testing.T) {
	require.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	require.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
	require.Equal(t, "█████ 100%", ProgressBar(5, 5, 5))
}

func TestPanelStringPadsToWidestLine(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })

	got := PanelString([]string{"ab", "abcd"})
	want := strings.Join([]string{
		"+------+",
		"| ab   |",
		"| abcd |",
		"+------+",
		"",
	}, "\n")
	require.Equal(t, want, got)
}

func TestColorOnlyWhenForced(t *testing.T) {
	SetTheme("classic")
	var out bytes.Buffer
	prev := Stdout
	Stdout = &out
	t.Cleanup(func() {
		Stdout = prev
		SetColorForcing(false, false)
	})

	require.Equal(t, "x", C(fgRed, "x"), "buffers are not terminals")
	SetColorForcing(true, false)
	require.Equal(t, fgRed+"x"+reset, C(fgRed, "x"))
	SetColorForcing(true, true)
	require.Equal(t, "x", C(fgRed, "x"))

	SetColorForcing(false, false)
	OK("saved")
	require.Equal(t, "✔ saved\n", out.String())
}

func TestFailWritesToStderr(t *testing.T) {
	var errOut bytes.Buffer
	prev := Stderr
	Stderr = &errOut
	SetColorForcing(false, true)
	t.Cleanup(func() {
		Stderr = prev
		SetColorForcing(false, false)
	})

	Fail("boom")
	Hint("try again")
	require.Equal(t, "✖ boom\nHint: try again\n", errOut.String())
}

func TestSetThemeUnknownFallsBack(t *testing.T) {
	require.False(t, SetTheme("sparkly"))
	require.Equal(t, "classic", Current().Name)
	require.True(t, SetTheme("neon"))
	require.Equal(t, "◼", Current().BoxChecked)
	SetTheme("classic")
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "just now", RelativeTime(now.Add(-30*time.Second), now))
	require.Equal(t, "5m ago", RelativeTime(now.Add(-5*time.Minute), now))
	require.Equal(t, "3h ago", RelativeTime(now.Add(-3*time.Hour), now))
	require.NotContains(t, RelativeTime(now.Add(-48*time.Hour), now), "ago")
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
}
