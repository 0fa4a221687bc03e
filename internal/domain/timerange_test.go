package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chairspace/backend/internal/domain"
)

// fixedClock is a Clock pinned to a known instant so past-start checks are
// deterministic in tests.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// testNow is the reference "now" all domain tests build ranges around.
var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// at returns testNow shifted by d.
func at(d time.Duration) time.Time { return testNow.Add(d) }

// mustRange builds a TimeRange relative to testNow, failing the test on error.
func mustRange(t *testing.T, start, end time.Duration) domain.TimeRange {
	t.Helper()
	r, err := domain.NewTimeRange(at(start), at(end), fixedClock{testNow})
	require.NoError(t, err)
	return r
}

func TestNewTimeRange_Valid(t *testing.T) {
	r, err := domain.NewTimeRange(at(time.Hour), at(2*time.Hour), fixedClock{testNow})

	require.NoError(t, err)
	assert.True(t, r.Start.Equal(at(time.Hour)))
	assert.True(t, r.End.Equal(at(2*time.Hour)))
}

func TestNewTimeRange_StartInPast(t *testing.T) {
	_, err := domain.NewTimeRange(at(-time.Minute), at(time.Hour), fixedClock{testNow})

	assert.ErrorIs(t, err, domain.ErrState)
}

func TestNewTimeRange_StartExactlyNow(t *testing.T) {
	// Start must be strictly after now; equality is rejected.
	_, err := domain.NewTimeRange(testNow, at(time.Hour), fixedClock{testNow})

	assert.ErrorIs(t, err, domain.ErrState)
}

func TestNewTimeRange_EndBeforeStart(t *testing.T) {
	_, err := domain.NewTimeRange(at(2*time.Hour), at(time.Hour), fixedClock{testNow})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewTimeRange_EmptyRange(t *testing.T) {
	_, err := domain.NewTimeRange(at(time.Hour), at(time.Hour), fixedClock{testNow})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewTimeRange_ZeroTimes(t *testing.T) {
	_, err := domain.NewTimeRange(time.Time{}, at(time.Hour), fixedClock{testNow})

	assert.ErrorIs(t, err, domain.ErrArgument)
}

func TestTimeRange_Overlaps(t *testing.T) {
	base := mustRange(t, 1*time.Hour, 2*time.Hour) // [13:00, 14:00)

	tests := []struct {
		name       string
		start, end time.Duration
		want       bool
	}{
		{"identical", 1 * time.Hour, 2 * time.Hour, true},
		{"contained", 80 * time.Minute, 100 * time.Minute, true},
		{"containing", 30 * time.Minute, 3 * time.Hour, true},
		{"overlaps start", 30 * time.Minute, 90 * time.Minute, true},
		{"overlaps end", 90 * time.Minute, 3 * time.Hour, true},
		{"back-to-back before", 30 * time.Minute, 1 * time.Hour, false},
		{"back-to-back after", 2 * time.Hour, 3 * time.Hour, false},
		{"fully before", 10 * time.Minute, 40 * time.Minute, false},
		{"fully after", 3 * time.Hour, 4 * time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := mustRange(t, tt.start, tt.end)
			assert.Equal(t, tt.want, base.Overlaps(other))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, other.Overlaps(base))
		})
	}
}

func TestTimeRange_Contains(t *testing.T) {
	r := mustRange(t, 1*time.Hour, 2*time.Hour)

	assert.True(t, r.Contains(at(1*time.Hour)), "start is inside the half-open range")
	assert.True(t, r.Contains(at(90*time.Minute)))
	assert.False(t, r.Contains(at(2*time.Hour)), "end is outside the half-open range")
	assert.False(t, r.Contains(at(30*time.Minute)))
}
