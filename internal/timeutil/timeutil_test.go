package timeutil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInZoneRebasesInstant(t *testing.T) {
	ny, err := LoadZone("America/New_York")
	require.NoError(t, err)

	got, err := ParseInZone("2024-06-01T10:00:00-04:00", ny)
	require.NoError(t, err)

	want := time.Date(2024, 6, 1, 10, 0, 0, 0, ny)
	assert.True(t, got.Equal(want))
	assert.Equal(t, "America/New_York", got.Location().String())
}

func TestParseInZoneKeepsInstantAcrossZones(t *testing.T) {
	tokyo, err := LoadZone("Asia/Tokyo")
	require.NoError(t, err)

	got, err := ParseInZone("2024-06-01T10:00:00-04:00", tokyo)
	require.NoError(t, err)

	// Same absolute instant, expressed in Tokyo
	utc := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	assert.True(t, got.Equal(utc))
	assert.Equal(t, 23, got.Hour())
}

func TestParseInZoneRejectsMalformedInput(t *testing.T) {
	ny, err := LoadZone("America/New_York")
	require.NoError(t, err)

	cases := []string{
		"",
		"not-a-timestamp",
		"2024-06-01",
		"2024-06-01 10:00:00",
	}
	for _, raw := range cases {
		_, err := ParseInZone(raw, ny)
		assert.ErrorIs(t, err, ErrInvalidTimestamp, "input %q", raw)
	}
}

func TestLoadZoneRejectsUnknownZone(t *testing.T) {
	_, err := LoadZone("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}

func TestFormatInZoneUsesOffsetInEffect(t *testing.T) {
	winter := time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)
	summer := time.Date(2024, 6, 15, 16, 0, 0, 0, time.UTC)

	got, err := FormatInZone(winter, "America/New_York")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, "-05:00"), "got %q", got)

	got, err = FormatInZone(summer, "America/New_York")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, "-04:00"), "got %q", got)
}

func TestFormatInZoneRoundTrip(t *testing.T) {
	ny, err := LoadZone("America/New_York")
	require.NoError(t, err)

	parsed, err := ParseInZone("2024-06-01T10:00:00-04:00", ny)
	require.NoError(t, err)

	rendered, err := FormatInZone(parsed, "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T10:00:00-04:00", rendered)
}

func TestFormatInZoneUnknownZone(t *testing.T) {
	_, err := FormatInZone(time.Now(), "Nowhere/Nothing")
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}
