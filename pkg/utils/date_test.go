package utils

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOnly_UsesLocalCalendarDate(t *testing.T) {
	loc, err := LoadLocation("America/New_York")
	require.NoError(t, err)

	// 23:30 in New York is already the next day in UTC
	ts := time.Date(2026, 3, 10, 23, 30, 0, 0, loc)
	assert.Equal(t, "2026-03-10", FormatDate(DateOnly(ts)))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 1, 1, 22, 0, 0, 0, time.UTC)
	b := time.Date(2026, 1, 8, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 7, DaysBetween(a, b))
	assert.Equal(t, -7, DaysBetween(b, a))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("28-02-2026")
	assert.Error(t, err)
}
