package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, date)

	date, err = ParseDate("2024-02-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), *date)

	_, err = ParseDate("10/02/2024")
	assert.Error(t, err)
}

func TestEndOfDay(t *testing.T) {
	assert.Nil(t, EndOfDay(nil))

	date := time.Date(2024, 2, 10, 8, 30, 0, 0, time.UTC)
	end := EndOfDay(&date)
	assert.Equal(t, 2024, end.Year())
	assert.Equal(t, 10, end.Day())
	assert.True(t, end.Add(time.Nanosecond).Equal(time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC)))
}

func TestPeriods(t *testing.T) {
	assert.Equal(t, "01-2024", FormatPeriod(time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)))

	start, err := ParsePeriod("02-2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), MonthStart(time.Date(2024, 3, 17, 9, 0, 0, 0, time.UTC)))
}
