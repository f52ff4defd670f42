package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/irontracker/internal/gymstats/export"
)

func TestCSV_RoundTrip(t *testing.T) {
	all := fakeLog(t, 40)
	all = append(all, logged(t, "2024-06-10", "Squat", 140, 5, 3, `paused, "tempo" 3-1-0`))

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, all))

	firstLine, _, _ := strings.Cut(buf.String(), "\n")
	assert.Equal(t, "date,exercise,muscle_group,weight,reps,sets,sleep_hours,notes,estimated_1rm,volume", firstLine)

	parsed, skipped, err := export.ReadCSV(&buf)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, parsed, len(all))

	for i := range all {
		assert.True(t, all[i].Date.Equal(parsed[i].Date), "entry %d date", i)
		parsed[i].Date = all[i].Date
		assert.Equal(t, all[i], parsed[i], "entry %d", i)
	}
}

func TestReadCSV_WithoutHeader(t *testing.T) {
	body := "2024-06-01,Bench Press,Chest,100,5,3,8,,116.67,1500\n"

	parsed, skipped, err := export.ReadCSV(strings.NewReader(body))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, parsed, 1)
	assert.Equal(t, "Bench Press", parsed[0].Exercise)
	// stored derived values are kept as they are
	assert.Equal(t, 116.67, parsed[0].EstimatedOneRepMax)
}

func TestReadCSV_SkipsBadRecords(t *testing.T) {
	body := strings.Join([]string{
		"date,exercise,muscle_group,weight,reps,sets,sleep_hours,notes,estimated_1rm,volume",
		"2024-06-01,Bench Press,Chest,100,5,3,8,,116.67,1500",
		"yesterday,Bench Press,Chest,100,5,3,8,,116.67,1500",
		"2024-06-02,Squat,Legs",
		"2024-06-03,Squat,Legs,heavy,5,3,8,,0,0",
	}, "\n")

	parsed, skipped, err := export.ReadCSV(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, parsed, 2)
	assert.Equal(t, "Squat", parsed[1].Exercise)
	assert.Zero(t, parsed[1].Weight)
}

func TestReadCSV_Empty(t *testing.T) {
	parsed, skipped, err := export.ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Empty(t, parsed)
}

func TestReadCSV_NonFiniteCells(t *testing.T) {
	body := "2024-06-01,Squat,Legs,Inf,5,3,NaN,,+Inf,1e400\n"

	parsed, skipped, err := export.ReadCSV(strings.NewReader(body))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, parsed, 1)
	assert.Zero(t, parsed[0].Weight)
	assert.Zero(t, parsed[0].SleepHours)
	assert.Zero(t, parsed[0].EstimatedOneRepMax)
	assert.Zero(t, parsed[0].Volume)

	// rows with finite but absurd values are skipped, their sums would overflow
	body = "2024-06-01,Squat,Legs,1e308,5,3,8,,0,1e308\n2024-06-02,Squat,Legs,100,5,3,8,,116.67,1500\n"
	parsed, skipped, err = export.ReadCSV(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, parsed, 1)
	assert.Equal(t, 100.0, parsed[0].Weight)

	// imported rows must stay encodable for every view
	_, err = json.Marshal(parsed)
	require.NoError(t, err)
}
