package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottolab/tombola-analytics/internal/engine"
)

func buildTestTable(t *testing.T, card, drum int) *engine.DistributionTable {
	t.Helper()
	table, err := engine.BuildTable(engine.GameParams{CardSize: card, DrumSize: drum})
	require.NoError(t, err)
	return table
}

func TestFlatten(t *testing.T) {
	table := buildTestTable(t, 2, 4)
	records := Flatten(table)

	// 4 rows of 3 classes each.
	require.Len(t, records, 12)
	assert.Equal(t, Record{Time: 1, Class: 0, Fraction: table.Rows[0].Classes[0]}, records[0])
	assert.Equal(t, 1, records[1].Class)
	assert.Equal(t, 4, records[11].Time)
	assert.Equal(t, 2, records[11].Class)
}

func TestWriteCSV(t *testing.T) {
	table := buildTestTable(t, 1, 2)
	var buf bytes.Buffer

	err := WriteCSV(&buf, Flatten(table))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "time,class,fraction", lines[0])
	assert.Equal(t, "1,0,0.5", lines[1])
	assert.Equal(t, "1,1,0.5", lines[2])
	assert.Equal(t, "2,0,0", lines[3])
	assert.Equal(t, "2,1,1", lines[4])
}

func TestFirstReach(t *testing.T) {
	table := buildTestTable(t, 1, 2)
	cum := engine.CumulativeAtLeast(table)

	// P(class >= 1) is 0.5 after one draw and 1 after two.
	first, ok := FirstReach(cum, 1, 0.5)
	require.True(t, ok)
	assert.Equal(t, 1, first)

	first, ok = FirstReach(cum, 1, 0.75)
	require.True(t, ok)
	assert.Equal(t, 2, first)

	_, ok = FirstReach(cum, 1, 1.5)
	assert.False(t, ok)

	_, ok = FirstReach(cum, 5, 0.5)
	assert.False(t, ok)
}

func TestExpectedClass(t *testing.T) {
	table := buildTestTable(t, 15, 90)
	means := ExpectedClass(table)
	require.Len(t, means, 90)

	// Hypergeometric mean: t * c / d.
	for i, mean := range means {
		tt := float64(i + 1)
		assert.InDelta(t, tt*15.0/90.0, mean, 1e-9, "t=%d", i+1)
	}
}

func TestBuildOverview(t *testing.T) {
	ov, err := BuildOverview(engine.GameParams{CardSize: 5, DrumSize: 90})
	require.NoError(t, err)
	assert.Equal(t, "43949268", ov.CardChoices.String())
	assert.Len(t, ov.DrawOrderings.String(), 139)

	_, err = BuildOverview(engine.GameParams{CardSize: 16, DrumSize: 15})
	assert.ErrorIs(t, err, engine.ErrInvalidParams)
}
