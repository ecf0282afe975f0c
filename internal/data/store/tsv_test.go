package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *model.Table {
	return model.NewTable([]model.CanonicalRow{
		{Date: "2024-03-01", TimeOfDay: model.NewClock(9, 0, 0), Current: 5, SpeedMs: 250, Temperature: 20.5, Distance: 100, WoodPresent: 1},
		{Date: "2024-03-01", TimeOfDay: model.NewClock(9, 0, 1), Current: 0.125, Temperature: 21},
	})
}

func TestEncodeTSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeTSV(&buf, sampleTable()))

	want := "date\ttime_of_day\tcurrent\tspeed_ms\ttemperature\tdistance\twood_present\n" +
		"2024-03-01\t09:00:00\t5\t250\t20.5\t100\t1\n" +
		"2024-03-01\t09:00:01\t0.125\t0\t21\t0\t0\n"
	assert.Equal(t, want, buf.String())
}

func TestTSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeTSV(&buf, sampleTable()))

	decoded, err := DecodeTSV(&buf)
	require.NoError(t, err)
	assert.True(t, sampleTable().Equal(decoded))
}

func TestDecodeTSVLegacyHeader(t *testing.T) {
	input := "fecha\thora\tCorriente\tVelocidad (ms)\tTemperatura(ºC)\tDistancia(mm)\tMadera\n" +
		"2024-03-01\t18:30:00\t4.5\t300\t19\t80\t1\n"

	table, err := DecodeTSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, model.CanonicalRow{
		Date: "2024-03-01", TimeOfDay: model.NewClock(18, 30, 0),
		Current: 4.5, SpeedMs: 300, Temperature: 19, Distance: 80, WoodPresent: 1,
	}, table.Row(0))
}

func TestDecodeTSVReorderedColumns(t *testing.T) {
	input := "wood_present\tdate\ttime_of_day\tcurrent\tspeed_ms\ttemperature\tdistance\n" +
		"1\t2024-03-01\t07:00:00\t1\t2\t3\t4\n"

	table, err := DecodeTSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, 1, table.Row(0).WoodPresent)
	assert.Equal(t, 4.0, table.Row(0).Distance)
}

func TestDecodeTSVSkipsBadRows(t *testing.T) {
	input := "date\ttime_of_day\tcurrent\tspeed_ms\ttemperature\tdistance\twood_present\n" +
		"2024-03-01\tnoon\t1\t0\t0\t0\t0\n" +
		"2024-03-01\t09:00:00\t1\n" +
		"2024-03-01\t09:00:02\tx\t0\t0\t0\t0\n"

	table, err := DecodeTSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, 0.0, table.Row(0).Current)
}

func TestDecodeTSVErrors(t *testing.T) {
	_, err := DecodeTSV(strings.NewReader(""))
	assert.ErrorIs(t, err, model.ErrNoData)

	_, err = DecodeTSV(strings.NewReader("date\ttime_of_day\tcurrent\n"))
	assert.ErrorContains(t, err, "missing column")
}

func TestWriteAndReadTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "datos_exportados.txt")

	require.NoError(t, WriteTSV(path, sampleTable()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	table, err := ReadTSV(path)
	require.NoError(t, err)
	assert.True(t, sampleTable().Equal(table))

	require.NoError(t, WriteTSV(path, table))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestWriteTSVRejectsEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datos_filtrados.txt")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0644))

	err := WriteTSV(path, model.NewTable(nil))
	assert.ErrorIs(t, err, model.ErrNoData)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(content))
}

func TestReadTSVNoData(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadTSV(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, model.ErrNoData)

	headerOnly := filepath.Join(dir, "header.txt")
	require.NoError(t, os.WriteFile(headerOnly, []byte(strings.Join(model.CanonicalColumns, "\t")+"\n"), 0644))
	_, err = ReadTSV(headerOnly)
	assert.ErrorIs(t, err, model.ErrNoData)
}
