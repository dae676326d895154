package table_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/table"
)

type testStop struct {
	ID           string
	Name         string
	Lat          *float64
	LocationType *int
	Timezone     string
}

var testStopSchema = table.Schema[testStop]{
	File:     "stops.txt",
	Required: true,
	Fields: []table.Field{
		{Name: "stop_id", Required: true},
		{Name: "stop_name"},
		{Name: "stop_lat"},
		{Name: "location_type"},
		{Name: "stop_timezone"},
	},
	Build: func(r *table.Row) testStop {
		return testStop{
			ID:           r.Text("stop_id"),
			Name:         r.Text("stop_name"),
			Lat:          r.Float("stop_lat"),
			LocationType: r.Enum("location_type", 0, 1, 2, 3, 4),
			Timezone:     r.Timezone("stop_timezone"),
		}
	},
}

func parse(t *testing.T, content string) (*table.Table[testStop], *notice.Container) {
	t.Helper()
	sink := notice.NewContainer()
	tbl := table.Parse([]byte(content), testStopSchema, sink)
	require.NotNil(t, tbl)
	require.Equal(t, len(tbl.Rows), len(tbl.RowNumbers))
	return tbl, sink
}

func codes(c *notice.Container) []string {
	var out []string
	for _, n := range c.Notices() {
		out = append(out, n.Code)
	}
	return out
}

func TestParse_RowNumbersMatchPhysicalLines(t *testing.T) {
	content := "stop_id,stop_name\n" +
		"S1,First\n" +
		"\n" +
		"S2,\"Multi\nLine\"\n" +
		"S3,Third\n"
	tbl, _ := parse(t, content)

	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, []int{2, 4, 6}, tbl.RowNumbers)
	assert.Equal(t, "S3", tbl.Rows[2].ID)
}

func TestParse_HeaderCaseInsensitive(t *testing.T) {
	tbl, sink := parse(t, "STOP_ID,Stop_Name,extra\nS1,Name,x\n")

	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Name", tbl.Rows[0].Name)
	assert.Equal(t, []string{"STOP_ID", "Stop_Name", "extra"}, tbl.Headers)
	assert.True(t, tbl.HasColumn("stop_name"))
	assert.False(t, tbl.HasColumn("stop_lat"))
	assert.Equal(t, []string{table.CodeUnknownColumn}, codes(sink))
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	tbl, sink := parse(t, "stop_name\nFirst\n")

	assert.Equal(t, table.StatusParseError, tbl.Status)
	assert.True(t, tbl.HasFatalErrors())
	assert.False(t, tbl.Usable())
	assert.Empty(t, tbl.Rows)
	assert.Equal(t, []string{table.CodeMissingRequiredColumn}, codes(sink))
}

func TestParse_DuplicatedColumn(t *testing.T) {
	tbl, sink := parse(t, "stop_id,stop_name,STOP_NAME\nS1,a,b\n")

	assert.Equal(t, table.StatusParseError, tbl.Status)
	assert.Equal(t, []string{table.CodeDuplicatedColumn}, codes(sink))
}

func TestParse_EmptyFile(t *testing.T) {
	t.Run("zero_bytes", func(t *testing.T) {
		tbl, sink := parse(t, "")
		assert.Equal(t, table.StatusOK, tbl.Status)
		assert.True(t, tbl.Present())
		assert.True(t, tbl.Empty())
		require.Equal(t, 1, sink.Len())
		assert.Equal(t, table.CodeEmptyFile, sink.Notices()[0].Code)
		assert.Equal(t, notice.Error, sink.Notices()[0].Severity)
	})

	t.Run("header_only", func(t *testing.T) {
		tbl, sink := parse(t, "stop_id,stop_name\n")
		assert.Equal(t, table.StatusOK, tbl.Status)
		assert.Equal(t, 0, tbl.Len())
		assert.Equal(t, []string{table.CodeEmptyFile}, codes(sink))
	})

	t.Run("optional_file_is_warning", func(t *testing.T) {
		schema := testStopSchema
		schema.Required = false
		sink := notice.NewContainer()
		table.Parse([]byte("stop_id\n"), schema, sink)
		require.Equal(t, 1, sink.Len())
		assert.Equal(t, notice.Warning, sink.Notices()[0].Severity)
	})
}

func TestParse_BOMAndInvalidUTF8(t *testing.T) {
	tbl, sink := parse(t, "\xEF\xBB\xBFstop_id\nS1\n")
	assert.Equal(t, 0, sink.Len())
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "S1", tbl.Rows[0].ID)

	tbl, sink = parse(t, "stop_id\nS\xff1\n")
	assert.Equal(t, table.StatusParseError, tbl.Status)
	assert.Equal(t, []string{table.CodeCSVParsingFailed}, codes(sink))
}

func TestParse_MalformedQuoting(t *testing.T) {
	tbl, sink := parse(t, "stop_id,stop_name\nS1,\"unterminated\nS2,ok\n")

	assert.Equal(t, table.StatusOK, tbl.Status)
	assert.Empty(t, tbl.Rows)
	assert.Equal(t, []string{table.CodeCSVParsingFailed}, codes(sink))
}

func TestParse_BareQuoteSkipsOnlyThatRow(t *testing.T) {
	content := "stop_id,stop_name\n" +
		"S1,Joe's \"Diner\"\n" +
		"S2,Station\n" +
		"S3,Park\n"
	tbl, sink := parse(t, content)

	assert.Equal(t, table.StatusOK, tbl.Status)
	assert.True(t, tbl.Usable())
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []int{3, 4}, tbl.RowNumbers)
	assert.Equal(t, "S2", tbl.Rows[0].ID)

	require.Equal(t, 1, sink.Len())
	n := sink.Notices()[0]
	assert.Equal(t, table.CodeCSVParsingFailed, n.Code)
	assert.Equal(t, 2, n.Row)
	row, ok := n.Get("csvRowNumber")
	require.True(t, ok)
	assert.Equal(t, int64(2), row.IntVal())
}

func TestParse_HeaderNoticesUseHeaderLine(t *testing.T) {
	_, sink := parse(t, "\n\nstop_id,stop_name,extra\nS1,a,b\n")

	require.Equal(t, []string{table.CodeUnknownColumn}, codes(sink))
	assert.Equal(t, 3, sink.Notices()[0].Row)
}

func TestParse_RowLevelProblemsAreIsolated(t *testing.T) {
	content := "stop_id,stop_name,stop_lat,location_type\n" +
		"S1,One,abc,0\n" + // invalid float
		"S2,Two\n" + // wrong length, skipped
		",,,\n" + // empty row, skipped
		"S3, Three ,1.5,9\n" + // whitespace + bad enum
		",Four,1,1\n" // missing stop_id
	tbl, sink := parse(t, content)

	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, []int{2, 5, 6}, tbl.RowNumbers)
	assert.Nil(t, tbl.Rows[0].Lat)
	assert.Equal(t, "Three", tbl.Rows[1].Name)
	assert.Nil(t, tbl.Rows[1].LocationType)
	require.NotNil(t, tbl.Rows[2].LocationType)
	assert.Equal(t, 1, *tbl.Rows[2].LocationType)

	assert.Equal(t, []string{
		table.CodeInvalidFloat,
		table.CodeInvalidRowLength,
		table.CodeEmptyRow,
		table.CodeLeadingOrTrailingWhitespace,
		table.CodeUnexpectedEnumValue,
		table.CodeMissingRequiredField,
	}, codes(sink))

	first := sink.Notices()[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, []string{"filename", "csvRowNumber", "fieldName", "fieldValue"}, first.Fields())
}

func TestParse_Timezone(t *testing.T) {
	tbl, sink := parse(t, "stop_id,stop_timezone\nS1,Europe/Berlin\nS2,Mars/Olympus\n")

	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "Europe/Berlin", tbl.Rows[0].Timezone)
	assert.Empty(t, tbl.Rows[1].Timezone)
	assert.Equal(t, []string{table.CodeInvalidTimezone}, codes(sink))
}

func TestTable_NilSafety(t *testing.T) {
	var tbl *table.Table[testStop]
	assert.False(t, tbl.Present())
	assert.False(t, tbl.Usable())
	assert.False(t, tbl.HasFatalErrors())
	assert.False(t, tbl.HasColumn("stop_id"))
	assert.Equal(t, 0, tbl.Len())
	for range tbl.All() {
		t.Fatal("nil table must not yield rows")
	}

	missing := table.Missing[testStop]("stops.txt")
	assert.False(t, missing.Present())
	assert.Equal(t, table.StatusMissingFile, missing.Status)
}

func TestTable_AllYieldsRowNumbers(t *testing.T) {
	tbl, _ := parse(t, "stop_id\nA\n\nB\n")

	var got []int
	for line, s := range tbl.All() {
		got = append(got, line)
		assert.NotEmpty(t, s.ID)
	}
	assert.Equal(t, []int{2, 4}, got)
}
