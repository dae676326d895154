package gtfs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/table"
	"github.com/abasis-ltd/gtfs.guru-sub001/mocks"
)

func minimalFiles() gtfs.MapFiles {
	return gtfs.MapFiles{
		"agency.txt":     []byte("agency_name,agency_url,agency_timezone\nMetro,https://metro.example,Europe/Paris\n"),
		"stops.txt":      []byte("stop_id,stop_name,stop_lat,stop_lon\nS1,Central,48.85,2.35\n"),
		"routes.txt":     []byte("route_id,route_short_name,route_type\nR1,1,3\n"),
		"trips.txt":      []byte("route_id,service_id,trip_id\nR1,WK,T1\n"),
		"stop_times.txt": []byte("trip_id,stop_id,stop_sequence,arrival_time,departure_time\nT1,S1,1,08:00:00,08:00:00\n"),
	}
}

func TestRead_MinimalFeed(t *testing.T) {
	sink := notice.NewContainer()
	feed := gtfs.Read(minimalFiles(), sink, nil)

	assert.Equal(t, 0, sink.Len())
	assert.Equal(t, 1, feed.Agencies.Len())
	assert.Equal(t, "Europe/Paris", feed.Agencies.Rows[0].Timezone)
	require.Equal(t, 1, feed.StopTimes.Len())
	assert.Equal(t, table.HMS(8, 0, 0), *feed.StopTimes.Rows[0].ArrivalTime)

	assert.Nil(t, feed.Calendars)
	assert.False(t, feed.Calendars.Present())
	assert.Nil(t, feed.Locations)
}

func TestRead_PresenceOutcomesAreDistinct(t *testing.T) {
	files := minimalFiles()
	delete(files, "agency.txt")
	files["calendar.txt"] = []byte("service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n")
	files["levels.txt"] = []byte("level_name\nGround\n")

	sink := notice.NewContainer()
	feed := gtfs.Read(files, sink, nil)

	require.NotNil(t, feed.Agencies)
	assert.Equal(t, table.StatusMissingFile, feed.Agencies.Status)

	require.NotNil(t, feed.Calendars)
	assert.Equal(t, table.StatusOK, feed.Calendars.Status)
	assert.True(t, feed.Calendars.Empty())

	assert.Equal(t, table.StatusParseError, feed.Levels.Status)
	assert.True(t, feed.Levels.HasFatalErrors())

	assert.Nil(t, feed.Pathways)
}

func TestRead_UnknownFile(t *testing.T) {
	files := minimalFiles()
	files["notes.txt"] = []byte("hello\n")

	sink := notice.NewContainer()
	gtfs.Read(files, sink, nil)

	require.Equal(t, 1, sink.Len())
	n := sink.Notices()[0]
	assert.Equal(t, gtfs.CodeUnknownFile, n.Code)
	assert.Equal(t, notice.Info, n.Severity)
	assert.Equal(t, "notes.txt", n.File)
}

func TestRead_Locations(t *testing.T) {
	files := minimalFiles()
	files["locations.geojson"] = []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"zone1","properties":{},"geometry":{"type":"Polygon","coordinates":[[[2,48],[3,48],[3,49],[2,49],[2,48]]]}}
	]}`)

	feed := gtfs.Read(files, notice.NewContainer(), nil)

	require.NotNil(t, feed.Locations)
	assert.True(t, feed.Locations.Has("zone1"))
	assert.False(t, feed.Locations.HasFatalErrors())
	assert.Empty(t, feed.Locations.Notices())
}

type failingFiles struct{ gtfs.MapFiles }

func (f failingFiles) Read(name string) ([]byte, error) {
	if name == "routes.txt" {
		return nil, errors.New("checksum mismatch")
	}
	return f.MapFiles.Read(name)
}

func TestRead_UnreadableFile(t *testing.T) {
	sink := notice.NewContainer()
	feed := gtfs.Read(failingFiles{minimalFiles()}, sink, nil)

	assert.True(t, feed.Routes.HasFatalErrors())
	require.Equal(t, 1, sink.Len())
	assert.Equal(t, table.CodeCSVParsingFailed, sink.Notices()[0].Code)
}

func TestRead_ReportsProgress(t *testing.T) {
	reporter := new(mocks.MockProgressReporter)
	reporter.On("SetTotalFiles", 5).Once()
	reporter.On("OnStartFileLoad", mock.AnythingOfType("string")).Times(5)
	reporter.On("OnFinishFileLoad", mock.AnythingOfType("string")).Times(5)

	gtfs.Read(minimalFiles(), notice.NewContainer(), reporter)

	reporter.AssertExpectations(t)
	reporter.AssertCalled(t, "OnStartFileLoad", "stop_times.txt")
}
