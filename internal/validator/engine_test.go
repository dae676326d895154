package validator_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator/rules"
	"github.com/abasis-ltd/gtfs.guru-sub001/mocks"
)

var now = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

func emit(code string) func(*gtfs.Feed, *validator.Config, *notice.Container) {
	return func(_ *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
		sink.Add(notice.New(code, notice.Warning, code))
	}
}

func noisyFeed() *gtfs.Feed {
	files := gtfs.MapFiles{
		"agency.txt": []byte("agency_name,agency_url,agency_timezone\n" +
			"Metro,https://metro.example,Europe/Paris\n" +
			"Bus,https://bus.example,Europe/Berlin\n"),
		"stops.txt": []byte("stop_id,stop_name,stop_lat,stop_lon,location_type,parent_station\n" +
			"S1,Central,48.85,2.35,0,\n" +
			"S1,CENTRAL,0.1,0.1,0,ST\n" +
			"N1,,,,3,\n"),
		"routes.txt": []byte("route_id,route_short_name,route_long_name,route_type,route_color,route_text_color\n" +
			"R1,1,1,3,FFFFFF,EEEEEE\n" +
			"R2,,,3,,\n"),
		"trips.txt": []byte("route_id,service_id,trip_id,block_id\nR1,WK,T1,B\nR9,WK,T2,B\nR2,XX,T3,\n"),
		"stop_times.txt": []byte("trip_id,stop_id,stop_sequence,arrival_time,departure_time\n" +
			"T1,S1,1,08:00:00,08:30:00\n" +
			"T1,S9,2,08:10:00,08:05:00\n" +
			"T2,S1,1,08:15:00,08:15:00\n" +
			"T2,S1,2,09:00:00,\n"),
		"frequencies.txt": []byte("trip_id,start_time,end_time,headway_secs\n" +
			"T1,06:00:00,08:00:00,600\nT1,07:00:00,09:00:00,0\n"),
		"calendar.txt": []byte("service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
			"WK,1,1,1,1,1,0,0,20250101,20251231\n"),
	}
	return gtfs.Read(files, notice.NewContainer(), nil)
}

func TestEngine_SequentialAndParallelOutputIdentical(t *testing.T) {
	feed := noisyFeed()
	cfg := validator.DefaultConfig(now)
	cfg.VendorRules = true
	cfg.Thorough = true

	serial := validator.NewEngine(rules.NewRegistry(), nil)
	want, err := serial.Run(context.Background(), feed, cfg)
	require.NoError(t, err)
	require.Greater(t, want.Len(), 10)
	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		parallel := validator.NewEngine(rules.NewRegistry(), nil)
		parallel.Parallelism = 8
		got, err := parallel.Run(context.Background(), feed, cfg)
		require.NoError(t, err)
		gotJSON, err := json.Marshal(got)
		require.NoError(t, err)
		assert.Equal(t, string(wantJSON), string(gotJSON))
	}
}

func TestEngine_MergesInRegistrationOrder(t *testing.T) {
	reg := validator.NewRegistry(
		validator.New("slow", func(feed *gtfs.Feed, cfg *validator.Config, sink *notice.Container) {
			time.Sleep(20 * time.Millisecond)
			emit("first")(feed, cfg, sink)
		}),
		validator.New("fast", emit("second")),
	)
	e := validator.NewEngine(reg, nil)
	e.Parallelism = 2

	out, err := e.Run(context.Background(), &gtfs.Feed{}, validator.DefaultConfig(now))
	require.NoError(t, err)

	require.Equal(t, 2, out.Len())
	assert.Equal(t, "first", out.Notices()[0].Code)
	assert.Equal(t, "second", out.Notices()[1].Code)
}

func TestEngine_PanicIsIsolated(t *testing.T) {
	for _, parallelism := range []int{1, 4} {
		reg := validator.NewRegistry(
			validator.New("before", emit("before")),
			validator.New("broken", func(_ *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
				sink.Add(notice.New("partial", notice.Error, "partial"))
				panic("index out of range")
			}),
			validator.New("after", emit("after")),
		)
		e := validator.NewEngine(reg, nil)
		e.Parallelism = parallelism

		out, err := e.Run(context.Background(), &gtfs.Feed{}, validator.DefaultConfig(now))
		require.NoError(t, err)

		require.Equal(t, 3, out.Len())
		assert.Equal(t, "before", out.Notices()[0].Code)
		crash := out.Notices()[1]
		assert.Equal(t, validator.CodeRuntimeException, crash.Code)
		assert.Equal(t, notice.Error, crash.Severity)
		v, _ := crash.Get("validator")
		assert.Equal(t, "broken", v.StringVal())
		v, _ = crash.Get("exception")
		assert.Equal(t, "index out of range", v.StringVal())
		assert.Equal(t, "after", out.Notices()[2].Code)
	}
}

func TestEngine_SkipsConfiguredValidators(t *testing.T) {
	reg := validator.NewRegistry(
		validator.New("a", emit("a")),
		validator.New("b", emit("b")),
	)
	cfg := validator.DefaultConfig(now)
	cfg.Skip = []string{"a"}

	out, err := validator.NewEngine(reg, nil).Run(context.Background(), &gtfs.Feed{}, cfg)
	require.NoError(t, err)

	require.Equal(t, 1, out.Len())
	assert.Equal(t, "b", out.Notices()[0].Code)
}

func TestEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, parallelism := range []int{1, 4} {
		e := validator.NewEngine(rules.NewRegistry(), nil)
		e.Parallelism = parallelism
		out, err := e.Run(ctx, noisyFeed(), validator.DefaultConfig(now))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, out)
	}
}

func TestEngine_ReportsProgress(t *testing.T) {
	reporter := new(mocks.MockProgressReporter)
	reporter.On("SetTotalValidators", 2).Once()
	reporter.On("OnStartValidation", mock.AnythingOfType("string")).Twice()
	reporter.On("OnFinishValidation", mock.AnythingOfType("string")).Twice()
	reporter.On("IncrementValidatorProgress").Twice()

	reg := validator.NewRegistry(validator.New("a", emit("a")), validator.New("b", emit("b")))
	_, err := validator.NewEngine(reg, reporter).Run(context.Background(), &gtfs.Feed{}, validator.DefaultConfig(now))
	require.NoError(t, err)

	reporter.AssertExpectations(t)
}

func TestRegistry_DuplicateNamePanics(t *testing.T) {
	reg := validator.NewRegistry(validator.New("a", emit("a")))
	assert.Panics(t, func() { reg.Register(validator.New("a", emit("a"))) })
}

func TestRegistry_OrderAndLookup(t *testing.T) {
	reg := validator.NewRegistry(
		validator.New("one", emit("1")),
		validator.New("two", emit("2")),
		validator.New("three", emit("3")),
	)

	var names []string
	for _, v := range reg.Enabled([]string{"two"}) {
		names = append(names, v.Name())
	}
	assert.Equal(t, []string{"one", "three"}, names)
	assert.Equal(t, 3, reg.Len())
	assert.NotNil(t, reg.Get("two"))
	assert.Nil(t, reg.Get("four"))
}

func TestConfig_Today(t *testing.T) {
	cfg := validator.DefaultConfig(time.Date(2026, time.March, 2, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "20260302", cfg.Today().String())
	assert.False(t, cfg.Skipped("x"))
	cfg.Skip = []string{"x"}
	assert.True(t, cfg.Skipped("x"))
}
