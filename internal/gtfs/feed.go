// Package gtfs holds the typed GTFS tables and the Feed aggregate that every
// validation rule reads.
package gtfs

import (
	"fmt"
	"sort"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/geo"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/port"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/progress"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/table"
)

// CodeUnknownFile flags a file that is not part of GTFS.
const CodeUnknownFile = "unknown_file"

// FileSet is the extracted content of a feed package.
type FileSet interface {
	Names() []string
	Has(name string) bool
	Read(name string) ([]byte, error)
}

// MapFiles is an in-memory FileSet keyed by file name.
type MapFiles map[string][]byte

func (m MapFiles) Names() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (m MapFiles) Has(name string) bool {
	_, ok := m[name]
	return ok
}

func (m MapFiles) Read(name string) ([]byte, error) {
	b, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("file %s not in feed", name)
	}
	return b, nil
}

// LocationIndex is the part of the parsed locations.geojson that rules use.
type LocationIndex interface {
	Has(id string) bool
	HasFatalErrors() bool
	Notices() []*notice.Notice
	Overlaps(a, b string) bool
}

// Feed is the immutable snapshot of one feed. Required tables are never nil;
// optional tables and Locations are nil when the file was not provided.
type Feed struct {
	Agencies  *table.Table[Agency]
	Stops     *table.Table[Stop]
	Routes    *table.Table[Route]
	Trips     *table.Table[Trip]
	StopTimes *table.Table[StopTime]

	Calendars          *table.Table[Calendar]
	CalendarDates      *table.Table[CalendarDate]
	FareAttributes     *table.Table[FareAttribute]
	FareRules          *table.Table[FareRule]
	Timeframes         *table.Table[Timeframe]
	FareMedia          *table.Table[FareMedia]
	FareProducts       *table.Table[FareProduct]
	FareLegRules       *table.Table[FareLegRule]
	FareTransferRules  *table.Table[FareTransferRule]
	RiderCategories    *table.Table[RiderCategory]
	Areas              *table.Table[Area]
	StopAreas          *table.Table[StopArea]
	Networks           *table.Table[Network]
	RouteNetworks      *table.Table[RouteNetwork]
	Shapes             *table.Table[ShapePoint]
	Frequencies        *table.Table[Frequency]
	Transfers          *table.Table[Transfer]
	Pathways           *table.Table[Pathway]
	Levels             *table.Table[Level]
	LocationGroups     *table.Table[LocationGroup]
	LocationGroupStops *table.Table[LocationGroupStop]
	BookingRules       *table.Table[BookingRule]
	Translations       *table.Table[Translation]
	FeedInfo           *table.Table[FeedInfo]
	Attributions       *table.Table[Attribution]

	Locations LocationIndex
}

// KnownFiles lists every file name Read understands, in load order.
var KnownFiles = []string{
	FileAgency, FileStops, FileRoutes, FileTrips, FileStopTimes,
	FileCalendar, FileCalendarDates, FileFareAttributes, FileFareRules, FileTimeframes,
	FileFareMedia, FileFareProducts, FileFareLegRules, FileFareTransferRules,
	FileRiderCategories, FileAreas, FileStopAreas, FileNetworks, FileRouteNetworks,
	FileShapes, FileFrequencies, FileTransfers, FilePathways, FileLevels,
	FileLocationGroups, FileLocationGroupStops, FileBookingRules, FileTranslations,
	FileFeedInfo, FileAttributions, FileLocations,
}

// IsKnownFile reports whether name is a GTFS file.
func IsKnownFile(name string) bool {
	for _, f := range KnownFiles {
		if f == name {
			return true
		}
	}
	return false
}

type loader struct {
	files    FileSet
	sink     *notice.Container
	progress port.ProgressReporter
}

func load[T any](l *loader, schema table.Schema[T]) *table.Table[T] {
	if !l.files.Has(schema.File) {
		if schema.Required {
			return table.Missing[T](schema.File)
		}
		return nil
	}
	l.progress.OnStartFileLoad(schema.File)
	defer l.progress.OnFinishFileLoad(schema.File)

	data, err := l.files.Read(schema.File)
	if err != nil {
		return table.Unreadable[T](schema.File, err, l.sink)
	}
	return table.Parse(data, schema, l.sink)
}

// Read ingests every known file of files. Ingestion notices are appended to
// sink in file load order. A nil reporter is treated as Noop.
func Read(files FileSet, sink *notice.Container, reporter port.ProgressReporter) *Feed {
	l := &loader{files: files, sink: sink, progress: progress.OrNoop(reporter)}

	present := 0
	for _, name := range KnownFiles {
		if files.Has(name) {
			present++
		}
	}
	l.progress.SetTotalFiles(present)

	for _, name := range files.Names() {
		if !IsKnownFile(name) {
			sink.Add(notice.New(CodeUnknownFile, notice.Info, "file is not part of GTFS and is ignored").
				At(name, 0).
				Str("filename", name))
		}
	}

	f := &Feed{
		Agencies:           load(l, AgencySchema),
		Stops:              load(l, StopSchema),
		Routes:             load(l, RouteSchema),
		Trips:              load(l, TripSchema),
		StopTimes:          load(l, StopTimeSchema),
		Calendars:          load(l, CalendarSchema),
		CalendarDates:      load(l, CalendarDateSchema),
		FareAttributes:     load(l, FareAttributeSchema),
		FareRules:          load(l, FareRuleSchema),
		Timeframes:         load(l, TimeframeSchema),
		FareMedia:          load(l, FareMediaSchema),
		FareProducts:       load(l, FareProductSchema),
		FareLegRules:       load(l, FareLegRuleSchema),
		FareTransferRules:  load(l, FareTransferRuleSchema),
		RiderCategories:    load(l, RiderCategorySchema),
		Areas:              load(l, AreaSchema),
		StopAreas:          load(l, StopAreaSchema),
		Networks:           load(l, NetworkSchema),
		RouteNetworks:      load(l, RouteNetworkSchema),
		Shapes:             load(l, ShapeSchema),
		Frequencies:        load(l, FrequencySchema),
		Transfers:          load(l, TransferSchema),
		Pathways:           load(l, PathwaySchema),
		Levels:             load(l, LevelSchema),
		LocationGroups:     load(l, LocationGroupSchema),
		LocationGroupStops: load(l, LocationGroupStopSchema),
		BookingRules:       load(l, BookingRuleSchema),
		Translations:       load(l, TranslationSchema),
		FeedInfo:           load(l, FeedInfoSchema),
		Attributions:       load(l, AttributionSchema),
	}

	if files.Has(FileLocations) {
		l.progress.OnStartFileLoad(FileLocations)
		data, err := files.Read(FileLocations)
		if err != nil {
			f.Locations = geo.Parse(nil)
		} else {
			f.Locations = geo.Parse(data)
		}
		l.progress.OnFinishFileLoad(FileLocations)
	}
	return f
}
