package rules

import (
	"cmp"
	"slices"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/table"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
)

// StopTimeValidators check the stop times of each trip.
func StopTimeValidators() []validator.Validator {
	return []validator.Validator{
		validator.New("stop_time_sequence", validateStopTimeSequence),
		validator.New("stop_time_timepoint", validateStopTimeTimepoint),
		validator.New("stop_time_geography", validateStopTimeGeography),
		validator.New("overlapping_zone_window", validateOverlappingZoneWindow),
		validator.New("unusable_trip", validateUnusableTrip),
		validator.New("block_trips_overlap", validateBlockTripsOverlap),
	}
}

type stopTimeRow struct {
	row int
	st  *gtfs.StopTime
}

// byTrip groups stop times by trip in first-seen order, each group sorted by
// stop_sequence. Rows without a usable sequence are left out.
func byTrip(feed *gtfs.Feed) *grouped[string, stopTimeRow] {
	g := newGrouped[string, stopTimeRow]()
	for row, st := range feed.StopTimes.All() {
		if st.StopSequence == nil {
			continue
		}
		g.add(st.TripID, stopTimeRow{row: row, st: st})
	}
	for _, k := range g.keys {
		slices.SortStableFunc(g.m[k], func(a, b stopTimeRow) int {
			return cmp.Compare(*a.st.StopSequence, *b.st.StopSequence)
		})
	}
	return g
}

func stopTimeNotice(code string, sev notice.Severity, msg string, r stopTimeRow) *notice.Notice {
	return rowNotice(code, sev, msg, gtfs.FileStopTimes, r.row).
		Str("tripId", r.st.TripID).
		Int("stopSequence", *r.st.StopSequence)
}

func hasWindow(st *gtfs.StopTime) bool {
	return st.StartPickupDropOffWindow != nil || st.EndPickupDropOffWindow != nil
}

func validateStopTimeSequence(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.StopTimes.Usable() {
		return
	}
	byTrip(feed).each(func(_ string, rows []stopTimeRow) {
		var (
			prevDeparture    *table.Time
			prevDepartureRow int
			prevDist         *float64
			prevDistRow      int
		)
		for i, r := range rows {
			st := r.st
			if st.ArrivalTime != nil && st.DepartureTime != nil && *st.DepartureTime < *st.ArrivalTime {
				sink.Add(stopTimeNotice(CodeDepartureBeforeArrival, notice.Error, "departure time is before arrival time", r).
					Str("arrivalTime", st.ArrivalTime.String()).
					Str("departureTime", st.DepartureTime.String()))
			}
			if st.ArrivalTime != nil && prevDeparture != nil && *st.ArrivalTime < *prevDeparture {
				sink.Add(stopTimeNotice(CodeArrivalBeforePreviousDeparture, notice.Error, "arrival time is before the departure time of the previous stop", r).
					Int("prevCsvRowNumber", prevDepartureRow).
					Str("arrivalTime", st.ArrivalTime.String()).
					Str("departureTime", prevDeparture.String()))
			}
			switch {
			case st.DepartureTime != nil:
				prevDeparture, prevDepartureRow = st.DepartureTime, r.row
			case st.ArrivalTime != nil:
				prevDeparture, prevDepartureRow = st.ArrivalTime, r.row
			}

			if (i == 0 || i == len(rows)-1) && !hasWindow(st) {
				if st.ArrivalTime == nil {
					sink.Add(stopTimeNotice(CodeMissingTripEdge, notice.Error, "first and last stop of a trip must define arrival and departure times", r).
						Str("specifiedField", "arrival_time"))
				}
				if st.DepartureTime == nil {
					sink.Add(stopTimeNotice(CodeMissingTripEdge, notice.Error, "first and last stop of a trip must define arrival and departure times", r).
						Str("specifiedField", "departure_time"))
				}
			}

			if st.ShapeDistTraveled != nil {
				if prevDist != nil && *st.ShapeDistTraveled <= *prevDist {
					sink.Add(stopTimeNotice(CodeDecreasingStopTimeDistance, notice.Error, "shape_dist_traveled does not increase along the trip", r).
						Float("shapeDistTraveled", *st.ShapeDistTraveled).
						Int("prevCsvRowNumber", prevDistRow).
						Float("prevShapeDistTraveled", *prevDist))
				}
				prevDist, prevDistRow = st.ShapeDistTraveled, r.row
			}
		}
	})
}

// Only applies when the timepoint column was authored.
func validateStopTimeTimepoint(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.StopTimes.Usable() || !feed.StopTimes.HasColumn("timepoint") {
		return
	}
	for row, st := range feed.StopTimes.All() {
		if st.Timepoint == nil {
			if st.ArrivalTime != nil || st.DepartureTime != nil {
				sink.Add(rowNotice(CodeMissingTimepointValue, notice.Warning, "stop time has times but no timepoint value", gtfs.FileStopTimes, row).
					Str("tripId", st.TripID).
					Str("stopSequence", optInt(st.StopSequence)))
			}
			continue
		}
		if *st.Timepoint != gtfs.TimepointExact {
			continue
		}
		for _, f := range []struct {
			name string
			v    *table.Time
		}{{"arrival_time", st.ArrivalTime}, {"departure_time", st.DepartureTime}} {
			if f.v == nil {
				sink.Add(rowNotice(CodeTimepointWithoutTimes, notice.Error, "exact timepoint must define arrival and departure times", gtfs.FileStopTimes, row).
					Str("tripId", st.TripID).
					Str("stopSequence", optInt(st.StopSequence)).
					Str("specifiedField", f.name))
			}
		}
	}
}

// A stop time serves exactly one of a stop, a location group or a zone.
func validateStopTimeGeography(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.StopTimes.Usable() {
		return
	}
	for row, st := range feed.StopTimes.All() {
		n := 0
		for _, id := range []string{st.StopID, st.LocationGroupID, st.LocationID} {
			if id != "" {
				n++
			}
		}
		switch {
		case n > 1:
			sink.Add(rowNotice(CodeForbiddenGeographyID, notice.Error, "stop time references more than one of stop_id, location_group_id and location_id", gtfs.FileStopTimes, row).
				Str("tripId", st.TripID).
				Str("stopSequence", optInt(st.StopSequence)).
				Str("stopId", st.StopID).
				Str("locationGroupId", st.LocationGroupID).
				Str("locationId", st.LocationID))
		case n == 0:
			sink.Add(missingField(gtfs.FileStopTimes, row, "stop_id").Str("tripId", st.TripID))
		}
	}
}

// Two zone stop times of one trip must not serve overlapping areas during
// overlapping pickup/drop-off windows.
func validateOverlappingZoneWindow(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.StopTimes.Usable() || !feed.StopTimes.HasColumn("location_id") ||
		feed.Locations == nil || feed.Locations.HasFatalErrors() {
		return
	}
	trips := newGrouped[string, stopTimeRow]()
	for row, st := range feed.StopTimes.All() {
		if st.LocationID == "" || st.StartPickupDropOffWindow == nil || st.EndPickupDropOffWindow == nil {
			continue
		}
		trips.add(st.TripID, stopTimeRow{row: row, st: st})
	}
	trips.each(func(trip string, rows []stopTimeRow) {
		for i, a := range rows {
			for _, b := range rows[i+1:] {
				if a.st.LocationID == b.st.LocationID ||
					*a.st.StartPickupDropOffWindow >= *b.st.EndPickupDropOffWindow ||
					*b.st.StartPickupDropOffWindow >= *a.st.EndPickupDropOffWindow {
					continue
				}
				if !feed.Locations.Overlaps(a.st.LocationID, b.st.LocationID) {
					continue
				}
				sink.Add(rowNotice(CodeOverlappingZoneAndWindow, notice.Error, "zones served by one trip overlap in space and time", gtfs.FileStopTimes, b.row).
					Str("tripId", trip).
					Int("csvRowNumberA", a.row).
					Str("locationIdA", a.st.LocationID).
					Int("csvRowNumberB", b.row).
					Str("locationIdB", b.st.LocationID))
			}
		}
	})
}

// A trip needs at least two stop times to be used by riders.
func validateUnusableTrip(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Trips.Usable() || !feed.StopTimes.Usable() {
		return
	}
	counts := make(map[string]int)
	for _, st := range feed.StopTimes.All() {
		counts[st.TripID]++
	}
	for row, t := range feed.Trips.All() {
		if counts[t.ID] < 2 {
			sink.Add(rowNotice(CodeUnusableTrip, notice.Warning, "trip has fewer than two stop times", gtfs.FileTrips, row).
				Str("tripId", t.ID))
		}
	}
}

// tripSpan returns the first departure and last arrival of a trip.
func tripSpan(rows []stopTimeRow) (start, end table.Time, ok bool) {
	var first, last *table.Time
	for _, r := range rows {
		t := r.st.DepartureTime
		if t == nil {
			t = r.st.ArrivalTime
		}
		if t != nil {
			first = t
			break
		}
	}
	for i := len(rows) - 1; i >= 0; i-- {
		t := rows[i].st.ArrivalTime
		if t == nil {
			t = rows[i].st.DepartureTime
		}
		if t != nil {
			last = t
			break
		}
	}
	if first == nil || last == nil {
		return 0, 0, false
	}
	return *first, *last, true
}

type blockKey struct {
	block   string
	service string
}

// Trips chained in one block on the same service cannot run at the same time.
func validateBlockTripsOverlap(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Trips.Usable() || !feed.StopTimes.Usable() || !feed.Trips.HasColumn("block_id") {
		return
	}
	stopTimes := byTrip(feed)
	blocks := newGrouped[blockKey, interval]()
	for row, t := range feed.Trips.All() {
		if t.BlockID == "" {
			continue
		}
		start, end, ok := tripSpan(stopTimes.m[t.ID])
		if !ok {
			continue
		}
		blocks.add(blockKey{t.BlockID, t.ServiceID}, interval{start: start, end: end, row: row, id: t.ID})
	}
	blocks.each(func(k blockKey, iv []interval) {
		sortIntervals(iv, byID)
		eachOverlap(iv, func(prev, curr interval) {
			sink.Add(notice.New(CodeBlockTripsOverlap, notice.Error, "trips of one block overlap in time").
				At(gtfs.FileTrips, curr.row).
				Int("csvRowNumberA", prev.row).
				Str("tripIdA", prev.id).
				Int("csvRowNumberB", curr.row).
				Str("tripIdB", curr.id).
				Str("blockId", k.block).
				Str("serviceId", k.service))
		})
	})
}
