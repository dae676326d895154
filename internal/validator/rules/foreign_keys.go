package rules

import (
	"strings"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/geo"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/table"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
)

// parent is one source of valid identifiers for a reference. index reports
// whether the source was provided and whether it is unusable; has is only
// set for a usable source.
type parent struct {
	file  string
	field string
	index func(*gtfs.Feed) (has func(string) bool, present, fatal bool)
}

func tableParent[T any](file, field string, tbl func(*gtfs.Feed) *table.Table[T], key func(*T) string) parent {
	return parent{
		file:  file,
		field: field,
		index: func(feed *gtfs.Feed) (func(string) bool, bool, bool) {
			t := tbl(feed)
			if !t.Present() {
				return nil, false, false
			}
			if t.HasFatalErrors() {
				return nil, true, true
			}
			ids := make(map[string]struct{}, t.Len())
			for _, r := range t.All() {
				ids[key(r)] = struct{}{}
			}
			return func(id string) bool {
				_, ok := ids[id]
				return ok
			}, true, false
		},
	}
}

var locationsParent = parent{
	file:  geo.FileName,
	field: "id",
	index: func(feed *gtfs.Feed) (func(string) bool, bool, bool) {
		if feed.Locations == nil {
			return nil, false, false
		}
		if feed.Locations.HasFatalErrors() {
			return nil, true, true
		}
		return feed.Locations.Has, true, false
	},
}

// foreignKey checks that every non-empty value of one child column exists in
// at least one of the parents. It stays silent when the child column was not
// authored, when no parent was provided, or when any parent is unusable.
func foreignKey[C any](childFile, childField string, child func(*gtfs.Feed) *table.Table[C], value func(*C) string, parents ...parent) validator.Validator {
	files := make([]string, len(parents))
	fields := make([]string, len(parents))
	for i, p := range parents {
		files[i] = p.file
		fields[i] = p.field
	}
	parentFile := strings.Join(files, " or ")
	parentField := strings.Join(fields, " or ")

	return validator.New("foreign_key:"+childFile+"."+childField, func(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
		c := child(feed)
		if !c.Usable() || !c.HasColumn(childField) {
			return
		}
		var lookups []func(string) bool
		for _, p := range parents {
			has, present, fatal := p.index(feed)
			if fatal {
				return
			}
			if present {
				lookups = append(lookups, has)
			}
		}
		if len(lookups) == 0 {
			return
		}

	rows:
		for row, rec := range c.All() {
			v := value(rec)
			if v == "" {
				continue
			}
			for _, has := range lookups {
				if has(v) {
					continue rows
				}
			}
			sink.Add(notice.New(CodeForeignKeyViolation, notice.Error, "value does not reference an existing record").
				At(childFile, row).
				Str("childFilename", childFile).
				Str("childFieldName", childField).
				Str("parentFilename", parentFile).
				Str("parentFieldName", parentField).
				Str("fieldValue", v).
				Int("csvRowNumber", row))
		}
	})
}

var (
	agencyParent = tableParent(gtfs.FileAgency, "agency_id",
		func(f *gtfs.Feed) *table.Table[gtfs.Agency] { return f.Agencies }, func(a *gtfs.Agency) string { return a.ID })
	stopParent = tableParent(gtfs.FileStops, "stop_id",
		func(f *gtfs.Feed) *table.Table[gtfs.Stop] { return f.Stops }, func(s *gtfs.Stop) string { return s.ID })
	zoneParent = tableParent(gtfs.FileStops, "zone_id",
		func(f *gtfs.Feed) *table.Table[gtfs.Stop] { return f.Stops }, func(s *gtfs.Stop) string { return s.ZoneID })
	routeParent = tableParent(gtfs.FileRoutes, "route_id",
		func(f *gtfs.Feed) *table.Table[gtfs.Route] { return f.Routes }, func(r *gtfs.Route) string { return r.ID })
	routeNetworkParent = tableParent(gtfs.FileRoutes, "network_id",
		func(f *gtfs.Feed) *table.Table[gtfs.Route] { return f.Routes }, func(r *gtfs.Route) string { return r.NetworkID })
	tripParent = tableParent(gtfs.FileTrips, "trip_id",
		func(f *gtfs.Feed) *table.Table[gtfs.Trip] { return f.Trips }, func(t *gtfs.Trip) string { return t.ID })
	calendarParent = tableParent(gtfs.FileCalendar, "service_id",
		func(f *gtfs.Feed) *table.Table[gtfs.Calendar] { return f.Calendars }, func(c *gtfs.Calendar) string { return c.ServiceID })
	calendarDateParent = tableParent(gtfs.FileCalendarDates, "service_id",
		func(f *gtfs.Feed) *table.Table[gtfs.CalendarDate] { return f.CalendarDates }, func(c *gtfs.CalendarDate) string { return c.ServiceID })
	shapeParent = tableParent(gtfs.FileShapes, "shape_id",
		func(f *gtfs.Feed) *table.Table[gtfs.ShapePoint] { return f.Shapes }, func(p *gtfs.ShapePoint) string { return p.ShapeID })
	levelParent = tableParent(gtfs.FileLevels, "level_id",
		func(f *gtfs.Feed) *table.Table[gtfs.Level] { return f.Levels }, func(l *gtfs.Level) string { return l.ID })
	fareParent = tableParent(gtfs.FileFareAttributes, "fare_id",
		func(f *gtfs.Feed) *table.Table[gtfs.FareAttribute] { return f.FareAttributes }, func(a *gtfs.FareAttribute) string { return a.ID })
	areaParent = tableParent(gtfs.FileAreas, "area_id",
		func(f *gtfs.Feed) *table.Table[gtfs.Area] { return f.Areas }, func(a *gtfs.Area) string { return a.ID })
	networkParent = tableParent(gtfs.FileNetworks, "network_id",
		func(f *gtfs.Feed) *table.Table[gtfs.Network] { return f.Networks }, func(n *gtfs.Network) string { return n.ID })
	fareMediaParent = tableParent(gtfs.FileFareMedia, "fare_media_id",
		func(f *gtfs.Feed) *table.Table[gtfs.FareMedia] { return f.FareMedia }, func(m *gtfs.FareMedia) string { return m.ID })
	riderCategoryParent = tableParent(gtfs.FileRiderCategories, "rider_category_id",
		func(f *gtfs.Feed) *table.Table[gtfs.RiderCategory] { return f.RiderCategories }, func(c *gtfs.RiderCategory) string { return c.ID })
	fareProductParent = tableParent(gtfs.FileFareProducts, "fare_product_id",
		func(f *gtfs.Feed) *table.Table[gtfs.FareProduct] { return f.FareProducts }, func(p *gtfs.FareProduct) string { return p.ID })
	timeframeParent = tableParent(gtfs.FileTimeframes, "timeframe_group_id",
		func(f *gtfs.Feed) *table.Table[gtfs.Timeframe] { return f.Timeframes }, func(t *gtfs.Timeframe) string { return t.GroupID })
	legGroupParent = tableParent(gtfs.FileFareLegRules, "leg_group_id",
		func(f *gtfs.Feed) *table.Table[gtfs.FareLegRule] { return f.FareLegRules }, func(r *gtfs.FareLegRule) string { return r.LegGroupID })
	locationGroupParent = tableParent(gtfs.FileLocationGroups, "location_group_id",
		func(f *gtfs.Feed) *table.Table[gtfs.LocationGroup] { return f.LocationGroups }, func(g *gtfs.LocationGroup) string { return g.ID })
	bookingRuleParent = tableParent(gtfs.FileBookingRules, "booking_rule_id",
		func(f *gtfs.Feed) *table.Table[gtfs.BookingRule] { return f.BookingRules }, func(b *gtfs.BookingRule) string { return b.ID })
)

// ForeignKeyValidators returns one check per cross-file reference.
func ForeignKeyValidators() []validator.Validator {
	routes := func(f *gtfs.Feed) *table.Table[gtfs.Route] { return f.Routes }
	stops := func(f *gtfs.Feed) *table.Table[gtfs.Stop] { return f.Stops }
	trips := func(f *gtfs.Feed) *table.Table[gtfs.Trip] { return f.Trips }
	stopTimes := func(f *gtfs.Feed) *table.Table[gtfs.StopTime] { return f.StopTimes }
	fareAttributes := func(f *gtfs.Feed) *table.Table[gtfs.FareAttribute] { return f.FareAttributes }
	fareRules := func(f *gtfs.Feed) *table.Table[gtfs.FareRule] { return f.FareRules }
	frequencies := func(f *gtfs.Feed) *table.Table[gtfs.Frequency] { return f.Frequencies }
	transfers := func(f *gtfs.Feed) *table.Table[gtfs.Transfer] { return f.Transfers }
	pathways := func(f *gtfs.Feed) *table.Table[gtfs.Pathway] { return f.Pathways }
	stopAreas := func(f *gtfs.Feed) *table.Table[gtfs.StopArea] { return f.StopAreas }
	routeNetworks := func(f *gtfs.Feed) *table.Table[gtfs.RouteNetwork] { return f.RouteNetworks }
	fareProducts := func(f *gtfs.Feed) *table.Table[gtfs.FareProduct] { return f.FareProducts }
	fareLegRules := func(f *gtfs.Feed) *table.Table[gtfs.FareLegRule] { return f.FareLegRules }
	fareTransferRules := func(f *gtfs.Feed) *table.Table[gtfs.FareTransferRule] { return f.FareTransferRules }
	timeframes := func(f *gtfs.Feed) *table.Table[gtfs.Timeframe] { return f.Timeframes }
	locationGroupStops := func(f *gtfs.Feed) *table.Table[gtfs.LocationGroupStop] { return f.LocationGroupStops }
	bookingRules := func(f *gtfs.Feed) *table.Table[gtfs.BookingRule] { return f.BookingRules }
	attributions := func(f *gtfs.Feed) *table.Table[gtfs.Attribution] { return f.Attributions }

	return []validator.Validator{
		foreignKey(gtfs.FileRoutes, "agency_id", routes, func(r *gtfs.Route) string { return r.AgencyID }, agencyParent),
		foreignKey(gtfs.FileStops, "parent_station", stops, func(s *gtfs.Stop) string { return s.ParentStation }, stopParent),
		foreignKey(gtfs.FileStops, "level_id", stops, func(s *gtfs.Stop) string { return s.LevelID }, levelParent),
		foreignKey(gtfs.FileTrips, "route_id", trips, func(t *gtfs.Trip) string { return t.RouteID }, routeParent),
		foreignKey(gtfs.FileTrips, "service_id", trips, func(t *gtfs.Trip) string { return t.ServiceID }, calendarParent, calendarDateParent),
		foreignKey(gtfs.FileTrips, "shape_id", trips, func(t *gtfs.Trip) string { return t.ShapeID }, shapeParent),
		foreignKey(gtfs.FileStopTimes, "trip_id", stopTimes, func(s *gtfs.StopTime) string { return s.TripID }, tripParent),
		foreignKey(gtfs.FileStopTimes, "stop_id", stopTimes, func(s *gtfs.StopTime) string { return s.StopID }, stopParent),
		foreignKey(gtfs.FileStopTimes, "location_group_id", stopTimes, func(s *gtfs.StopTime) string { return s.LocationGroupID }, locationGroupParent),
		foreignKey(gtfs.FileStopTimes, "location_id", stopTimes, func(s *gtfs.StopTime) string { return s.LocationID }, locationsParent),
		foreignKey(gtfs.FileStopTimes, "pickup_booking_rule_id", stopTimes, func(s *gtfs.StopTime) string { return s.PickupBookingRuleID }, bookingRuleParent),
		foreignKey(gtfs.FileStopTimes, "drop_off_booking_rule_id", stopTimes, func(s *gtfs.StopTime) string { return s.DropOffBookingRuleID }, bookingRuleParent),
		foreignKey(gtfs.FileFareAttributes, "agency_id", fareAttributes, func(a *gtfs.FareAttribute) string { return a.AgencyID }, agencyParent),
		foreignKey(gtfs.FileFareRules, "fare_id", fareRules, func(r *gtfs.FareRule) string { return r.FareID }, fareParent),
		foreignKey(gtfs.FileFareRules, "route_id", fareRules, func(r *gtfs.FareRule) string { return r.RouteID }, routeParent),
		foreignKey(gtfs.FileFareRules, "origin_id", fareRules, func(r *gtfs.FareRule) string { return r.OriginID }, zoneParent),
		foreignKey(gtfs.FileFareRules, "destination_id", fareRules, func(r *gtfs.FareRule) string { return r.DestinationID }, zoneParent),
		foreignKey(gtfs.FileFareRules, "contains_id", fareRules, func(r *gtfs.FareRule) string { return r.ContainsID }, zoneParent),
		foreignKey(gtfs.FileFrequencies, "trip_id", frequencies, func(q *gtfs.Frequency) string { return q.TripID }, tripParent),
		foreignKey(gtfs.FileTransfers, "from_stop_id", transfers, func(t *gtfs.Transfer) string { return t.FromStopID }, stopParent),
		foreignKey(gtfs.FileTransfers, "to_stop_id", transfers, func(t *gtfs.Transfer) string { return t.ToStopID }, stopParent),
		foreignKey(gtfs.FileTransfers, "from_route_id", transfers, func(t *gtfs.Transfer) string { return t.FromRouteID }, routeParent),
		foreignKey(gtfs.FileTransfers, "to_route_id", transfers, func(t *gtfs.Transfer) string { return t.ToRouteID }, routeParent),
		foreignKey(gtfs.FileTransfers, "from_trip_id", transfers, func(t *gtfs.Transfer) string { return t.FromTripID }, tripParent),
		foreignKey(gtfs.FileTransfers, "to_trip_id", transfers, func(t *gtfs.Transfer) string { return t.ToTripID }, tripParent),
		foreignKey(gtfs.FilePathways, "from_stop_id", pathways, func(p *gtfs.Pathway) string { return p.FromStopID }, stopParent),
		foreignKey(gtfs.FilePathways, "to_stop_id", pathways, func(p *gtfs.Pathway) string { return p.ToStopID }, stopParent),
		foreignKey(gtfs.FileStopAreas, "area_id", stopAreas, func(a *gtfs.StopArea) string { return a.AreaID }, areaParent),
		foreignKey(gtfs.FileStopAreas, "stop_id", stopAreas, func(a *gtfs.StopArea) string { return a.StopID }, stopParent),
		foreignKey(gtfs.FileRouteNetworks, "route_id", routeNetworks, func(n *gtfs.RouteNetwork) string { return n.RouteID }, routeParent),
		foreignKey(gtfs.FileRouteNetworks, "network_id", routeNetworks, func(n *gtfs.RouteNetwork) string { return n.NetworkID }, networkParent),
		foreignKey(gtfs.FileFareProducts, "fare_media_id", fareProducts, func(p *gtfs.FareProduct) string { return p.FareMediaID }, fareMediaParent),
		foreignKey(gtfs.FileFareProducts, "rider_category_id", fareProducts, func(p *gtfs.FareProduct) string { return p.RiderCategoryID }, riderCategoryParent),
		foreignKey(gtfs.FileFareLegRules, "fare_product_id", fareLegRules, func(r *gtfs.FareLegRule) string { return r.FareProductID }, fareProductParent),
		foreignKey(gtfs.FileFareLegRules, "from_area_id", fareLegRules, func(r *gtfs.FareLegRule) string { return r.FromAreaID }, areaParent),
		foreignKey(gtfs.FileFareLegRules, "to_area_id", fareLegRules, func(r *gtfs.FareLegRule) string { return r.ToAreaID }, areaParent),
		foreignKey(gtfs.FileFareLegRules, "network_id", fareLegRules, func(r *gtfs.FareLegRule) string { return r.NetworkID }, routeNetworkParent, networkParent),
		foreignKey(gtfs.FileFareLegRules, "from_timeframe_group_id", fareLegRules, func(r *gtfs.FareLegRule) string { return r.FromTimeframeGroupID }, timeframeParent),
		foreignKey(gtfs.FileFareLegRules, "to_timeframe_group_id", fareLegRules, func(r *gtfs.FareLegRule) string { return r.ToTimeframeGroupID }, timeframeParent),
		foreignKey(gtfs.FileFareTransferRules, "from_leg_group_id", fareTransferRules, func(r *gtfs.FareTransferRule) string { return r.FromLegGroupID }, legGroupParent),
		foreignKey(gtfs.FileFareTransferRules, "to_leg_group_id", fareTransferRules, func(r *gtfs.FareTransferRule) string { return r.ToLegGroupID }, legGroupParent),
		foreignKey(gtfs.FileFareTransferRules, "fare_product_id", fareTransferRules, func(r *gtfs.FareTransferRule) string { return r.FareProductID }, fareProductParent),
		foreignKey(gtfs.FileTimeframes, "service_id", timeframes, func(t *gtfs.Timeframe) string { return t.ServiceID }, calendarParent, calendarDateParent),
		foreignKey(gtfs.FileLocationGroupStops, "location_group_id", locationGroupStops, func(g *gtfs.LocationGroupStop) string { return g.LocationGroupID }, locationGroupParent),
		foreignKey(gtfs.FileLocationGroupStops, "stop_id", locationGroupStops, func(g *gtfs.LocationGroupStop) string { return g.StopID }, stopParent),
		foreignKey(gtfs.FileBookingRules, "prior_notice_service_id", bookingRules, func(b *gtfs.BookingRule) string { return b.PriorNoticeServiceID }, calendarParent, calendarDateParent),
		foreignKey(gtfs.FileAttributions, "agency_id", attributions, func(a *gtfs.Attribution) string { return a.AgencyID }, agencyParent),
		foreignKey(gtfs.FileAttributions, "route_id", attributions, func(a *gtfs.Attribution) string { return a.RouteID }, routeParent),
		foreignKey(gtfs.FileAttributions, "trip_id", attributions, func(a *gtfs.Attribution) string { return a.TripID }, tripParent),
	}
}
