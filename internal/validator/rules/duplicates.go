package rules

import (
	"strconv"
	"strings"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/table"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
)

// duplicateKey flags rows whose natural key repeats. Each collision points
// at the previous row with the same key, so a key seen three times yields
// two notices: (1st, 2nd) and (2nd, 3rd). A nil key skips the row; it is
// returned when a required key field did not decode.
func duplicateKey[T any](file string, tbl func(*gtfs.Feed) *table.Table[T], fields []string, key func(*T) []string) validator.Validator {
	return validator.New("duplicate_key:"+file, func(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
		t := tbl(feed)
		if !t.Usable() {
			return
		}
		last := make(map[string]int)
		for row, rec := range t.All() {
			values := key(rec)
			if values == nil || allEmpty(values) {
				continue
			}
			k := strings.Join(values, "\x00")
			if prev, ok := last[k]; ok {
				n := notice.New(CodeDuplicateKey, notice.Error, "row repeats the key of an earlier row").
					At(file, row).
					Str("filename", file).
					Int("oldCsvRowNumber", prev).
					Int("newCsvRowNumber", row)
				for i, f := range fields {
					n.Str("fieldName"+strconv.Itoa(i+1), f).Str("fieldValue"+strconv.Itoa(i+1), values[i])
				}
				sink.Add(n)
			}
			last[k] = row
		}
	})
}

func allEmpty(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

func optInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func optTime(p *table.Time) string {
	if p == nil {
		return ""
	}
	return p.String()
}

func optDate(p *table.Date) string {
	if p == nil {
		return ""
	}
	return p.String()
}

// DuplicateKeyValidators returns one primary-key check per keyed file,
// followed by the route name uniqueness check.
func DuplicateKeyValidators() []validator.Validator {
	return []validator.Validator{
		duplicateKey(gtfs.FileAgency, func(f *gtfs.Feed) *table.Table[gtfs.Agency] { return f.Agencies },
			[]string{"agency_id"}, func(a *gtfs.Agency) []string { return []string{a.ID} }),
		duplicateKey(gtfs.FileStops, func(f *gtfs.Feed) *table.Table[gtfs.Stop] { return f.Stops },
			[]string{"stop_id"}, func(s *gtfs.Stop) []string { return []string{s.ID} }),
		duplicateKey(gtfs.FileRoutes, func(f *gtfs.Feed) *table.Table[gtfs.Route] { return f.Routes },
			[]string{"route_id"}, func(r *gtfs.Route) []string { return []string{r.ID} }),
		duplicateKey(gtfs.FileTrips, func(f *gtfs.Feed) *table.Table[gtfs.Trip] { return f.Trips },
			[]string{"trip_id"}, func(t *gtfs.Trip) []string { return []string{t.ID} }),
		duplicateKey(gtfs.FileStopTimes, func(f *gtfs.Feed) *table.Table[gtfs.StopTime] { return f.StopTimes },
			[]string{"trip_id", "stop_sequence"}, func(s *gtfs.StopTime) []string {
				if s.StopSequence == nil {
					return nil
				}
				return []string{s.TripID, optInt(s.StopSequence)}
			}),
		duplicateKey(gtfs.FileCalendar, func(f *gtfs.Feed) *table.Table[gtfs.Calendar] { return f.Calendars },
			[]string{"service_id"}, func(c *gtfs.Calendar) []string { return []string{c.ServiceID} }),
		duplicateKey(gtfs.FileCalendarDates, func(f *gtfs.Feed) *table.Table[gtfs.CalendarDate] { return f.CalendarDates },
			[]string{"service_id", "date"}, func(c *gtfs.CalendarDate) []string {
				if c.Date == nil {
					return nil
				}
				return []string{c.ServiceID, optDate(c.Date)}
			}),
		duplicateKey(gtfs.FileFareAttributes, func(f *gtfs.Feed) *table.Table[gtfs.FareAttribute] { return f.FareAttributes },
			[]string{"fare_id"}, func(a *gtfs.FareAttribute) []string { return []string{a.ID} }),
		duplicateKey(gtfs.FileTimeframes, func(f *gtfs.Feed) *table.Table[gtfs.Timeframe] { return f.Timeframes },
			[]string{"timeframe_group_id", "start_time", "end_time", "service_id"}, func(t *gtfs.Timeframe) []string {
				return []string{t.GroupID, optTime(t.StartTime), optTime(t.EndTime), t.ServiceID}
			}),
		duplicateKey(gtfs.FileFareMedia, func(f *gtfs.Feed) *table.Table[gtfs.FareMedia] { return f.FareMedia },
			[]string{"fare_media_id"}, func(m *gtfs.FareMedia) []string { return []string{m.ID} }),
		duplicateKey(gtfs.FileFareProducts, func(f *gtfs.Feed) *table.Table[gtfs.FareProduct] { return f.FareProducts },
			[]string{"fare_product_id", "rider_category_id", "fare_media_id"}, func(p *gtfs.FareProduct) []string {
				return []string{p.ID, p.RiderCategoryID, p.FareMediaID}
			}),
		duplicateKey(gtfs.FileFareLegRules, func(f *gtfs.Feed) *table.Table[gtfs.FareLegRule] { return f.FareLegRules },
			[]string{"network_id", "from_area_id", "to_area_id", "from_timeframe_group_id", "to_timeframe_group_id", "fare_product_id"},
			func(r *gtfs.FareLegRule) []string {
				return []string{r.NetworkID, r.FromAreaID, r.ToAreaID, r.FromTimeframeGroupID, r.ToTimeframeGroupID, r.FareProductID}
			}),
		duplicateKey(gtfs.FileFareTransferRules, func(f *gtfs.Feed) *table.Table[gtfs.FareTransferRule] { return f.FareTransferRules },
			[]string{"from_leg_group_id", "to_leg_group_id", "fare_product_id", "transfer_count", "duration_limit"},
			func(r *gtfs.FareTransferRule) []string {
				return []string{r.FromLegGroupID, r.ToLegGroupID, r.FareProductID, optInt(r.TransferCount), optInt(r.DurationLimit)}
			}),
		duplicateKey(gtfs.FileRiderCategories, func(f *gtfs.Feed) *table.Table[gtfs.RiderCategory] { return f.RiderCategories },
			[]string{"rider_category_id"}, func(c *gtfs.RiderCategory) []string { return []string{c.ID} }),
		duplicateKey(gtfs.FileAreas, func(f *gtfs.Feed) *table.Table[gtfs.Area] { return f.Areas },
			[]string{"area_id"}, func(a *gtfs.Area) []string { return []string{a.ID} }),
		duplicateKey(gtfs.FileStopAreas, func(f *gtfs.Feed) *table.Table[gtfs.StopArea] { return f.StopAreas },
			[]string{"area_id", "stop_id"}, func(a *gtfs.StopArea) []string { return []string{a.AreaID, a.StopID} }),
		duplicateKey(gtfs.FileNetworks, func(f *gtfs.Feed) *table.Table[gtfs.Network] { return f.Networks },
			[]string{"network_id"}, func(n *gtfs.Network) []string { return []string{n.ID} }),
		duplicateKey(gtfs.FileRouteNetworks, func(f *gtfs.Feed) *table.Table[gtfs.RouteNetwork] { return f.RouteNetworks },
			[]string{"route_id"}, func(n *gtfs.RouteNetwork) []string { return []string{n.RouteID} }),
		duplicateKey(gtfs.FileShapes, func(f *gtfs.Feed) *table.Table[gtfs.ShapePoint] { return f.Shapes },
			[]string{"shape_id", "shape_pt_sequence"}, func(p *gtfs.ShapePoint) []string {
				if p.Sequence == nil {
					return nil
				}
				return []string{p.ShapeID, optInt(p.Sequence)}
			}),
		duplicateKey(gtfs.FileFrequencies, func(f *gtfs.Feed) *table.Table[gtfs.Frequency] { return f.Frequencies },
			[]string{"trip_id", "start_time"}, func(q *gtfs.Frequency) []string {
				if q.StartTime == nil {
					return nil
				}
				return []string{q.TripID, optTime(q.StartTime)}
			}),
		duplicateKey(gtfs.FileTransfers, func(f *gtfs.Feed) *table.Table[gtfs.Transfer] { return f.Transfers },
			[]string{"from_stop_id", "to_stop_id", "from_route_id", "to_route_id", "from_trip_id", "to_trip_id"},
			func(t *gtfs.Transfer) []string {
				return []string{t.FromStopID, t.ToStopID, t.FromRouteID, t.ToRouteID, t.FromTripID, t.ToTripID}
			}),
		duplicateKey(gtfs.FilePathways, func(f *gtfs.Feed) *table.Table[gtfs.Pathway] { return f.Pathways },
			[]string{"pathway_id"}, func(p *gtfs.Pathway) []string { return []string{p.ID} }),
		duplicateKey(gtfs.FileLevels, func(f *gtfs.Feed) *table.Table[gtfs.Level] { return f.Levels },
			[]string{"level_id"}, func(l *gtfs.Level) []string { return []string{l.ID} }),
		duplicateKey(gtfs.FileLocationGroups, func(f *gtfs.Feed) *table.Table[gtfs.LocationGroup] { return f.LocationGroups },
			[]string{"location_group_id"}, func(g *gtfs.LocationGroup) []string { return []string{g.ID} }),
		duplicateKey(gtfs.FileLocationGroupStops, func(f *gtfs.Feed) *table.Table[gtfs.LocationGroupStop] { return f.LocationGroupStops },
			[]string{"location_group_id", "stop_id"}, func(g *gtfs.LocationGroupStop) []string {
				return []string{g.LocationGroupID, g.StopID}
			}),
		duplicateKey(gtfs.FileBookingRules, func(f *gtfs.Feed) *table.Table[gtfs.BookingRule] { return f.BookingRules },
			[]string{"booking_rule_id"}, func(b *gtfs.BookingRule) []string { return []string{b.ID} }),
		duplicateKey(gtfs.FileTranslations, func(f *gtfs.Feed) *table.Table[gtfs.Translation] { return f.Translations },
			[]string{"table_name", "field_name", "language", "record_id", "record_sub_id", "field_value"},
			func(t *gtfs.Translation) []string {
				return []string{t.TableName, t.FieldName, t.Language, t.RecordID, t.RecordSubID, t.FieldValue}
			}),
		duplicateKey(gtfs.FileAttributions, func(f *gtfs.Feed) *table.Table[gtfs.Attribution] { return f.Attributions },
			[]string{"attribution_id"}, func(a *gtfs.Attribution) []string { return []string{a.ID} }),
		validator.New("duplicate_route_name", validateDuplicateRouteName),
	}
}

// Two routes of one agency should not share names and route type.
func validateDuplicateRouteName(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Routes.Usable() {
		return
	}
	type seen struct {
		row int
		id  string
	}
	last := make(map[string]seen)
	for row, r := range feed.Routes.All() {
		if r.ShortName == "" && r.LongName == "" {
			continue
		}
		k := strings.Join([]string{r.ShortName, r.LongName, optInt(r.Type), r.AgencyID}, "\x00")
		if prev, ok := last[k]; ok {
			sink.Add(notice.New(CodeDuplicateRouteName, notice.Warning, "route has the same names and type as an earlier route of the same agency").
				At(gtfs.FileRoutes, row).
				Int("oldCsvRowNumber", prev.row).
				Str("oldRouteId", prev.id).
				Int("newCsvRowNumber", row).
				Str("newRouteId", r.ID).
				Str("routeShortName", r.ShortName).
				Str("routeLongName", r.LongName).
				Str("routeTypeValue", optInt(r.Type)).
				Str("agencyId", r.AgencyID))
		}
		last[k] = seen{row: row, id: r.ID}
	}
}
