package gtfs

import "github.com/abasis-ltd/gtfs.guru-sub001/internal/table"

// File names.
const (
	FileAgency             = "agency.txt"
	FileStops              = "stops.txt"
	FileRoutes             = "routes.txt"
	FileTrips              = "trips.txt"
	FileStopTimes          = "stop_times.txt"
	FileCalendar           = "calendar.txt"
	FileCalendarDates      = "calendar_dates.txt"
	FileFareAttributes     = "fare_attributes.txt"
	FileFareRules          = "fare_rules.txt"
	FileTimeframes         = "timeframes.txt"
	FileFareMedia          = "fare_media.txt"
	FileFareProducts       = "fare_products.txt"
	FileFareLegRules       = "fare_leg_rules.txt"
	FileFareTransferRules  = "fare_transfer_rules.txt"
	FileRiderCategories    = "rider_categories.txt"
	FileAreas              = "areas.txt"
	FileStopAreas          = "stop_areas.txt"
	FileNetworks           = "networks.txt"
	FileRouteNetworks      = "route_networks.txt"
	FileShapes             = "shapes.txt"
	FileFrequencies        = "frequencies.txt"
	FileTransfers          = "transfers.txt"
	FilePathways           = "pathways.txt"
	FileLevels             = "levels.txt"
	FileLocationGroups     = "location_groups.txt"
	FileLocationGroupStops = "location_group_stops.txt"
	FileBookingRules       = "booking_rules.txt"
	FileTranslations       = "translations.txt"
	FileFeedInfo           = "feed_info.txt"
	FileAttributions       = "attributions.txt"
	FileLocations          = "locations.geojson"
)

// RequiredFiles are the files every feed must provide.
var RequiredFiles = []string{FileAgency, FileStops, FileRoutes, FileTrips, FileStopTimes}

func fields(required []string, optional ...string) []table.Field {
	out := make([]table.Field, 0, len(required)+len(optional))
	for _, n := range required {
		out = append(out, table.Field{Name: n, Required: true})
	}
	for _, n := range optional {
		out = append(out, table.Field{Name: n})
	}
	return out
}

var AgencySchema = table.Schema[Agency]{
	File: FileAgency, Required: true,
	Fields: fields([]string{"agency_name", "agency_url", "agency_timezone"},
		"agency_id", "agency_lang", "agency_phone", "agency_fare_url", "agency_email"),
	Build: func(r *table.Row) Agency {
		return Agency{
			ID:       r.Text("agency_id"),
			Name:     r.Text("agency_name"),
			URL:      r.URL("agency_url"),
			Timezone: r.Timezone("agency_timezone"),
			Lang:     r.Language("agency_lang"),
			Phone:    r.Text("agency_phone"),
			FareURL:  r.URL("agency_fare_url"),
			Email:    r.Email("agency_email"),
		}
	},
}

var StopSchema = table.Schema[Stop]{
	File: FileStops, Required: true,
	Fields: fields([]string{"stop_id"},
		"stop_code", "stop_name", "tts_stop_name", "stop_desc", "stop_lat", "stop_lon", "zone_id",
		"stop_url", "location_type", "parent_station", "stop_timezone", "wheelchair_boarding",
		"level_id", "platform_code"),
	Build: func(r *table.Row) Stop {
		return Stop{
			ID:                 r.Text("stop_id"),
			Code:               r.Text("stop_code"),
			Name:               r.Text("stop_name"),
			TTSName:            r.Text("tts_stop_name"),
			Desc:               r.Text("stop_desc"),
			Lat:                r.Float("stop_lat"),
			Lon:                r.Float("stop_lon"),
			ZoneID:             r.Text("zone_id"),
			URL:                r.URL("stop_url"),
			LocationType:       r.Enum("location_type", zeroToFour...),
			ParentStation:      r.Text("parent_station"),
			Timezone:           r.Timezone("stop_timezone"),
			WheelchairBoarding: r.Enum("wheelchair_boarding", zeroToTwo...),
			LevelID:            r.Text("level_id"),
			PlatformCode:       r.Text("platform_code"),
		}
	},
}

var RouteSchema = table.Schema[Route]{
	File: FileRoutes, Required: true,
	Fields: fields([]string{"route_id", "route_type"},
		"agency_id", "route_short_name", "route_long_name", "route_desc", "route_url",
		"route_color", "route_text_color", "route_sort_order", "continuous_pickup",
		"continuous_drop_off", "network_id"),
	Build: func(r *table.Row) Route {
		return Route{
			ID:                r.Text("route_id"),
			AgencyID:          r.Text("agency_id"),
			ShortName:         r.Text("route_short_name"),
			LongName:          r.Text("route_long_name"),
			Desc:              r.Text("route_desc"),
			Type:              r.EnumFunc("route_type", ValidRouteType),
			URL:               r.URL("route_url"),
			Color:             r.Color("route_color"),
			TextColor:         r.Color("route_text_color"),
			SortOrder:         r.Int("route_sort_order"),
			ContinuousPickup:  r.Enum("continuous_pickup", zeroToThree...),
			ContinuousDropOff: r.Enum("continuous_drop_off", zeroToThree...),
			NetworkID:         r.Text("network_id"),
		}
	},
}

var TripSchema = table.Schema[Trip]{
	File: FileTrips, Required: true,
	Fields: fields([]string{"route_id", "service_id", "trip_id"},
		"trip_headsign", "trip_short_name", "direction_id", "block_id", "shape_id",
		"wheelchair_accessible", "bikes_allowed"),
	Build: func(r *table.Row) Trip {
		return Trip{
			RouteID:              r.Text("route_id"),
			ServiceID:            r.Text("service_id"),
			ID:                   r.Text("trip_id"),
			Headsign:             r.Text("trip_headsign"),
			ShortName:            r.Text("trip_short_name"),
			DirectionID:          r.Enum("direction_id", zeroOne...),
			BlockID:              r.Text("block_id"),
			ShapeID:              r.Text("shape_id"),
			WheelchairAccessible: r.Enum("wheelchair_accessible", zeroToTwo...),
			BikesAllowed:         r.Enum("bikes_allowed", zeroToTwo...),
		}
	},
}

var StopTimeSchema = table.Schema[StopTime]{
	File: FileStopTimes, Required: true,
	Fields: fields([]string{"trip_id", "stop_sequence"},
		"arrival_time", "departure_time", "stop_id", "location_group_id", "location_id",
		"stop_headsign", "start_pickup_drop_off_window", "end_pickup_drop_off_window",
		"pickup_type", "drop_off_type", "continuous_pickup", "continuous_drop_off",
		"shape_dist_traveled", "timepoint", "pickup_booking_rule_id", "drop_off_booking_rule_id"),
	Build: func(r *table.Row) StopTime {
		return StopTime{
			TripID:                   r.Text("trip_id"),
			ArrivalTime:              r.Time("arrival_time"),
			DepartureTime:            r.Time("departure_time"),
			StopID:                   r.Text("stop_id"),
			LocationGroupID:          r.Text("location_group_id"),
			LocationID:               r.Text("location_id"),
			StopSequence:             r.Int("stop_sequence"),
			StopHeadsign:             r.Text("stop_headsign"),
			StartPickupDropOffWindow: r.Time("start_pickup_drop_off_window"),
			EndPickupDropOffWindow:   r.Time("end_pickup_drop_off_window"),
			PickupType:               r.Enum("pickup_type", zeroToThree...),
			DropOffType:              r.Enum("drop_off_type", zeroToThree...),
			ContinuousPickup:         r.Enum("continuous_pickup", zeroToThree...),
			ContinuousDropOff:        r.Enum("continuous_drop_off", zeroToThree...),
			ShapeDistTraveled:        r.Float("shape_dist_traveled"),
			Timepoint:                r.Enum("timepoint", zeroOne...),
			PickupBookingRuleID:      r.Text("pickup_booking_rule_id"),
			DropOffBookingRuleID:     r.Text("drop_off_booking_rule_id"),
		}
	},
}

var weekdays = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var CalendarSchema = table.Schema[Calendar]{
	File: FileCalendar,
	Fields: fields([]string{"service_id", "monday", "tuesday", "wednesday", "thursday",
		"friday", "saturday", "sunday", "start_date", "end_date"}),
	Build: func(r *table.Row) Calendar {
		c := Calendar{
			ServiceID: r.Text("service_id"),
			StartDate: r.Date("start_date"),
			EndDate:   r.Date("end_date"),
		}
		for i, day := range weekdays {
			if v := r.Enum(day, zeroOne...); v != nil && *v == 1 {
				c.Days[i] = true
			}
		}
		return c
	},
}

var CalendarDateSchema = table.Schema[CalendarDate]{
	File:   FileCalendarDates,
	Fields: fields([]string{"service_id", "date", "exception_type"}),
	Build: func(r *table.Row) CalendarDate {
		return CalendarDate{
			ServiceID:     r.Text("service_id"),
			Date:          r.Date("date"),
			ExceptionType: r.Enum("exception_type", ExceptionAdded, ExceptionRemoved),
		}
	},
}

var FareAttributeSchema = table.Schema[FareAttribute]{
	File: FileFareAttributes,
	Fields: fields([]string{"fare_id", "price", "currency_type", "payment_method"},
		"transfers", "agency_id", "transfer_duration"),
	Build: func(r *table.Row) FareAttribute {
		return FareAttribute{
			ID:               r.Text("fare_id"),
			Price:            r.Float("price"),
			CurrencyType:     r.Currency("currency_type"),
			PaymentMethod:    r.Enum("payment_method", zeroOne...),
			Transfers:        r.Enum("transfers", zeroToTwo...),
			AgencyID:         r.Text("agency_id"),
			TransferDuration: r.Int("transfer_duration"),
		}
	},
}

var FareRuleSchema = table.Schema[FareRule]{
	File:   FileFareRules,
	Fields: fields([]string{"fare_id"}, "route_id", "origin_id", "destination_id", "contains_id"),
	Build: func(r *table.Row) FareRule {
		return FareRule{
			FareID:        r.Text("fare_id"),
			RouteID:       r.Text("route_id"),
			OriginID:      r.Text("origin_id"),
			DestinationID: r.Text("destination_id"),
			ContainsID:    r.Text("contains_id"),
		}
	},
}

var TimeframeSchema = table.Schema[Timeframe]{
	File:   FileTimeframes,
	Fields: fields([]string{"timeframe_group_id", "service_id"}, "start_time", "end_time"),
	Build: func(r *table.Row) Timeframe {
		return Timeframe{
			GroupID:   r.Text("timeframe_group_id"),
			StartTime: r.Time("start_time"),
			EndTime:   r.Time("end_time"),
			ServiceID: r.Text("service_id"),
		}
	},
}

var FareMediaSchema = table.Schema[FareMedia]{
	File:   FileFareMedia,
	Fields: fields([]string{"fare_media_id", "fare_media_type"}, "fare_media_name"),
	Build: func(r *table.Row) FareMedia {
		return FareMedia{
			ID:   r.Text("fare_media_id"),
			Name: r.Text("fare_media_name"),
			Type: r.Enum("fare_media_type", zeroToFour...),
		}
	},
}

var FareProductSchema = table.Schema[FareProduct]{
	File: FileFareProducts,
	Fields: fields([]string{"fare_product_id", "amount", "currency"},
		"fare_product_name", "rider_category_id", "fare_media_id"),
	Build: func(r *table.Row) FareProduct {
		return FareProduct{
			ID:              r.Text("fare_product_id"),
			Name:            r.Text("fare_product_name"),
			RiderCategoryID: r.Text("rider_category_id"),
			FareMediaID:     r.Text("fare_media_id"),
			Amount:          r.Float("amount"),
			Currency:        r.Currency("currency"),
		}
	},
}

var FareLegRuleSchema = table.Schema[FareLegRule]{
	File: FileFareLegRules,
	Fields: fields([]string{"fare_product_id"},
		"leg_group_id", "network_id", "from_area_id", "to_area_id",
		"from_timeframe_group_id", "to_timeframe_group_id", "rule_priority"),
	Build: func(r *table.Row) FareLegRule {
		return FareLegRule{
			LegGroupID:           r.Text("leg_group_id"),
			NetworkID:            r.Text("network_id"),
			FromAreaID:           r.Text("from_area_id"),
			ToAreaID:             r.Text("to_area_id"),
			FromTimeframeGroupID: r.Text("from_timeframe_group_id"),
			ToTimeframeGroupID:   r.Text("to_timeframe_group_id"),
			FareProductID:        r.Text("fare_product_id"),
			RulePriority:         r.Int("rule_priority"),
		}
	},
}

var FareTransferRuleSchema = table.Schema[FareTransferRule]{
	File: FileFareTransferRules,
	Fields: fields([]string{"fare_transfer_type"},
		"from_leg_group_id", "to_leg_group_id", "transfer_count", "duration_limit",
		"duration_limit_type", "fare_product_id"),
	Build: func(r *table.Row) FareTransferRule {
		return FareTransferRule{
			FromLegGroupID:    r.Text("from_leg_group_id"),
			ToLegGroupID:      r.Text("to_leg_group_id"),
			TransferCount:     r.Int("transfer_count"),
			DurationLimit:     r.Int("duration_limit"),
			DurationLimitType: r.Enum("duration_limit_type", zeroToThree...),
			FareTransferType:  r.Enum("fare_transfer_type", zeroToTwo...),
			FareProductID:     r.Text("fare_product_id"),
		}
	},
}

var RiderCategorySchema = table.Schema[RiderCategory]{
	File: FileRiderCategories,
	Fields: fields([]string{"rider_category_id", "rider_category_name"},
		"is_default_fare_category", "eligibility_url"),
	Build: func(r *table.Row) RiderCategory {
		return RiderCategory{
			ID:                    r.Text("rider_category_id"),
			Name:                  r.Text("rider_category_name"),
			IsDefaultFareCategory: r.Enum("is_default_fare_category", zeroOne...),
			EligibilityURL:        r.URL("eligibility_url"),
		}
	},
}

var AreaSchema = table.Schema[Area]{
	File:   FileAreas,
	Fields: fields([]string{"area_id"}, "area_name"),
	Build: func(r *table.Row) Area {
		return Area{ID: r.Text("area_id"), Name: r.Text("area_name")}
	},
}

var StopAreaSchema = table.Schema[StopArea]{
	File:   FileStopAreas,
	Fields: fields([]string{"area_id", "stop_id"}),
	Build: func(r *table.Row) StopArea {
		return StopArea{AreaID: r.Text("area_id"), StopID: r.Text("stop_id")}
	},
}

var NetworkSchema = table.Schema[Network]{
	File:   FileNetworks,
	Fields: fields([]string{"network_id"}, "network_name"),
	Build: func(r *table.Row) Network {
		return Network{ID: r.Text("network_id"), Name: r.Text("network_name")}
	},
}

var RouteNetworkSchema = table.Schema[RouteNetwork]{
	File:   FileRouteNetworks,
	Fields: fields([]string{"network_id", "route_id"}),
	Build: func(r *table.Row) RouteNetwork {
		return RouteNetwork{NetworkID: r.Text("network_id"), RouteID: r.Text("route_id")}
	},
}

var ShapeSchema = table.Schema[ShapePoint]{
	File: FileShapes,
	Fields: fields([]string{"shape_id", "shape_pt_lat", "shape_pt_lon", "shape_pt_sequence"},
		"shape_dist_traveled"),
	Build: func(r *table.Row) ShapePoint {
		return ShapePoint{
			ShapeID:      r.Text("shape_id"),
			Lat:          r.Float("shape_pt_lat"),
			Lon:          r.Float("shape_pt_lon"),
			Sequence:     r.Int("shape_pt_sequence"),
			DistTraveled: r.Float("shape_dist_traveled"),
		}
	},
}

var FrequencySchema = table.Schema[Frequency]{
	File:   FileFrequencies,
	Fields: fields([]string{"trip_id", "start_time", "end_time", "headway_secs"}, "exact_times"),
	Build: func(r *table.Row) Frequency {
		return Frequency{
			TripID:      r.Text("trip_id"),
			StartTime:   r.Time("start_time"),
			EndTime:     r.Time("end_time"),
			HeadwaySecs: r.Int("headway_secs"),
			ExactTimes:  r.Enum("exact_times", zeroOne...),
		}
	},
}

var TransferSchema = table.Schema[Transfer]{
	File: FileTransfers,
	Fields: fields([]string{"transfer_type"},
		"from_stop_id", "to_stop_id", "from_route_id", "to_route_id", "from_trip_id",
		"to_trip_id", "min_transfer_time"),
	Build: func(r *table.Row) Transfer {
		return Transfer{
			FromStopID:      r.Text("from_stop_id"),
			ToStopID:        r.Text("to_stop_id"),
			FromRouteID:     r.Text("from_route_id"),
			ToRouteID:       r.Text("to_route_id"),
			FromTripID:      r.Text("from_trip_id"),
			ToTripID:        r.Text("to_trip_id"),
			TransferType:    r.Enum("transfer_type", zeroToFive...),
			MinTransferTime: r.Int("min_transfer_time"),
		}
	},
}

var PathwaySchema = table.Schema[Pathway]{
	File: FilePathways,
	Fields: fields([]string{"pathway_id", "from_stop_id", "to_stop_id", "pathway_mode", "is_bidirectional"},
		"length", "traversal_time", "stair_count", "max_slope", "min_width",
		"signposted_as", "reversed_signposted_as"),
	Build: func(r *table.Row) Pathway {
		return Pathway{
			ID:                   r.Text("pathway_id"),
			FromStopID:           r.Text("from_stop_id"),
			ToStopID:             r.Text("to_stop_id"),
			Mode:                 r.Enum("pathway_mode", oneToSeven...),
			IsBidirectional:      r.Enum("is_bidirectional", zeroOne...),
			Length:               r.Float("length"),
			TraversalTime:        r.Int("traversal_time"),
			StairCount:           r.Int("stair_count"),
			MaxSlope:             r.Float("max_slope"),
			MinWidth:             r.Float("min_width"),
			SignpostedAs:         r.Text("signposted_as"),
			ReversedSignpostedAs: r.Text("reversed_signposted_as"),
		}
	},
}

var LevelSchema = table.Schema[Level]{
	File:   FileLevels,
	Fields: fields([]string{"level_id", "level_index"}, "level_name"),
	Build: func(r *table.Row) Level {
		return Level{ID: r.Text("level_id"), Index: r.Float("level_index"), Name: r.Text("level_name")}
	},
}

var LocationGroupSchema = table.Schema[LocationGroup]{
	File:   FileLocationGroups,
	Fields: fields([]string{"location_group_id"}, "location_group_name"),
	Build: func(r *table.Row) LocationGroup {
		return LocationGroup{ID: r.Text("location_group_id"), Name: r.Text("location_group_name")}
	},
}

var LocationGroupStopSchema = table.Schema[LocationGroupStop]{
	File:   FileLocationGroupStops,
	Fields: fields([]string{"location_group_id", "stop_id"}),
	Build: func(r *table.Row) LocationGroupStop {
		return LocationGroupStop{LocationGroupID: r.Text("location_group_id"), StopID: r.Text("stop_id")}
	},
}

var BookingRuleSchema = table.Schema[BookingRule]{
	File: FileBookingRules,
	Fields: fields([]string{"booking_rule_id", "booking_type"},
		"prior_notice_duration_min", "prior_notice_duration_max", "prior_notice_last_day",
		"prior_notice_last_time", "prior_notice_start_day", "prior_notice_start_time",
		"prior_notice_service_id", "message", "pickup_message", "drop_off_message",
		"phone_number", "info_url", "booking_url"),
	Build: func(r *table.Row) BookingRule {
		return BookingRule{
			ID:                     r.Text("booking_rule_id"),
			BookingType:            r.Enum("booking_type", zeroToTwo...),
			PriorNoticeDurationMin: r.Int("prior_notice_duration_min"),
			PriorNoticeDurationMax: r.Int("prior_notice_duration_max"),
			PriorNoticeLastDay:     r.Int("prior_notice_last_day"),
			PriorNoticeLastTime:    r.Time("prior_notice_last_time"),
			PriorNoticeStartDay:    r.Int("prior_notice_start_day"),
			PriorNoticeStartTime:   r.Time("prior_notice_start_time"),
			PriorNoticeServiceID:   r.Text("prior_notice_service_id"),
			Message:                r.Text("message"),
			PickupMessage:          r.Text("pickup_message"),
			DropOffMessage:         r.Text("drop_off_message"),
			PhoneNumber:            r.Text("phone_number"),
			InfoURL:                r.URL("info_url"),
			BookingURL:             r.URL("booking_url"),
		}
	},
}

var TranslationSchema = table.Schema[Translation]{
	File: FileTranslations,
	Fields: fields([]string{"table_name", "field_name", "language", "translation"},
		"record_id", "record_sub_id", "field_value"),
	Build: func(r *table.Row) Translation {
		return Translation{
			TableName:   r.Text("table_name"),
			FieldName:   r.Text("field_name"),
			Language:    r.Language("language"),
			Translation: r.Text("translation"),
			RecordID:    r.Text("record_id"),
			RecordSubID: r.Text("record_sub_id"),
			FieldValue:  r.Text("field_value"),
		}
	},
}

var FeedInfoSchema = table.Schema[FeedInfo]{
	File: FileFeedInfo,
	Fields: fields([]string{"feed_publisher_name", "feed_publisher_url", "feed_lang"},
		"default_lang", "feed_start_date", "feed_end_date", "feed_version",
		"feed_contact_email", "feed_contact_url"),
	Build: func(r *table.Row) FeedInfo {
		return FeedInfo{
			PublisherName: r.Text("feed_publisher_name"),
			PublisherURL:  r.URL("feed_publisher_url"),
			Lang:          r.Language("feed_lang"),
			DefaultLang:   r.Language("default_lang"),
			StartDate:     r.Date("feed_start_date"),
			EndDate:       r.Date("feed_end_date"),
			Version:       r.Text("feed_version"),
			ContactEmail:  r.Email("feed_contact_email"),
			ContactURL:    r.URL("feed_contact_url"),
		}
	},
}

var AttributionSchema = table.Schema[Attribution]{
	File: FileAttributions,
	Fields: fields([]string{"organization_name"},
		"attribution_id", "agency_id", "route_id", "trip_id", "is_producer", "is_operator",
		"is_authority", "attribution_url", "attribution_email", "attribution_phone"),
	Build: func(r *table.Row) Attribution {
		return Attribution{
			ID:               r.Text("attribution_id"),
			AgencyID:         r.Text("agency_id"),
			RouteID:          r.Text("route_id"),
			TripID:           r.Text("trip_id"),
			OrganizationName: r.Text("organization_name"),
			IsProducer:       r.Enum("is_producer", zeroOne...),
			IsOperator:       r.Enum("is_operator", zeroOne...),
			IsAuthority:      r.Enum("is_authority", zeroOne...),
			URL:              r.URL("attribution_url"),
			Email:            r.Email("attribution_email"),
			Phone:            r.Text("attribution_phone"),
		}
	},
}
