package rules

import (
	"math"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
)

const earthRadiusKm = 6371.0

// maxSpeedKph is the fastest plausible speed per basic route type.
var maxSpeedKph = map[int]float64{
	0:  100, // tram
	1:  150, // subway
	2:  500, // rail
	3:  150, // bus
	4:  80,  // ferry
	5:  30,  // cable tram
	6:  50,  // aerial lift
	7:  50,  // funicular
	11: 150, // trolleybus
	12: 150, // monorail
}

const defaultMaxSpeedKph = 200

// ThoroughValidators only report when Config.Thorough is set.
func ThoroughValidators() []validator.Validator {
	return []validator.Validator{
		validator.New("thorough:fast_travel", func(feed *gtfs.Feed, cfg *validator.Config, sink *notice.Container) {
			if cfg.Thorough {
				validateFastTravel(feed, sink)
			}
		}),
	}
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func validateFastTravel(feed *gtfs.Feed, sink *notice.Container) {
	if !feed.StopTimes.Usable() || !feed.Stops.Usable() || !feed.Trips.Usable() {
		return
	}
	stops := make(map[string]*gtfs.Stop, feed.Stops.Len())
	for _, s := range feed.Stops.All() {
		if s.Lat != nil && s.Lon != nil {
			stops[s.ID] = s
		}
	}
	routeTypes := make(map[string]int, feed.Routes.Len())
	for _, r := range feed.Routes.All() {
		if r.Type != nil {
			routeTypes[r.ID] = *r.Type
		}
	}
	tripLimit := make(map[string]float64, feed.Trips.Len())
	for _, t := range feed.Trips.All() {
		limit := float64(defaultMaxSpeedKph)
		if rt, ok := routeTypes[t.RouteID]; ok {
			if v, ok := maxSpeedKph[rt]; ok {
				limit = v
			}
		}
		tripLimit[t.ID] = limit
	}

	byTrip(feed).each(func(trip string, rows []stopTimeRow) {
		limit, ok := tripLimit[trip]
		if !ok {
			return
		}
		var prev *stopTimeRow
		for i := range rows {
			cur := &rows[i]
			if _, ok := stops[cur.st.StopID]; !ok || cur.st.ArrivalTime == nil {
				continue
			}
			if prev != nil {
				from, to := stops[prev.st.StopID], stops[cur.st.StopID]
				dep := prev.st.DepartureTime
				if dep == nil {
					dep = prev.st.ArrivalTime
				}
				// Times are often rounded to the minute, so a zero gap counts as one.
				secs := max(cur.st.ArrivalTime.Seconds()-dep.Seconds(), 60)
				km := haversineKm(*from.Lat, *from.Lon, *to.Lat, *to.Lon)
				if kph := km / (float64(secs) / 3600); kph > limit {
					sink.Add(rowNotice(CodeFastTravel, notice.Warning, "vehicle travels implausibly fast between consecutive stops", gtfs.FileStopTimes, cur.row).
						Str("tripId", trip).
						Int("prevCsvRowNumber", prev.row).
						Str("prevStopId", prev.st.StopID).
						Str("stopId", cur.st.StopID).
						Float("distanceKm", math.Round(km*100)/100).
						Float("speedKph", math.Round(kph*10)/10))
				}
			}
			prev = cur
		}
	})
}
