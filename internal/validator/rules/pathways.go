package rules

import (
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
)

// PathwayValidators check the station graph formed by pathways.txt.
func PathwayValidators() []validator.Validator {
	return []validator.Validator{
		validator.New("pathway_loop", validatePathwayLoop),
		validator.New("pathway_dangling_generic_node", validatePathwayDanglingGenericNode),
		validator.New("pathway_endpoints", validatePathwayEndpoints),
	}
}

func validatePathwayLoop(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Pathways.Usable() {
		return
	}
	for row, p := range feed.Pathways.All() {
		if p.FromStopID != "" && p.FromStopID == p.ToStopID {
			sink.Add(rowNotice(CodePathwayLoop, notice.Warning, "pathway starts and ends at the same location", gtfs.FilePathways, row).
				Str("pathwayId", p.ID).
				Str("stopId", p.FromStopID))
		}
	}
}

// A generic node joins pathways; with a single distinct neighbour it leads
// nowhere.
func validatePathwayDanglingGenericNode(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Pathways.Usable() || !feed.Stops.Usable() {
		return
	}
	neighbours := make(map[string]map[string]struct{})
	link := func(a, b string) {
		if neighbours[a] == nil {
			neighbours[a] = make(map[string]struct{})
		}
		neighbours[a][b] = struct{}{}
	}
	for _, p := range feed.Pathways.All() {
		if p.FromStopID == "" || p.ToStopID == "" || p.FromStopID == p.ToStopID {
			continue
		}
		link(p.FromStopID, p.ToStopID)
		link(p.ToStopID, p.FromStopID)
	}
	for row, s := range feed.Stops.All() {
		if s.Type() != gtfs.LocationGenericNode || len(neighbours[s.ID]) != 1 {
			continue
		}
		sink.Add(rowNotice(CodePathwayDanglingGenericNode, notice.Warning, "generic node is connected to only one other location", gtfs.FileStops, row).
			Str("stopId", s.ID).
			Str("stopName", s.Name).
			Str("parentStation", s.ParentStation))
	}
}

// Pathways never end at a station, and a platform that has boarding areas is
// reached through them.
func validatePathwayEndpoints(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Pathways.Usable() || !feed.Stops.Usable() {
		return
	}
	types := make(map[string]gtfs.LocationType, feed.Stops.Len())
	withBoarding := make(map[string]bool)
	for _, s := range feed.Stops.All() {
		if _, ok := types[s.ID]; !ok {
			types[s.ID] = s.Type()
		}
		if s.Type() == gtfs.LocationBoardingArea && s.ParentStation != "" {
			withBoarding[s.ParentStation] = true
		}
	}

	for row, p := range feed.Pathways.All() {
		for _, end := range []struct{ field, id string }{{"from_stop_id", p.FromStopID}, {"to_stop_id", p.ToStopID}} {
			t, ok := types[end.id]
			if !ok {
				continue
			}
			switch {
			case t == gtfs.LocationStation:
				sink.Add(rowNotice(CodePathwayToWrongLocationType, notice.Error, "pathway endpoint is a station", gtfs.FilePathways, row).
					Str("pathwayId", p.ID).
					Str("fieldName", end.field).
					Str("stopId", end.id))
			case t == gtfs.LocationStop && withBoarding[end.id]:
				sink.Add(rowNotice(CodePathwayToPlatformWithBoarding, notice.Error, "pathway must reach the platform through its boarding areas", gtfs.FilePathways, row).
					Str("pathwayId", p.ID).
					Str("fieldName", end.field).
					Str("stopId", end.id))
			}
		}
	}
}
