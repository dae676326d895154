// Package geo parses the GeoJSON locations file of flexible-service feeds and
// answers identifier and containment queries over it.
package geo

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
)

// FileName is the canonical name of the locations file.
const FileName = "locations.geojson"

// Notice codes produced while parsing.
const (
	CodeMalformedJSON           = "malformed_json"
	CodeMissingRequiredElement  = "missing_required_element"
	CodeDuplicatedElement       = "geo_json_duplicated_element"
	CodeUnsupportedGeometryType = "unsupported_geometry_type"
	CodeInvalidGeometry         = "invalid_geometry"
)

// Feature is one location zone. Geometry is an orb.Polygon or an
// orb.MultiPolygon.
type Feature struct {
	ID       string
	Index    int
	Geometry orb.Geometry
	Bound    orb.Bound
}

// Locations is the parsed content of locations.geojson.
type Locations struct {
	features map[string]*Feature
	notices  []*notice.Notice
	fatal    bool
}

type rawCollection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

type rawFeature struct {
	Type     string          `json:"type"`
	ID       json.RawMessage `json:"id"`
	Geometry json.RawMessage `json:"geometry"`
}

// Parse decodes data. It never fails: problems are reported through
// Notices, and HasFatalErrors is set when the document as a whole is unusable.
func Parse(data []byte) *Locations {
	l := &Locations{features: make(map[string]*Feature)}

	var coll rawCollection
	if err := json.Unmarshal(data, &coll); err != nil {
		l.fail(err.Error())
		return l
	}
	if coll.Type != "FeatureCollection" {
		l.fail(fmt.Sprintf("expected a FeatureCollection, got %q", coll.Type))
		return l
	}

	for i, raw := range coll.Features {
		var rf rawFeature
		if err := json.Unmarshal(raw, &rf); err != nil {
			l.add(notice.New(CodeMalformedJSON, notice.Error, "feature is not a JSON object").
				Str("filename", FileName).
				Int("featureIndex", i).
				Str("message", err.Error()))
			continue
		}
		l.feature(i, &rf)
	}
	return l
}

func (l *Locations) feature(i int, rf *rawFeature) {
	id, ok := featureID(rf.ID)
	if !ok {
		l.missing(i, "", "id")
		return
	}
	if rf.Type != "Feature" {
		l.missing(i, id, "type")
	}
	if isNull(rf.Geometry) {
		l.missing(i, id, "geometry")
		return
	}
	if first, dup := l.features[id]; dup {
		l.add(notice.New(CodeDuplicatedElement, notice.Error, "feature id is used more than once").
			Str("filename", FileName).
			Str("featureId", id).
			Int("firstIndex", first.Index).
			Int("secondIndex", i))
		return
	}

	var head struct {
		Type string `json:"type"`
	}
	err := json.Unmarshal(rf.Geometry, &head)
	if err == nil && head.Type != "Polygon" && head.Type != "MultiPolygon" {
		l.add(notice.New(CodeUnsupportedGeometryType, notice.Error, "geometry type is not Polygon or MultiPolygon").
			Str("filename", FileName).
			Int("featureIndex", i).
			Str("featureId", id).
			Str("geometryType", head.Type))
		return
	}

	var g *geojson.Geometry
	if err == nil {
		g, err = geojson.UnmarshalGeometry(rf.Geometry)
	}
	if err == nil {
		err = checkPolygons(polygons(g.Geometry()))
	}
	if err != nil {
		l.add(notice.New(CodeInvalidGeometry, notice.Error, "geometry coordinates are invalid").
			Str("filename", FileName).
			Int("featureIndex", i).
			Str("featureId", id).
			Str("message", err.Error()))
		return
	}

	l.features[id] = &Feature{ID: id, Index: i, Geometry: g.Geometry(), Bound: g.Geometry().Bound()}
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func featureID(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

// polygons flattens a decoded area geometry.
func polygons(g orb.Geometry) []orb.Polygon {
	switch g := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}
	case orb.MultiPolygon:
		return g
	}
	return nil
}

func checkPolygons(polys []orb.Polygon) error {
	if len(polys) == 0 {
		return fmt.Errorf("no polygons")
	}
	for pi, p := range polys {
		if len(p) == 0 {
			return fmt.Errorf("polygon %d has no rings", pi)
		}
		for ri, r := range p {
			if len(r) < 4 {
				return fmt.Errorf("polygon %d ring %d has %d positions, need at least 4", pi, ri, len(r))
			}
			if r[0] != r[len(r)-1] {
				return fmt.Errorf("polygon %d ring %d is not closed", pi, ri)
			}
		}
	}
	return nil
}

func (l *Locations) fail(msg string) {
	l.fatal = true
	l.add(notice.New(CodeMalformedJSON, notice.Error, "file is not a valid GeoJSON FeatureCollection").
		Str("filename", FileName).
		Str("message", msg))
}

func (l *Locations) missing(i int, id, element string) {
	n := notice.New(CodeMissingRequiredElement, notice.Error, "feature is missing a required element").
		Str("filename", FileName).
		Int("featureIndex", i)
	if id != "" {
		n.Str("featureId", id)
	}
	l.add(n.Str("missingElement", element))
}

func (l *Locations) add(n *notice.Notice) {
	n.At(FileName, 0)
	l.notices = append(l.notices, n)
}

// Has reports whether a feature with the id was parsed.
func (l *Locations) Has(id string) bool {
	_, ok := l.features[id]
	return ok
}

func (l *Locations) HasFatalErrors() bool { return l.fatal }

// Notices returns the parse notices in the order they were found.
func (l *Locations) Notices() []*notice.Notice { return l.notices }

