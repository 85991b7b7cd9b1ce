package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadNoFlyZones loads every polygon from the GeoJSON files in dir.
// Unreadable or malformed files are logged and skipped.
func LoadNoFlyZones(dir string, logger *log.Logger) ([]orb.Polygon, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, fmt.Errorf("glob no-fly zones in %s: %w", dir, err)
	}

	logger.Debug("loading no-fly zones", "dir", dir, "files", len(files))

	var allPolygons []orb.Polygon
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			logger.Warn("failed to read no-fly zone file", "file", file, "err", err)
			continue
		}

		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			logger.Warn("failed to parse no-fly zone file", "file", file, "err", err)
			continue
		}

		polygons := polygonsFromFeatures(fc)
		allPolygons = append(allPolygons, polygons...)
		logger.Debug("loaded no-fly zones", "file", filepath.Base(file), "polygons", len(polygons))
	}

	logger.Info("no-fly zones loaded", "polygons", len(allPolygons))
	return allPolygons, nil
}

// polygonsFromFeatures extracts Polygon and MultiPolygon geometries
func polygonsFromFeatures(fc *geojson.FeatureCollection) []orb.Polygon {
	if fc == nil {
		return nil
	}

	var polygons []orb.Polygon
	for _, feature := range fc.Features {
		switch g := feature.Geometry.(type) {
		case orb.Polygon:
			polygons = append(polygons, g)
		case orb.MultiPolygon:
			polygons = append(polygons, g...)
		}
	}
	return polygons
}
