// Package corpus loads the exported game data the site serves: the location
// table used by the calculators and the search catalog.
package corpus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"buddyfarm/internal/config"
	"buddyfarm/internal/location"
	"buddyfarm/internal/search"
)

// LocationsSource is the manifest source name that reads the locations file
// named in the data config when the manifest gives no file of its own.
const LocationsSource = "locations"

// Snapshot is one consistent load of the data directory. It is never mutated
// after it is published.
type Snapshot struct {
	Version   int64
	LoadedAt  time.Time
	Locations *location.Table
	Catalog   search.Catalog
}

// Load reads the location table, the search manifest and every source the
// manifest declares, then builds the catalog. The catalog takes every source
// in file order; only the calculator table is filtered by location type.
func Load(ctx context.Context, cfg config.DataConfig) (Snapshot, error) {
	table, err := location.LoadFile(cfg.LocationsPath(), cfg.LocationType)
	if err != nil {
		return Snapshot{}, err
	}
	manifest, err := search.LoadManifest(cfg.Manifest)
	if err != nil {
		return Snapshot{}, err
	}

	specs := make([]search.SourceSpec, 0, len(manifest.Sources))
	for _, spec := range manifest.Sources {
		if spec.Name == LocationsSource && strings.TrimSpace(spec.File) == "" {
			spec.File = cfg.LocationsFile
		}
		specs = append(specs, spec)
	}
	sources, err := search.LoadSources(ctx, cfg.Dir, specs)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load search sources failed: %w", err)
	}

	return Snapshot{
		LoadedAt:  time.Now(),
		Locations: table,
		Catalog:   search.Build(manifest.SyntheticEntries(), sources...),
	}, nil
}
