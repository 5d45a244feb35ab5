// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/pdiddy/dataset-engine/pkg/types"
)

// Download endpoints for the built-in datasets. Tests substitute these
// with a local test server.
var (
	titanicURL       = "http://josephsalmon.eu/enseignement/datasets/titanic.csv"
	airparifURL      = "http://josephsalmon.eu/enseignement/datasets/20080421_20160927-PA13_auto.csv"
	babiesURL        = "http://josephsalmon.eu/enseignement/datasets/babies23.data"
	bikeAccidentsURL = "https://koumoul.com/s/data-fair/api/v1/datasets/accidents-velos/raw"
	dptPopulationURL = "https://public.opendatasoft.com/explore/dataset/population-francaise-par-departement-2018/download/?format=csv&csv_separator=%3B"
	dptAreaURL       = "https://www.regions-et-departements.fr/fichiers/departements-francais.csv"
)

// registry lists the datasets the engine knows how to fetch and parse.
// Dialects describe the raw files as published; conversion rewrites them
// into canonical comma-separated form.
func registry() []types.Dataset {
	return []types.Dataset{
		{
			Name:        "titanic",
			URL:         titanicURL,
			Filename:    "titanic.csv",
			Description: "Titanic passenger records: class, sex, age, fare, survival",
			License:     "public domain",
			Dialect:     types.Dialect{},
		},
		{
			Name:        "airparif",
			URL:         airparifURL,
			Filename:    "20080421_20160927-PA13_auto.csv",
			Description: "Airparif hourly air quality for the Paris 13e station, 2008-2016",
			License:     "Airparif open data",
			Dialect: types.Dialect{
				Separator: ";",
				Comment:   "#",
				NAValues:  []string{"n/d"},
			},
		},
		{
			Name:        "bike-accidents",
			URL:         bikeAccidentsURL,
			Filename:    "accidents-velos.csv",
			Description: "Bicycle accidents recorded by French police forces",
			License:     "Licence Ouverte (Etalab)",
			Dialect: types.Dialect{
				// Dates carry a textual layout the cleaner parses later.
				ForceString: []string{"date"},
			},
		},
		{
			Name:        "babies",
			URL:         babiesURL,
			Filename:    "babies23.data",
			Description: "CDC 1973 babies survey: birth weight, gestation, smoking",
			License:     "Berkeley Stat Labs",
			Dialect: types.Dialect{
				Whitespace: true,
				SkipRows:   38,
			},
		},
		{
			Name:        "dpt-population",
			URL:         dptPopulationURL,
			Filename:    "population-francaise-par-departement-2018.csv",
			Description: "French population by department, 2018 estimate",
			License:     "Licence Ouverte (Etalab)",
			Dialect: types.Dialect{
				Separator:   ";",
				ForceString: []string{"Code Département"},
			},
		},
		{
			Name:        "dpt-area",
			URL:         dptAreaURL,
			Filename:    "departements-francais.csv",
			Description: "French department surface areas and prefectures",
			License:     "regions-et-departements.fr",
			Dialect: types.Dialect{
				Separator:   "\t",
				Ragged:      true,
				ForceString: []string{"NUMÉRO"},
			},
		},
	}
}

// Lookup returns the registry entry for a dataset name.
func Lookup(name string) (types.Dataset, bool) {
	for _, ds := range registry() {
		if ds.Name == name {
			return ds, true
		}
	}
	return types.Dataset{}, false
}

// Names returns all registered dataset names in sorted order.
func Names() []string {
	entries := registry()
	out := make([]string, len(entries))
	for i, ds := range entries {
		out[i] = ds.Name
	}
	sort.Strings(out)
	return out
}

// unknownDataset builds the error for a name outside the registry,
// listing what is available.
func unknownDataset(name string) error {
	return fmt.Errorf("unknown dataset %q (known: %s)", name, strings.Join(Names(), ", "))
}

// adhocDataset builds a one-run registry entry for AcquireURL. The
// filename falls back to the URL path base; the dialect is borrowed from
// the named registry entry when given.
func adhocDataset(rawURL, filename, dialectName string) (types.Dataset, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return types.Dataset{}, fmt.Errorf("invalid URL %q", rawURL)
	}
	if filename == "" {
		filename = path.Base(u.Path)
	}
	if filename == "" || filename == "/" || filename == "." {
		return types.Dataset{}, fmt.Errorf("cannot derive a filename from %q, pass one explicitly", rawURL)
	}
	ds := types.Dataset{
		Name:        strings.TrimSuffix(filename, path.Ext(filename)),
		URL:         rawURL,
		Filename:    filename,
		Description: "ad-hoc download",
	}
	if dialectName != "" {
		ref, ok := Lookup(dialectName)
		if !ok {
			return types.Dataset{}, unknownDataset(dialectName)
		}
		ds.Dialect = ref.Dialect
	}
	return ds, nil
}
