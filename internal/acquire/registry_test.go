// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"sort"
	"testing"
)

func TestRegistryComplete(t *testing.T) {
	want := []string{"airparif", "babies", "bike-accidents", "dpt-area", "dpt-population", "titanic"}
	got := Names()
	if !sort.StringsAreSorted(got) {
		t.Errorf("Names() not sorted: %v", got)
	}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	for _, ds := range registry() {
		if ds.URL == "" || ds.Filename == "" || ds.Description == "" {
			t.Errorf("registry entry %q is incomplete: %+v", ds.Name, ds)
		}
	}
}

func TestLookupDialects(t *testing.T) {
	babies, ok := Lookup("babies")
	if !ok {
		t.Fatal("babies should be registered")
	}
	if !babies.Dialect.Whitespace || babies.Dialect.SkipRows != 38 {
		t.Errorf("babies dialect = %+v, want whitespace with 38 skipped rows", babies.Dialect)
	}

	airparif, _ := Lookup("airparif")
	if airparif.Dialect.Separator != ";" || airparif.Dialect.Comment != "#" {
		t.Errorf("airparif dialect = %+v", airparif.Dialect)
	}
	if len(airparif.Dialect.NAValues) != 1 || airparif.Dialect.NAValues[0] != "n/d" {
		t.Errorf("airparif NA values = %v, want [n/d]", airparif.Dialect.NAValues)
	}

	area, _ := Lookup("dpt-area")
	if area.Dialect.Separator != "\t" || !area.Dialect.Ragged {
		t.Errorf("dpt-area dialect = %+v, want ragged tab-separated", area.Dialect)
	}

	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup should miss unknown names")
	}
}

func TestAdhocDataset(t *testing.T) {
	ds, err := adhocDataset("https://example.com/data/mesures.csv", "", "")
	if err != nil {
		t.Fatalf("adhocDataset: %v", err)
	}
	if ds.Name != "mesures" || ds.Filename != "mesures.csv" {
		t.Errorf("derived %q / %q, want mesures / mesures.csv", ds.Name, ds.Filename)
	}

	ds, err = adhocDataset("https://example.com/raw", "renamed.csv", "")
	if err != nil {
		t.Fatalf("adhocDataset with filename: %v", err)
	}
	if ds.Filename != "renamed.csv" || ds.Name != "renamed" {
		t.Errorf("explicit filename ignored: %+v", ds)
	}
}
