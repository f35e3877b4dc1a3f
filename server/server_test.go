package server

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/janelia-flyem/lattice/lattice"
	"github.com/janelia-flyem/lattice/regiontree"
	"github.com/janelia-flyem/lattice/storage"
)

const sampleProcedure = `on x=10..12,y=10..12,z=10..12
on x=11..13,y=11..13,z=11..13
off x=9..11,y=9..11,z=9..11
on x=10..10,y=10..10,z=10..10
`

func writeFile(t *testing.T, dir, name, contents string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("couldn't write %s: %v\n", path, err)
	}
	return path
}

func TestParseConfig(t *testing.T) {
	dir := t.TempDir()
	filename := writeFile(t, dir, "config.toml", `
[server]
note = "test config"
default_regions = false

[logging]
logfile = "logs/lattice.log"
max_log_size = 10

[store]
engine = "badger"
path = "db"
ValueThreshold = 1024

[cache]
size = 4

[tree]
compact = true
split = "grid"

[[region]]
name = "core"
min = "-10, -10, -10"
max = "10,10,10"

[[region]]
name = "everything"
full = true
`)
	c, err := LoadConfig(filename)
	if err != nil {
		t.Fatalf("bad TOML configuration: %v\n", err)
	}
	if c.Location() != filename {
		t.Errorf("expected location %s, got %s\n", filename, c.Location())
	}
	if c.Server.Note != "test config" {
		t.Errorf("bad note: %q\n", c.Server.Note)
	}
	if c.Logging.Logfile != filepath.Join(dir, "logs/lattice.log") || c.Logging.MaxSize != 10 {
		t.Errorf("bad logging config: %v\n", c.Logging)
	}
	if c.CacheBytes() != 4*lattice.Mega {
		t.Errorf("bad cache size: %d\n", c.CacheBytes())
	}
	opts, err := c.RunOptions()
	if err != nil {
		t.Fatalf("bad tree options: %v\n", err)
	}
	if !opts.Compact || opts.Split != regiontree.SplitGrid {
		t.Errorf("bad tree options: %+v\n", opts)
	}

	sc, err := c.StoreConfig()
	if err != nil {
		t.Fatalf("bad store config: %v\n", err)
	}
	if sc.Engine != "badger" {
		t.Errorf("bad engine: %s\n", sc.Engine)
	}
	if path, _, _ := sc.GetString("path"); path != filepath.Join(dir, "db") {
		t.Errorf("store path not made absolute: %s\n", path)
	}
	if thresh, found, err := sc.GetInt("ValueThreshold"); err != nil || !found || thresh != 1024 {
		t.Errorf("bad ValueThreshold: %d, %t, %v\n", thresh, found, err)
	}

	regions, err := c.Regions()
	if err != nil {
		t.Fatalf("bad regions: %v\n", err)
	}
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %v\n", regions)
	}
	if regions[0].Name != "core" || regions[0].Extents.String() != "(-10,-10,-10) -> (10,10,10)" {
		t.Errorf("bad core region: %s\n", regions[0])
	}
	if regions[1].Name != "everything" || !regions[1].Full {
		t.Errorf("bad full region: %s\n", regions[1])
	}
}

func TestDefaultConfig(t *testing.T) {
	filename := writeFile(t, t.TempDir(), "config.toml", `
[[region]]
name = "corner"
min = "0,0,0"
max = "5,5,5"
`)
	c, err := LoadConfig(filename)
	if err != nil {
		t.Fatalf("bad TOML configuration: %v\n", err)
	}
	regions, err := c.Regions()
	if err != nil {
		t.Fatalf("bad regions: %v\n", err)
	}
	var names []string
	for _, region := range regions {
		names = append(names, region.Name)
	}
	if len(names) != 3 || names[0] != "init" || names[1] != "full" || names[2] != "corner" {
		t.Errorf("expected default regions before configured ones, got %v\n", names)
	}
	if c.CacheBytes() != DefaultCacheMB*lattice.Mega {
		t.Errorf("expected default cache size, got %d\n", c.CacheBytes())
	}
	sc, err := c.StoreConfig()
	if err != nil || sc.Engine != DefaultEngine {
		t.Errorf("expected default engine, got %q (%v)\n", sc.Engine, err)
	}
}

func TestBadConfig(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Errorf("expected error with no config file\n")
	}
	dir := t.TempDir()
	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Errorf("expected error with missing config file\n")
	}

	tests := map[string]string{
		"inverted": `
[[region]]
name = "backwards"
min = "5,5,5"
max = "0,0,0"
`,
		"duplicate": `
[[region]]
name = "init"
min = "0,0,0"
max = "1,1,1"
`,
		"unnamed": `
[[region]]
min = "0,0,0"
max = "1,1,1"
`,
		"bad point": `
[[region]]
name = "flat"
min = "0,0"
max = "1,1,1"
`,
		"none": `
[server]
default_regions = false
`,
	}
	for name, contents := range tests {
		c, err := LoadConfig(writeFile(t, dir, "bad.toml", contents))
		if err != nil {
			t.Fatalf("%s: couldn't load config: %v\n", name, err)
		}
		if _, err := c.Regions(); err == nil {
			t.Errorf("%s: expected bad regions to be rejected\n", name)
		}
	}

	c, err := LoadConfig(writeFile(t, dir, "split.toml", "[tree]\nsplit = \"octree\"\n"))
	if err != nil {
		t.Fatalf("couldn't load config: %v\n", err)
	}
	if _, err := Open(c); err == nil || !strings.Contains(err.Error(), "unknown split") {
		t.Errorf("expected unknown split to be rejected, got %v\n", err)
	}

	c, err = LoadConfig(writeFile(t, dir, "inverted.toml", tests["inverted"]))
	if err != nil {
		t.Fatalf("couldn't load config: %v\n", err)
	}
	if _, err := c.Regions(); !errors.Is(err, lattice.ErrInvertedExtents) {
		t.Errorf("expected inverted extents error, got %v\n", err)
	}
}

func testService(t *testing.T) (*Service, string) {
	dir := t.TempDir()
	c := DefaultConfig()
	c.Store.Set("path", filepath.Join(dir, "db"))
	c.Cache.Size = 1
	s, err := Open(c)
	if err != nil {
		t.Fatalf("couldn't open service: %v\n", err)
	}
	t.Cleanup(s.Shutdown)
	return s, dir
}

func TestCount(t *testing.T) {
	s, dir := testService(t)
	results, err := s.Count(context.Background(), writeFile(t, dir, "sample.txt", sampleProcedure))
	if err != nil {
		t.Fatalf("couldn't count: %v\n", err)
	}
	if got := FormatResults(results, false); got != "39\n39\n" {
		t.Errorf("expected 39 for both regions, got %q\n", got)
	}
	if got := FormatResults(results, true); got != "init: 39\nfull: 39\n" {
		t.Errorf("bad verbose results: %q\n", got)
	}
	if s.store != nil {
		t.Errorf("count should not open the store\n")
	}
}

func TestImportReplayDelete(t *testing.T) {
	s, dir := testService(t)
	ctx := context.Background()

	id, err := s.Import(writeFile(t, dir, "sample.txt", sampleProcedure), "")
	if err != nil {
		t.Fatalf("couldn't import: %v\n", err)
	}

	infos, err := s.List()
	if err != nil {
		t.Fatalf("couldn't list: %v\n", err)
	}
	if len(infos) != 1 || infos[0].ID != id || infos[0].Name != "sample.txt" {
		t.Fatalf("bad procedure list: %v\n", infos)
	}

	// First replay computes and saves, second comes from the cache.
	for i := 0; i < 2; i++ {
		results, err := s.Replay(ctx, id)
		if err != nil {
			t.Fatalf("replay %d failed: %v\n", i, err)
		}
		if got := FormatResults(results, true); got != "init: 39\nfull: 39\n" {
			t.Errorf("replay %d: bad results %q\n", i, got)
		}
	}
	if count, found, err := s.store.GetCount(id, "full@bounds"); err != nil || !found || count != 39 {
		t.Errorf("expected saved count of 39, got %d, %t, %v\n", count, found, err)
	}
	if _, hits := s.cache.Stats(); hits != 2 {
		t.Errorf("expected 2 cache hits, got %d\n", hits)
	}

	if err := s.Delete(id); err != nil {
		t.Fatalf("couldn't delete: %v\n", err)
	}
	if _, err := s.Replay(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v\n", err)
	}
	if err := s.Delete(id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v\n", err)
	}
}

func TestImportEmpty(t *testing.T) {
	s, dir := testService(t)
	if _, err := s.Import(writeFile(t, dir, "empty.txt", "# nothing\n\n"), "empty"); err == nil {
		t.Errorf("expected error importing empty procedure\n")
	}
}

func TestReplayRedefinedRegion(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	procPath := writeFile(t, dir, "cube.txt", "on x=0..9,y=0..9,z=0..9\n")

	openWithBox := func(max string) *Service {
		c, err := LoadConfig(writeFile(t, dir, "config.toml", `
[server]
default_regions = false

[store]
path = "db"

[[region]]
name = "box"
min = "0,0,0"
max = "`+max+`"
`))
		if err != nil {
			t.Fatalf("couldn't load config: %v\n", err)
		}
		s, err := Open(c)
		if err != nil {
			t.Fatalf("couldn't open service: %v\n", err)
		}
		return s
	}

	s := openWithBox("10,10,10")
	id, err := s.Import(procPath, "")
	if err != nil {
		t.Fatalf("couldn't import: %v\n", err)
	}
	results, err := s.Replay(ctx, id)
	if err != nil || len(results) != 1 || results[0].Count != 1000 {
		t.Fatalf("expected 1000 cells on, got %v, %v\n", results, err)
	}
	s.Shutdown()

	// Same region name on the same store, now a smaller box.
	s = openWithBox("1,1,1")
	defer s.Shutdown()
	replayed, err := s.Replay(ctx, id)
	if err != nil {
		t.Fatalf("couldn't replay: %v\n", err)
	}
	counted, err := s.Count(ctx, procPath)
	if err != nil {
		t.Fatalf("couldn't count: %v\n", err)
	}
	if replayed[0].Count != 8 || replayed[0].Count != counted[0].Count {
		t.Errorf("replay of redefined region gave %d, fresh count %d\n", replayed[0].Count, counted[0].Count)
	}
}

func TestExport(t *testing.T) {
	s, dir := testService(t)
	id, err := s.Import(writeFile(t, dir, "sample.txt", sampleProcedure), "")
	if err != nil {
		t.Fatalf("couldn't import: %v\n", err)
	}

	var text bytes.Buffer
	if err := s.Export(id, &text, ""); err != nil {
		t.Fatalf("couldn't export text: %v\n", err)
	}
	if text.String() != sampleProcedure {
		t.Errorf("expected exported text to match imported file, got %q\n", text.String())
	}

	var js bytes.Buffer
	if err := s.Export(id, &js, "json"); err != nil {
		t.Fatalf("couldn't export json: %v\n", err)
	}
	if !strings.HasPrefix(js.String(), `{"steps":[{"state":"on","min":[10,10,10],"max":[12,12,12]}`) {
		t.Errorf("bad json export: %s\n", js.String())
	}
	path := writeFile(t, dir, "exported.json", js.String())
	results, err := s.Count(context.Background(), path)
	if err != nil {
		t.Fatalf("couldn't count exported json: %v\n", err)
	}
	if got := FormatResults(results, false); got != "39\n39\n" {
		t.Errorf("bad counts from exported json: %q\n", got)
	}

	if err := s.Export(id, &text, "yaml"); err == nil {
		t.Errorf("expected unknown format to be rejected\n")
	}
	if err := s.Export("nosuch", &text, "text"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected not found, got %v\n", err)
	}
}
