package server

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/janelia-flyem/lattice/lattice"
	"github.com/janelia-flyem/lattice/reboot"
	"github.com/janelia-flyem/lattice/regiontree"
)

const (
	// DefaultEngine is the storage engine used if the [store] section gives none.
	DefaultEngine = "badger"

	// DefaultStorePath is the store directory used if the [store] section gives none.
	DefaultStorePath = "lattice-data"

	// DefaultCacheMB is the size of the count cache if the [cache] section gives none.
	DefaultCacheMB = 16
)

type serverConfig struct {
	Note string

	// DefaultRegions puts the init and full regions ahead of any [[region]].
	// It is true unless the config sets it.
	DefaultRegions bool `toml:"default_regions"`
}

type cacheConfig struct {
	Size int // MB
}

type treeConfig struct {
	Compact bool
	Split   string // "cube", "midpoint" or "grid"
}

type regionConfig struct {
	Name string
	Min  string
	Max  string
	Full bool
}

// Config is the parsed TOML configuration.
type Config struct {
	Server  serverConfig
	Logging lattice.LogConfig
	Store   lattice.Config
	Cache   cacheConfig
	Tree    treeConfig
	Region  []regionConfig

	location string
}

// DefaultConfig returns the configuration used when no TOML file is given.
func DefaultConfig() *Config {
	c := &Config{
		Server: serverConfig{DefaultRegions: true},
		Store:  lattice.NewConfig(),
		Cache:  cacheConfig{Size: DefaultCacheMB},
	}
	c.Store.Set("engine", DefaultEngine)
	c.Store.Set("path", DefaultStorePath)
	return c
}

// LoadConfig loads configuration from a TOML file.  Settings missing from the
// file keep their defaults.
func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("no TOML configuration file provided")
	}
	c := DefaultConfig()
	c.Store = nil
	md, err := toml.DecodeFile(filename, c)
	if err != nil {
		return nil, fmt.Errorf("could not decode TOML config: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		lattice.Warningf("Ignoring unknown settings in %s: %v\n", filename, undecoded)
	}
	if c.Store == nil {
		c.Store = lattice.NewConfig()
	}
	if _, found := c.Store["engine"]; !found {
		c.Store.Set("engine", DefaultEngine)
	}
	if _, found := c.Store["path"]; !found {
		c.Store.Set("path", DefaultStorePath)
	}
	c.location = filename

	lattice.Debugf("tomlConfig: %v\n", c)
	if err := c.convertPathsToAbsolute(filename); err != nil {
		return nil, fmt.Errorf("could not convert relative paths to absolute paths in TOML config: %v", err)
	}
	return c, nil
}

// Some settings in the TOML can be given as relative paths.
// This function converts them in-place to absolute paths,
// assuming the given paths were relative to the TOML file's own directory.
func (c *Config) convertPathsToAbsolute(configPath string) error {
	var err error

	configDir := filepath.Dir(configPath)

	// [logging].logfile
	if c.Logging.Logfile != "" {
		c.Logging.Logfile, err = lattice.ConvertToAbsolute(c.Logging.Logfile, configDir)
		if err != nil {
			return fmt.Errorf("error converting logfile setting to absolute path")
		}
	}

	// [store].path
	path, found, err := c.Store.GetString("path")
	if err != nil {
		return fmt.Errorf("don't understand path setting for store: %v", err)
	}
	if found {
		absPath, err := lattice.ConvertToAbsolute(path, configDir)
		if err != nil {
			return fmt.Errorf("error converting store.path to absolute path: %q", path)
		}
		c.Store.Set("path", absPath)
	}
	return nil
}

// Location returns the file the configuration was loaded from, if any.
func (c *Config) Location() string {
	return c.location
}

// StoreConfig returns the [store] settings for the storage engine.
func (c *Config) StoreConfig() (lattice.StoreConfig, error) {
	engine, _, err := c.Store.GetString("engine")
	if err != nil {
		return lattice.StoreConfig{}, fmt.Errorf("bad store engine setting: %v", err)
	}
	config := lattice.NewConfig()
	for key, value := range c.Store {
		if key != "engine" {
			config.Set(key, value)
		}
	}
	return lattice.StoreConfig{Config: config, Engine: engine}, nil
}

// CacheBytes returns the count cache size in bytes.
func (c *Config) CacheBytes() int {
	return c.Cache.Size * lattice.Mega
}

// RunOptions returns the [tree] settings for building region trees.
func (c *Config) RunOptions() (reboot.RunOptions, error) {
	split, err := regiontree.ParseSplit(c.Tree.Split)
	if err != nil {
		return reboot.RunOptions{}, fmt.Errorf("bad [tree] setting: %v", err)
	}
	return reboot.RunOptions{Compact: c.Tree.Compact, Split: split}, nil
}

// Regions returns the regions of interest in reporting order.
func (c *Config) Regions() ([]reboot.Region, error) {
	var regions []reboot.Region
	if c.Server.DefaultRegions {
		regions = reboot.DefaultRegions()
	}
	for i, rc := range c.Region {
		region, err := rc.region()
		if err != nil {
			return nil, fmt.Errorf("region %d: %v", i+1, err)
		}
		regions = append(regions, region)
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("no regions configured")
	}
	names := make(map[string]struct{}, len(regions))
	for _, region := range regions {
		if _, found := names[region.Name]; found {
			return nil, fmt.Errorf("region %q is given more than once", region.Name)
		}
		names[region.Name] = struct{}{}
	}
	return regions, nil
}

func (rc regionConfig) region() (reboot.Region, error) {
	name := strings.TrimSpace(rc.Name)
	if name == "" {
		return reboot.Region{}, fmt.Errorf("region needs a name")
	}
	if rc.Full || name == reboot.FullRegion {
		if rc.Min != "" || rc.Max != "" {
			return reboot.Region{}, fmt.Errorf("full region %q can't have min or max", name)
		}
		return reboot.Region{Name: name, Full: true}, nil
	}
	minPt, err := lattice.StringToPoint3d(rc.Min, ",")
	if err != nil {
		return reboot.Region{}, fmt.Errorf("bad min for region %q: %v", name, err)
	}
	maxPt, err := lattice.StringToPoint3d(rc.Max, ",")
	if err != nil {
		return reboot.Region{}, fmt.Errorf("bad max for region %q: %v", name, err)
	}
	ext, err := lattice.NewExtents3d(minPt, maxPt)
	if err != nil {
		return reboot.Region{}, fmt.Errorf("region %q: %w", name, err)
	}
	return reboot.Region{Name: name, Extents: ext}, nil
}
