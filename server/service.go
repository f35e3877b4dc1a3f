package server

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/twinj/uuid"

	"github.com/janelia-flyem/lattice/lattice"
	"github.com/janelia-flyem/lattice/reboot"
	"github.com/janelia-flyem/lattice/storage"
)

// Service runs procedures against the configured regions and keeps imported
// procedures and their counts in the configured store.
type Service struct {
	config  *Config
	regions []reboot.Region
	opts    reboot.RunOptions
	cache   *storage.CountCache

	mu    sync.Mutex
	store storage.ProcedureStore
}

// Open returns a service for the configuration.  The store is opened on first use
// so commands that only count never touch it.
func Open(config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	regions, err := config.Regions()
	if err != nil {
		return nil, err
	}
	opts, err := config.RunOptions()
	if err != nil {
		return nil, err
	}
	return &Service{
		config:  config,
		regions: regions,
		opts:    opts,
		cache:   storage.NewCountCache(config.CacheBytes()),
	}, nil
}

// Regions returns the regions reported by the service, in order.
func (s *Service) Regions() []reboot.Region {
	return s.regions
}

func (s *Service) getStore() (storage.ProcedureStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		return s.store, nil
	}
	config, err := s.config.StoreConfig()
	if err != nil {
		return nil, err
	}
	store, created, err := storage.NewStore(config)
	if err != nil {
		return nil, fmt.Errorf("can't open %s store: %v", config.Engine, err)
	}
	if created {
		lattice.Infof("Created new store: %s\n", store)
	} else {
		lattice.Infof("Opened store: %s\n", store)
	}
	s.store = store
	return store, nil
}

// Count reads a procedure file and returns the on-count for each region.
func (s *Service) Count(ctx context.Context, path string) ([]reboot.Result, error) {
	proc, err := reboot.ReadProcedureFile(path)
	if err != nil {
		return nil, err
	}
	lattice.Debugf("Read %s steps from %s\n", humanize.Comma(int64(len(proc.Steps))), path)
	return reboot.Run(ctx, proc, s.regions, s.opts)
}

// Import reads a procedure file and stores it under a new ID, which is returned.
// If name is empty, the base name of the file is used.
func (s *Service) Import(path, name string) (string, error) {
	proc, err := reboot.ReadProcedureFile(path)
	if err != nil {
		return "", err
	}
	if len(proc.Steps) == 0 {
		return "", fmt.Errorf("procedure file %q has no steps", path)
	}
	if name == "" {
		name = filepath.Base(path)
	}
	store, err := s.getStore()
	if err != nil {
		return "", err
	}
	id := fmt.Sprintf("%x", uuid.NewV4().Bytes())
	if err := store.PutProcedure(id, name, proc); err != nil {
		return "", fmt.Errorf("can't store procedure %q: %v", name, err)
	}
	lattice.Infof("Imported %s steps from %s as procedure %s (%s)\n",
		humanize.Comma(int64(len(proc.Steps))), path, id, name)
	return id, nil
}

// Replay returns the on-counts of a stored procedure.  Counts come from the cache,
// then the store, and are otherwise computed and saved.
func (s *Service) Replay(ctx context.Context, id string) ([]reboot.Result, error) {
	store, err := s.getStore()
	if err != nil {
		return nil, err
	}
	results := make([]reboot.Result, len(s.regions))
	var missing []reboot.Region
	var missingPos []int
	for i, region := range s.regions {
		results[i].Region = region.Name
		key := region.Key()
		if count, found := s.cache.Get(id, key); found {
			results[i].Count = count
			continue
		}
		count, found, err := store.GetCount(id, key)
		if err != nil {
			return nil, fmt.Errorf("can't get count of region %s: %v", region, err)
		}
		if found {
			results[i].Count = count
			s.cache.Set(id, key, count)
			continue
		}
		missing = append(missing, region)
		missingPos = append(missingPos, i)
	}
	if len(missing) == 0 {
		lattice.Debugf("All counts for procedure %s were saved\n", id)
		return results, nil
	}

	proc, err := store.GetProcedure(id)
	if err != nil {
		return nil, err
	}
	computed, err := reboot.Run(ctx, proc, missing, s.opts)
	if err != nil {
		return nil, err
	}
	for i, result := range computed {
		results[missingPos[i]] = result
		key := missing[i].Key()
		if err := store.PutCount(id, key, result.Count); err != nil {
			return nil, fmt.Errorf("can't save count of region %s: %v", missing[i], err)
		}
		s.cache.Set(id, key, result.Count)
	}
	return results, nil
}

// List returns the stored procedures.
func (s *Service) List() ([]storage.ProcedureInfo, error) {
	store, err := s.getStore()
	if err != nil {
		return nil, err
	}
	return store.ListProcedures()
}

// Export writes a stored procedure as "text", one step per line in the input
// format, or as "json".  An empty format is "text".
func (s *Service) Export(id string, w io.Writer, format string) error {
	store, err := s.getStore()
	if err != nil {
		return err
	}
	proc, err := store.GetProcedure(id)
	if err != nil {
		return err
	}
	switch format {
	case "", "text":
		_, err = proc.WriteTo(w)
	case "json":
		err = proc.EncodeJSON(w)
	default:
		return fmt.Errorf("unknown export format %q, must be \"text\" or \"json\"", format)
	}
	if err != nil {
		return fmt.Errorf("can't export procedure %s: %v", id, err)
	}
	return nil
}

// Delete removes a stored procedure and its counts.
func (s *Service) Delete(id string) error {
	store, err := s.getStore()
	if err != nil {
		return err
	}
	if err := store.DeleteProcedure(id); err != nil {
		return err
	}
	keys := make([]string, len(s.regions))
	for i, region := range s.regions {
		keys[i] = region.Key()
	}
	s.cache.Delete(id, keys)
	lattice.Infof("Deleted procedure %s\n", id)
	return nil
}

// Shutdown closes the store, if opened.
func (s *Service) Shutdown() {
	if attempts, hits := s.cache.Stats(); attempts > 0 {
		lattice.Infof("Count cache: %s hits from %s lookups\n",
			humanize.Comma(int64(hits)), humanize.Comma(int64(attempts)))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// FormatResults returns one line per region: the count, or the region and count
// if verbose.
func FormatResults(results []reboot.Result, verbose bool) string {
	var b strings.Builder
	for _, result := range results {
		if verbose {
			fmt.Fprintf(&b, "%s: %d\n", result.Region, result.Count)
		} else {
			fmt.Fprintf(&b, "%d\n", result.Count)
		}
	}
	return b.String()
}
