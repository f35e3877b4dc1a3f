/*
	Package storage provides a unified interface to storage engines that persist
	procedures and the counts computed from them.  Engines register themselves on
	import and are selected by name through the store configuration.

	Values are msgpack-encoded procedures wrapped with snappy compression and a CRC32
	checksum, or 8-byte big-endian counts.
*/
package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/blang/semver"

	"github.com/janelia-flyem/lattice/lattice"
	"github.com/janelia-flyem/lattice/reboot"
)

// ErrNotFound is returned when a procedure is not in the store.
var ErrNotFound = errors.New("not found")

// Engine is a storage engine that can create stores.
type Engine interface {
	fmt.Stringer

	GetName() string
	GetDescription() string
	GetSemVer() semver.Version

	// NewStore returns a store for the configuration and whether it was newly created.
	NewStore(config lattice.StoreConfig) (ProcedureStore, bool, error)
}

// ProcedureInfo describes a stored procedure.
type ProcedureInfo struct {
	ID   string
	Name string
}

// ProcedureStore persists procedures by ID and the on-counts computed for their regions.
type ProcedureStore interface {
	lattice.Store

	PutProcedure(id, name string, proc *reboot.Procedure) error

	// GetProcedure returns ErrNotFound if there is no procedure with the ID.
	GetProcedure(id string) (*reboot.Procedure, error)

	// DeleteProcedure removes the procedure and all of its counts.
	DeleteProcedure(id string) error

	// ListProcedures returns stored procedures sorted by ID.
	ListProcedures() ([]ProcedureInfo, error)

	// PutCount stores a count under a region key, which names the region and the
	// extents it covered.
	PutCount(id, regionKey string, count int64) error

	// GetCount returns found = false if no count was stored for the region key.
	GetCount(id, regionKey string) (count int64, found bool, err error)
}

var (
	enginesMu sync.RWMutex
	engines   = make(map[string]Engine)
)

// RegisterEngine makes an engine available by its name.
func RegisterEngine(e Engine) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	engines[e.GetName()] = e
}

// GetEngine returns the engine with the given name.
func GetEngine(name string) (Engine, error) {
	enginesMu.RLock()
	defer enginesMu.RUnlock()
	e, found := engines[name]
	if !found {
		return nil, fmt.Errorf("no storage engine %q available (compiled engines: %s)", name, enginesAvailable())
	}
	return e, nil
}

// EnginesAvailable returns a description of the registered engines.
func EnginesAvailable() string {
	enginesMu.RLock()
	defer enginesMu.RUnlock()
	return enginesAvailable()
}

func enginesAvailable() string {
	names := make([]string, 0, len(engines))
	for _, e := range engines {
		names = append(names, e.String())
	}
	sort.Strings(names)
	return strings.Join(names, "; ")
}

// NewStore returns a store from the engine named in the configuration.
func NewStore(config lattice.StoreConfig) (ProcedureStore, bool, error) {
	e, err := GetEngine(config.Engine)
	if err != nil {
		return nil, false, err
	}
	return e.NewStore(config)
}
