package badger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/blang/semver"
	"github.com/dgraph-io/badger/v3"
	"github.com/dustin/go-humanize"
	"github.com/twinj/uuid"

	"github.com/janelia-flyem/lattice/lattice"
	"github.com/janelia-flyem/lattice/reboot"
	"github.com/janelia-flyem/lattice/storage"
)

const (
	// DefaultSyncWrites is true if all writes are synced to disk, thereby making db resilient
	// at cost of speed.
	DefaultSyncWrites = false

	// syncInterval is how often buffered writes are synced when SyncWrites is off.
	syncInterval = 30 * time.Second
)

func init() {
	ver, err := semver.Make("0.1.0")
	if err != nil {
		lattice.Errorf("Unable to make semver in badger: %v\n", err)
	}
	e := Engine{"badger", "BadgerDB", ver}
	storage.RegisterEngine(e)
}

// --- Engine Implementation ------

type Engine struct {
	name   string
	desc   string
	semver semver.Version
}

func (e Engine) GetName() string {
	return e.name
}

func (e Engine) GetDescription() string {
	return e.desc
}

func (e Engine) GetSemVer() semver.Version {
	return e.semver
}

func (e Engine) String() string {
	return fmt.Sprintf("%s [%s]", e.name, e.semver)
}

// NewStore returns a badger store. The passed Config must contain "path" string.
func (e Engine) NewStore(config lattice.StoreConfig) (storage.ProcedureStore, bool, error) {
	return e.newDB(config)
}

func parseConfig(config lattice.StoreConfig) (path string, testing bool, err error) {
	var found bool
	path, found, err = config.GetString("path")
	if err != nil {
		return
	}
	if !found || path == "" {
		err = fmt.Errorf("%q must be specified for BadgerDB configuration", "path")
		return
	}
	testing, _, err = config.GetBool("testing")
	if err != nil {
		return
	}
	if testing {
		path = filepath.Join(os.TempDir(), path)
	}
	return
}

func getOptions(path string, config lattice.Config) (badger.Options, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = badgerLogger{}
	opts.NumVersionsToKeep = 1
	opts.SyncWrites = DefaultSyncWrites

	readOnly, found, err := config.GetBool("ReadOnly")
	if err != nil {
		return opts, err
	}
	if found {
		opts.ReadOnly = readOnly
	}

	syncWrites, found, err := config.GetBool("SyncWrites")
	if err != nil {
		return opts, err
	}
	if found {
		opts.SyncWrites = syncWrites
	}

	valueSizeThresh, found, err := config.GetInt("ValueThreshold")
	if err != nil {
		return opts, err
	}
	if found {
		opts = opts.WithValueThreshold(int64(valueSizeThresh))
	}
	return opts, nil
}

// newDB returns a Badger backend, creating one at path if it doesn't exist.
func (e Engine) newDB(config lattice.StoreConfig) (*BadgerDB, bool, error) {
	path, _, err := parseConfig(config)
	if err != nil {
		return nil, false, err
	}

	var created bool
	if _, err := os.Stat(path); os.IsNotExist(err) {
		lattice.Infof("Database not already at path (%s). Creating directory...\n", path)
		created = true
		if err := os.MkdirAll(path, 0744); err != nil {
			return nil, true, fmt.Errorf("can't make directory at %s: %v", path, err)
		}
	} else {
		lattice.Debugf("Found directory at %s (err = %v)\n", path, err)
	}

	opts, err := getOptions(path, config.Config)
	if err != nil {
		return nil, false, err
	}

	timedLog := lattice.NewTimeLog()
	bdp, err := badger.Open(opts)
	if err != nil {
		return nil, false, err
	}
	lsm, vlog := bdp.Size()
	timedLog.Infof("Opened badger @ path %s (%s LSM, %s value log)", path,
		humanize.Bytes(uint64(lsm)), humanize.Bytes(uint64(vlog)))

	db := &BadgerDB{
		directory:  path,
		config:     config,
		bdp:        bdp,
		stopSyncCh: make(chan struct{}),
		doneSyncCh: make(chan struct{}),
	}
	if opts.SyncWrites || opts.ReadOnly {
		close(db.doneSyncCh)
	} else {
		go db.syncPeriodically()
	}
	return db, created, nil
}

// TestConfig returns a configuration for a uniquely named database in the temp directory.
func TestConfig() lattice.StoreConfig {
	c := lattice.NewConfig()
	c.Set("path", fmt.Sprintf("lattice-test-badger-%x", uuid.NewV4().Bytes()))
	c.Set("testing", true)
	return lattice.StoreConfig{Config: c, Engine: "badger"}
}

// --- The BadgerDB Implementation must satisfy a storage.ProcedureStore interface ----

type BadgerDB struct {
	// Directory of datastore
	directory string

	// Config at time of Open()
	config lattice.StoreConfig

	bdp *badger.DB

	stopSyncCh chan struct{}
	doneSyncCh chan struct{}
}

// Periodically sync to prevent too many writes from being buffered
// if the process crashes.
func (db *BadgerDB) syncPeriodically() {
	defer close(db.doneSyncCh)
	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-db.stopSyncCh:
			lattice.Debugf("Stopping sync goroutine for badger @ %s\n", db.directory)
			return
		case <-ticker.C:
			if err := db.bdp.Sync(); err != nil {
				lattice.Errorf("Unable to sync badger @ %s: %v\n", db.directory, err)
			}
		}
	}
}

func (db *BadgerDB) String() string {
	return fmt.Sprintf("badger @ %s", db.directory)
}

// Close closes the BadgerDB
func (db *BadgerDB) Close() {
	if db == nil || db.bdp == nil {
		return
	}
	close(db.stopSyncCh)
	<-db.doneSyncCh
	if err := db.bdp.Close(); err != nil {
		lattice.Errorf("Error closing badger @ %s: %v\n", db.directory, err)
	}
	lattice.Infof("Closed Badger DB @ %s\n", db.directory)
	db.bdp = nil
}

// Equal returns true if the badger matches the given store configuration.
func (db *BadgerDB) Equal(config lattice.StoreConfig) bool {
	path, _, err := parseConfig(config)
	if err != nil {
		return false
	}
	return db.directory == path
}

func (db *BadgerDB) get(key []byte) ([]byte, error) {
	if db == nil || db.bdp == nil {
		return nil, fmt.Errorf("can't call GET on closed BadgerDB")
	}
	var value []byte
	err := db.bdp.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, err
}

// PutProcedure stores the procedure and its name under the ID.
func (db *BadgerDB) PutProcedure(id, name string, proc *reboot.Procedure) error {
	if db == nil || db.bdp == nil {
		return fmt.Errorf("can't call PutProcedure on closed BadgerDB")
	}
	value, err := storage.EncodeProcedure(proc)
	if err != nil {
		return err
	}
	return db.bdp.Update(func(txn *badger.Txn) error {
		if err := txn.Set(storage.ProcedureKey(id), value); err != nil {
			return err
		}
		return txn.Set(storage.NameKey(id), []byte(name))
	})
}

// GetProcedure returns the procedure stored under the ID.
func (db *BadgerDB) GetProcedure(id string) (*reboot.Procedure, error) {
	value, err := db.get(storage.ProcedureKey(id))
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, fmt.Errorf("procedure %q: %w", id, storage.ErrNotFound)
	}
	return storage.DecodeProcedure(value)
}

// DeleteProcedure removes the procedure, its name and all stored counts.
func (db *BadgerDB) DeleteProcedure(id string) error {
	if db == nil || db.bdp == nil {
		return fmt.Errorf("can't call DeleteProcedure on closed BadgerDB")
	}
	return db.bdp.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(storage.ProcedureKey(id)); err == badger.ErrKeyNotFound {
			return fmt.Errorf("procedure %q: %w", id, storage.ErrNotFound)
		} else if err != nil {
			return err
		}
		keys := [][]byte{storage.ProcedureKey(id), storage.NameKey(id)}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // key only
		it := txn.NewIterator(opts)
		prefix := storage.CountPrefix(id)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListProcedures returns every stored procedure sorted by ID.
func (db *BadgerDB) ListProcedures() ([]storage.ProcedureInfo, error) {
	if db == nil || db.bdp == nil {
		return nil, fmt.Errorf("can't call ListProcedures on closed BadgerDB")
	}
	var infos []storage.ProcedureInfo
	err := db.bdp.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := storage.ProcedurePrefix()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id, err := storage.IDFromProcedureKey(it.Item().KeyCopy(nil))
			if err != nil {
				return err
			}
			info := storage.ProcedureInfo{ID: id}
			item, err := txn.Get(storage.NameKey(id))
			if err == nil {
				name, err := item.ValueCopy(nil)
				if err != nil {
					return err
				}
				info.Name = string(name)
			} else if err != badger.ErrKeyNotFound {
				return err
			}
			infos = append(infos, info)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// PutCount stores the on-count under a region key of the procedure.
func (db *BadgerDB) PutCount(id, regionKey string, count int64) error {
	if db == nil || db.bdp == nil {
		return fmt.Errorf("can't call PutCount on closed BadgerDB")
	}
	return db.bdp.Update(func(txn *badger.Txn) error {
		return txn.Set(storage.CountKey(id, regionKey), storage.EncodeCount(count))
	})
}

// GetCount returns the stored on-count under a region key of the procedure.
func (db *BadgerDB) GetCount(id, regionKey string) (int64, bool, error) {
	value, err := db.get(storage.CountKey(id, regionKey))
	if err != nil || value == nil {
		return 0, false, err
	}
	count, err := storage.DecodeCount(value)
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

// badgerLogger sends badger's own logging through the lattice logger.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	lattice.Errorf("badger: "+format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	lattice.Warningf("badger: "+format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	lattice.Debugf("badger: "+format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	lattice.Debugf("badger: "+format, args...)
}
