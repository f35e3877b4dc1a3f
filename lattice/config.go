package lattice

import "fmt"

// Mega is the number of bytes in a megabyte, the unit of size settings.
const Mega = 1 << 20

// Config is a map of keyword to arbitrary data to specify configurations via keyword.
// Keywords are case-sensitive.
type Config map[string]interface{}

// NewConfig returns an empty Config.
func NewConfig() Config {
	return make(Config)
}

// Set sets a configuration value for the given key.
func (c Config) Set(key string, value interface{}) {
	c[key] = value
}

// GetString returns a string associated with the key, with found set to false
// if the key is absent.
func (c Config) GetString(key string) (s string, found bool, err error) {
	var v interface{}
	if v, found = c[key]; !found || v == nil {
		return "", false, nil
	}
	var ok bool
	if s, ok = v.(string); !ok {
		err = fmt.Errorf("setting for %q was not a string: %v", key, v)
	}
	return
}

// GetBool returns a bool associated with the key.
func (c Config) GetBool(key string) (b bool, found bool, err error) {
	var v interface{}
	if v, found = c[key]; !found || v == nil {
		return false, false, nil
	}
	var ok bool
	if b, ok = v.(bool); !ok {
		err = fmt.Errorf("setting for %q was not a bool: %v", key, v)
	}
	return
}

// GetInt returns an int associated with the key.  TOML decodes integers as int64
// so all integer kinds are accepted.
func (c Config) GetInt(key string) (i int, found bool, err error) {
	var v interface{}
	if v, found = c[key]; !found || v == nil {
		return 0, false, nil
	}
	switch x := v.(type) {
	case int:
		i = x
	case int64:
		i = int(x)
	case int32:
		i = int(x)
	case uint64:
		i = int(x)
	case float64:
		i = int(x)
	default:
		err = fmt.Errorf("setting for %q was not an integer: %v", key, v)
	}
	return
}

// StoreConfig is a store-specific configuration where each store implementation
// defines the types of parameters it accepts.
type StoreConfig struct {
	Config

	// Engine is a simple name describing the engine, e.g., "badger"
	Engine string
}

// StoreCloser stores can be closed.
type StoreCloser interface {
	Close()
}

// StoreIdentifiable stores can say whether they are identified by a given store configuration.
type StoreIdentifiable interface {
	// Equal returns true if this store matches the given store configuration.
	Equal(StoreConfig) bool
}

// Store allows persistence of procedures and their counts.
type Store interface {
	fmt.Stringer
	StoreCloser
	StoreIdentifiable
}
