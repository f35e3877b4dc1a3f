package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/janelia-flyem/lattice/lattice"
	"github.com/janelia-flyem/lattice/reboot"
)

// Key prefixes partition the key space by kind of value.
const (
	procedurePrefix byte = 'p'
	namePrefix      byte = 'n'
	countPrefix     byte = 'c'
)

const keySep = '/'

// ProcedureKey is the key of a procedure's encoded steps.
func ProcedureKey(id string) []byte {
	return append([]byte{procedurePrefix, keySep}, id...)
}

// ProcedurePrefix is the prefix of all procedure keys.
func ProcedurePrefix() []byte {
	return []byte{procedurePrefix, keySep}
}

// IDFromProcedureKey returns the procedure ID of a procedure key.
func IDFromProcedureKey(key []byte) (string, error) {
	if len(key) < 2 || key[0] != procedurePrefix || key[1] != keySep {
		return "", fmt.Errorf("key %q is not a procedure key", key)
	}
	return string(key[2:]), nil
}

// NameKey is the key of a procedure's name.
func NameKey(id string) []byte {
	return append([]byte{namePrefix, keySep}, id...)
}

// CountKey is the key of the count for a region key of a procedure.
func CountKey(id, regionKey string) []byte {
	return append(CountPrefix(id), regionKey...)
}

// CountPrefix is the prefix of all count keys of a procedure.
func CountPrefix(id string) []byte {
	key := append([]byte{countPrefix, keySep}, id...)
	return append(key, keySep)
}

// EncodeProcedure returns the stored form of a procedure.
func EncodeProcedure(proc *reboot.Procedure) ([]byte, error) {
	data, err := proc.MarshalMsg(nil)
	if err != nil {
		return nil, err
	}
	return lattice.SerializeData(data, lattice.Snappy, lattice.CRC32)
}

// DecodeProcedure returns a procedure from its stored form.
func DecodeProcedure(value []byte) (*reboot.Procedure, error) {
	data, _, err := lattice.DeserializeData(value, true)
	if err != nil {
		return nil, err
	}
	proc := new(reboot.Procedure)
	if _, err := proc.UnmarshalMsg(data); err != nil {
		return nil, fmt.Errorf("can't decode stored procedure: %v", err)
	}
	if err := proc.Validate(); err != nil {
		return nil, fmt.Errorf("bad stored procedure: %w", err)
	}
	return proc, nil
}

// EncodeCount returns the stored form of a count.
func EncodeCount(count int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(count))
	return b
}

// DecodeCount returns a count from its stored form.
func DecodeCount(value []byte) (int64, error) {
	if len(value) != 8 {
		return 0, fmt.Errorf("stored count has %d bytes, expected 8", len(value))
	}
	return int64(binary.BigEndian.Uint64(value)), nil
}
