package server

import (
	// Register the BadgerDB engine, the default store.
	_ "github.com/janelia-flyem/lattice/storage/badger"
)
