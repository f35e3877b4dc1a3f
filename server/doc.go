/*
Package server ties the lattice region trees to persistent storage.  A Service
loads procedures from files, counts the cells left on for each configured region,
and keeps imported procedures and their counts in a storage engine with a
freecache layer in front of the counts.

Configuration comes from a TOML file:

	[logging]
	logfile = "lattice.log"
	max_log_size = 500 # MB
	max_log_age = 30   # days

	[store]
	engine = "badger"
	path = "data"      # relative to this file

	[cache]
	size = 16          # MB

	[tree]
	compact = false
	split = "cube"     # or "midpoint", "grid"

	[[region]]
	name = "core"
	min = "-10,-10,-10"
	max = "10,10,10"

The "init" region [-50,50]^3 and the "full" region spanning every step are
reported first unless [server] sets default_regions = false.
*/
package server
