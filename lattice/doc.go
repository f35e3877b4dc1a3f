/*
	Package lattice provides types, constants, and functions that have no other dependencies
	and can be used by all packages within this module.  This includes integer points and
	boxes on the 3d lattice, logging, command string handling, configuration maps, and
	serialization of stored values.  Since these elements are used at multiple layers,
	we separate them here and allow reuse in layer-specific types through embedding.
*/
package lattice
