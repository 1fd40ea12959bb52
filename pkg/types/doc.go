// Package types defines the shared data model for modtide: the entities a
// mod's install script is parsed into, the selections a chooser produces,
// and the interfaces through which the install driver talks to its
// collaborators (filesystem, plugin activation, INI files, game values).
//
// The package is import-cycle free by design: every other modtide package
// may depend on it, it depends on nothing but the standard library.
package types
