// Package filesystem provides implementations of the types.FS interface:
// one backed by the operating system, one backed by afero for tests.
package filesystem
