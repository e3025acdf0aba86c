// Package cli implements the obsmod command line: locating, loading and
// watching modules, and serving the introspection API.
package cli
