/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package keeps a single configuration object stored under a key derived
from the package name. The configuration is loaded from the genesis file and
validated before being written.
*/
package gconf
