// Package types defines the configuration, table names, store states and
// standard errors shared by the nexus storage packages and CLI.
package types
