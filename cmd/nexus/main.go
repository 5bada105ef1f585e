// Package main provides the nexus CLI. Run without arguments it
// initializes the storage file at data/nexus.db.
package main

import "github.com/mesh-intelligence/nexus/internal/cli"

func main() {
	cli.Execute()
}
