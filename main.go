// SPDX-License-Identifier: MPL-2.0

// Command modgraph resolves module descriptors into per-module include paths
// and link sets.
package main

import cmd "github.com/modgraph/modgraph/cmd/modgraph"

func main() {
	cmd.Execute()
}
