// SPDX-License-Identifier: MPL-2.0

// Package resolve turns a descriptor Store into a compilation plan: for every
// module, the ordered absolute include paths and link-time module names it
// may legally use on one target platform.
//
// A pass runs in four stages over an immutable Store snapshot:
//
//  1. Path resolution maps every declared scope to an absolute directory,
//     applying the platform override table. Modules resolve in parallel.
//  2. The dependency graph is built from declared edges. Unknown names and
//     cycles are recorded and the rest of the graph is kept.
//  3. Visibility resolution computes each module's transitive include and
//     link sets. A private edge is followed exactly one hop; public edges
//     are followed without limit.
//  4. Every problem from every stage lands in one Report, ordered by module
//     and stage. Resolution never stops at the first problem.
//
// The only I/O is the PathChecker used to test whether directories exist.
package resolve
