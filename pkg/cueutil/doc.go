// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE parsing flow shared by module descriptors,
// platform override tables, and the modgraph configuration file:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with the schema definition
//  3. Validate and decode into a Go value
//
// # Usage
//
//	//go:embed module_schema.cue
//	var moduleSchema string
//
//	result, err := cueutil.ParseAndDecodeString[File](
//	    moduleSchema,
//	    data,
//	    "#Module",
//	    cueutil.WithFilename(path),
//	)
//	if err != nil {
//	    return nil, err // already carries file and field path
//	}
//	return result.Value, nil
package cueutil
