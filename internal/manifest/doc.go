// Package manifest loads feature-module declarations from HCL manifests.
//
// A manifest file holds one or more `feature` blocks, each declaring the
// module's capability contract (provides/consumes), its routes and its state
// containers. The Loader translates those blocks into format-agnostic model
// values; nothing downstream knows the declarations came from HCL, and the
// Resolver interface exists so other module sources can be swapped in.
package manifest
