// Package contract defines the capability-contract value model.
//
// A contract is the machine-checkable declaration attached to exactly one
// feature module: four sets of provided capability names (services, bindings,
// rendering capabilities, types) and three sets of consumed capability names
// (services, bindings, state keys). Contracts are plain values with no
// behavior attached; cross-module checks live in the validate package, which
// needs the full registry to say anything meaningful.
package contract
