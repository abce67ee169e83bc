// Package validate checks capability contracts against the full registry.
//
// Validation is presence validation, not behavioral verification: it answers
// "does some other module provide this name" for every consumed service and
// binding, flags duplicate providers of the same capability, and treats
// consumed state keys as warning-only because state containers can be
// registered outside the contract system. Findings are returned as data
// attached to each module; nothing here is ever thrown or fatal.
package validate
