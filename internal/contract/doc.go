// Package contract defines the shape every dashboard module must satisfy.
//
// A module is anything that can describe itself, report a status snapshot,
// list the actions it offers, and execute one of those actions. The rest of
// the system (discovery, dispatch, the HTTP surface) is written purely
// against this interface, so builtin runners and Starlark scripts are
// interchangeable.
package contract
