// Package schema is the static declaration of the RTL variable surface:
// which namespace.leaf paths exist, which stages may reference them, which
// are required per stage, which legacy aliases map to which canonical paths,
// and the built-in default macros.
//
// Everything here is configuration data created once at startup. The stage
// validator and the legacy alias layer consult it; nothing mutates it at
// render time. The user namespace is wildcarded: any user.* path is legal
// in every stage.
package schema
