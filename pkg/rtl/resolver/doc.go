// Package resolver defines the typed value model and the layered variable
// environment RTL templates render against.
//
// Values form a closed sum of five kinds: string, number, boolean, ordered
// sequence, and ordered mapping. Mappings keep their defined entry order,
// which {{#each}} iteration and the :json formatter preserve. There is no
// coercion between kinds; "found/absent" is explicit in Resolve's return.
//
// An Environment maps the seven fixed namespaces (project, content, context,
// pipeline, derived, meta, user) to leaf values. It is assembled by the
// caller per render call (see package vars) and read-only to the engine.
package resolver
