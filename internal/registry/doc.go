// Package registry holds the collection of rules declared for one run.
//
// A Registry is an explicit value: the description loader populates it and
// hands it to the executor and the command surface. It is append-only while a
// description is being loaded and read-only afterwards. Lookups are a linear
// scan in registration order, so when several rules share a name the first one
// declared wins. Duplicate names are accepted.
package registry
