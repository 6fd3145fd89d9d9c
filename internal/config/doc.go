// Package config defines the format-agnostic description model for a build,
// along with the Loader interface implemented by concrete description formats.
//
// The config.Model is the single source of truth the registry is populated
// from. Concrete loaders, such as the HCL one, live in separate packages.
package config
