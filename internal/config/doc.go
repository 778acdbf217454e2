// Package config defines the format-agnostic model of a variant build
// configuration, along with the Loader interface used to read it.
//
// The `config.Model` is the single source of truth for the `executor` and
// `plan` packages. Concrete loaders, such as the HCL one, live in separate
// packages and must return a model that passes Validate.
package config
