// Package hcl loads variant configuration written in HCL and translates it
// into the format-agnostic config.Model.
//
// A configuration is one .hcl file or a directory of them. Files are read in
// lexical path order, so declaration order (which decides the last free
// request and the pick-first precedence) is stable across runs. Singleton
// blocks (application, bundle, signing) may appear once across all files.
package hcl
