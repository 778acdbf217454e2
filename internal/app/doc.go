// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the lifecycle of one build request:
// load the configuration, enumerate and select variants, resolve them
// concurrently and render the batch. It is decoupled from any specific
// entrypoint like a CLI.
package app
