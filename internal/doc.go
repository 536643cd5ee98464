// Package internal contains the core implementation packages for
// frame-master.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing all
// the core functionality for the framemaster CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - types: shared pipeline data types (resources, inputs, content kinds)
//   - pattern: compiled path patterns and combined-pattern construction
//   - registry: captured handler and finalizer registrations, namespace
//     grouping with combined dispatch patterns
//   - dispatch: runtime matching, sequential transform chains, and
//     finalization
//   - capture: recording plugin registrations against a stand-in of the
//     host surface
//   - host: the bundler boundary, default loading, and directory builds
//   - plugins: builtin plugins and the plugin manifest
//   - errors: the pipeline error taxonomy and the dev server's collector
//   - config: configuration management backed by Viper
//   - logging: structured logging over slog
//   - watcher: file system monitoring with debouncing
//   - server: the development HTTP server with websocket reload pushes
//
// # Inter-Package Communication
//
// Packages communicate through well-defined interfaces:
//
//   - Capture redirects plugin load and finalize registrations into the
//     registry and replays passthroughs onto the host bundler
//   - Registry partitions handlers into namespace groups consumed by the
//     dispatch engine
//   - The host bundler registers one dispatch entry per group and falls
//     back to default loading for unhandled resources
//   - Watcher batches file changes that drive registry rebuild generations
//   - Server drives the bundler per request and broadcasts reloads after a
//     rebuild
//
// For detailed documentation, see the individual package documentation.
package internal
