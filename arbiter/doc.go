// Package arbiter provides a uniform storage-access client: one interface
// that reads, writes, lists, globs and copies data across heterogeneous
// backends addressed by URI-style paths.
//
// # Path Dispatch
//
// Paths take the form scheme://rest; the scheme selects the driver. Paths
// without a scheme belong to the local filesystem:
//
//	a, _ := arbiter.New(logger)
//	data, _ := a.Get(ctx, "s3://bucket/key")
//	_ = a.Put(ctx, "/tmp/out/key", data)
//
// The file and test drivers are always registered. The http and https
// drivers are always available, and the credentialed drivers (s3, dropbox,
// gs) register only when their credentials are configured; a missing
// section simply reduces scheme coverage.
//
// # Configuration
//
// Credentials come from an inline JSON document merged with an optional
// config file at ~/.arbiter/config.json (overridable with the
// ARBITER_CONFIG_FILE or ARBITER_CONFIG_PATH environment variables, first
// defined wins). Inline values win on conflicts:
//
//	{"s3": {"access": "AKIA...", "secret": "..."}}
//
// # Copying
//
// Copy moves single files or whole globs between any two backends,
// mirroring relative directory structure into the destination and using a
// driver's specialized same-backend copy when one exists. A trailing "*"
// matches immediate children, "**" matches recursively.
package arbiter
