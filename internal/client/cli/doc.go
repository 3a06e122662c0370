// Package cli provides the interactive mitteie command-line client.
//
// It wires configuration, the local store, the server client and the
// auth, items, payments and export components, then either runs a REPL
// or handles a single link passed on the command line.
//
// Key features:
//   - Login, signup and logout; login links carrying a one-time token
//   - List, add, edit and delete items; attach receipts and photos
//   - Drafts for forms submitted while signed out
//   - Subscription and import checkout with payment status polling
//   - Export to JSON or YAML, optionally zstd-compressed, or to S3
//
// The REPL is started via App.Root(ctx, in), which blocks until the user
// exits. See runREPL for the command set.
package cli
