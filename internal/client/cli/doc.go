// Package cli provides the interactive pengaduan command-line client.
//
// It wires configuration, the local key-value store, the REST client and
// the domain services, then runs a REPL on top of them. Typical flow:
// restore the stored session, watch for forced sign-outs, and execute user
// commands.
//
// Key features:
//   - Register / Login / Logout, email verification, password change
//   - Browse service posts and keep a local list of saved posts
//   - Submit and withdraw complaints, with per-status stats
//   - A manual refresh that reloads every active list
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, WatchRedirects, and runREPL for details.
package cli
