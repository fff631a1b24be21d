// Package cli provides the interactive ESPM command-line client.
//
// It wires configuration, local storage, the identity and tender API clients,
// and an interactive REPL. On start the stored session is restored; a
// background watcher keeps it fresh while the prompt is idle.
//
// Key features:
//   - Login / Logout against Acesso Cidadão
//   - Session status, current token and user profile
//   - List, search and inspect public tenders and their rankings
//   - Local favorites, synced to the ESPM API when logged in
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartSessionWatcher, and runREPL for details.
package cli
