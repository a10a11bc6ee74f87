// Package cli is the terminal front end of jarcover.
//
// It wires configuration, local storage, the donation jar client and the
// photo library into the app store, then runs a line-oriented REPL whose
// commands become store actions. The current screen (campaign list,
// details form, template picker or alert) decides which commands apply.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// and then flushes unsaved campaigns.
package cli
