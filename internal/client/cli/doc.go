// Package cli provides the interactive GophJournal command-line client.
//
// It wires configuration, local storage, the field-encryption session and
// the record, import and export services behind a REPL. Typical flow:
// register or log in, which unlocks the session key for that user, then add
// or list records, import an export file, or export to disk or S3.
//
// The session key follows the signed-in user through an identity watcher
// (event or poll mode, see config.Config.IdentityMode). Login waits until
// the key for the new user is ready before accepting record commands.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
