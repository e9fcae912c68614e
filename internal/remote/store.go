// Package remote moves the ledger file to and from its secondary copy on a
// remote store. Both directions are boolean-success operations: failures are
// logged and reported, never propagated, so tracking continues offline.
package remote

// Store is the remote ledger copy capability
type Store interface {
	// Fetch downloads the remote file to localPath. Returns false on any failure.
	Fetch(remotePath, localPath string) bool

	// Push uploads the file at localPath to remotePath. Returns false on any failure.
	Push(localPath, remotePath string) bool
}
