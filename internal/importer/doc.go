// Package importer merges a shared collection into a user's own links and
// folders.
//
// An import copies each shared link the recipient does not already own
// (matched by normalized url), remembers which local link every shared link
// became, and rebuilds the shared folders from those local ids. Re-running
// the same import saves nothing new.
package importer
