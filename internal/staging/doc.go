// Package staging reconciles the staging tree against the library.
//
// A staging file whose link count has dropped to one has lost every library
// link and is an orphan. The Reconciler lists orphans, asks a Confirmer, and
// then deletes them along with any parent directory left empty. The staging
// root itself is never removed.
package staging
