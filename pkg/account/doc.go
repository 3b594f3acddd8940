// Package account is the local account store, the single source of truth
// for identities. The canonical record holds the hashed credential, the
// internal role and a per-platform registration status map reflecting the
// last known provisioning outcome. Repositories guarantee username/email
// uniqueness atomically with the insert so the saga never issues a remote
// call for an identity that already exists.
package account
