// Package keys provides owner-key helpers for minted artifacts.
//
// Stable:
//   - Pure, deterministic primitives for owner-key formatting and
//     purpose-seed derivation.
//
// Experimental:
//   - Filesystem-backed key storage and convenience helpers (Vault and
//     related functions). These are local-first utilities and are not part
//     of the long-term artifact contract.
package keys
