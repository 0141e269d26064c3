// Package auth provides a stateless JWT engine with three token kinds
// plus the persistence and revocation plumbing around it.
//
// Token kinds:
//   - ACCESS and REFRESH form the session pair minted at login. The
//     kind travels as a signed claim, so a refresh token can never be
//     replayed against an access-only endpoint and vice versa.
//   - TEMP bridges the two phases of social signup. It carries the
//     provider's user snapshot (TempUserInfo) so the completion step
//     never has to call the provider a second time, and its subject is
//     a sentinel because no account exists yet.
//
// Refresh tokens are single use: Refresh revokes the presented token
// for its remaining lifetime before minting a new pair. Revocations
// live in a RevocationStore, in process by default or redis backed for
// multi instance deployments.
//
// The social subpackage builds login orchestration and two phase
// signup on top of these primitives.
package auth
