// Package spring implements a damped mass–spring network.
//
// A [Network] owns its nodes in an arena addressed by [NodeID]. Springs refer
// to their endpoints by ID only, so removing a node can never leave a spring
// pointing at freed memory: the removal cascades to every attached spring.
//
// # Stepping
//
// [Network.Step] runs in two phases. First every spring adds its force to the
// pending acceleration of both endpoints, all computed from the same node
// positions. Then every node integrates. Structural edits queued with
// [Network.AddNode], [Network.RemoveNode], [Network.AddSpring] and
// [Network.RemoveSpring] are applied between the two phases, never while a
// collection is being iterated.
//
// # Stability
//
// A spring whose endpoints coincide has no direction; its force comes out
// non-finite and is dropped for that step instead of poisoning the network.
// Node acceleration is a decayed accumulator, not a per-frame value: see
// [integrators.DampedEuler].
package spring
