/*
Package dispatch is the orchestration point of the adapter: it receives a
canonical action name and parameter bag, validates both before any backend
call is issued, selects the backend session for the effective region, runs
the backend operation(s), and normalizes the outcome through the resource
mapper and error classifier into a cpi.Result.

Validation is fail-fast: an unknown action or a malformed parameter fails
with zero backend calls and zero side effects. Existence checks are the one
place a backend error is deliberately swallowed: a NotFound condition on a
has_* action becomes a successful false.

Composite actions run their backend calls strictly sequentially in a fixed
order. create_worker is launch, then an optional bounded wait for the
running state, then tag application; when a later step fails after the
launch succeeded, the result is a partial success that still carries the
launched Worker so the host can retry or clean up. Completed steps are never
rolled back.

The dispatcher holds no cross-call mutable state beyond the read-only
session cache; every entity it returns is reconstructed fresh from backend
queries.
*/
package dispatch
