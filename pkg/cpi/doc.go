/*
Package cpi defines the provider-agnostic surface of the compute provider
interface: the canonical Worker, Volume, and Snapshot entities, the fixed
action vocabulary, the ActionResult shape, and the Provider contract every
backend adapter implements.

# Architecture Overview

A CPI host (orchestrator, provisioner, or CLI driver) speaks only in terms of
this package. Backend-specific adapters translate the vocabulary into native
API calls and normalize the responses back into these types:

	┌─────────────────────────────────────────────┐
	│                 CPI Host                    │
	│      (orchestrator / provisioner / CLI)     │
	└─────────────────────────────────────────────┘
	                      │  Dispatch(action, params)
	┌─────────────────────────────────────────────┐
	│              Provider (this pkg)            │
	└─────────────────────────────────────────────┘
	          │                        │
	┌─────────┴───────┐      ┌─────────┴───────┐
	│   AWS adapter   │      │  other backends │
	│ (internal/...)  │      │  (out of tree)  │
	└─────────────────┘      └─────────────────┘

# Canonical Entities

Worker, Volume, and Snapshot are transient view objects reconstructed fresh
from backend queries on every dispatch. The adapter holds no authoritative
state; the backend is the single source of truth. Entities are deliberately
lossy projections: native fields outside the canonical shape are dropped so
the shape stays stable even as backends grow new fields.

# Results

Result is a tagged variant: Success carries a payload (entity, entity list,
or existence boolean), PartialSuccess carries a payload plus a warning for
composite actions whose later steps failed after the primary resource was
created, and Failure carries a classified error from pkg/cpierrors.

# Implementing a Provider

	type MyProvider struct{ ... }

	func (p *MyProvider) Name() string { return "mycloud" }

	func (p *MyProvider) Dispatch(ctx context.Context, action string, params map[string]any) cpi.Result {
		// translate, call the backend, map and classify
	}

Hosts select a Provider implementation at load time; there is no inheritance
hierarchy, only this capability interface.
*/
package cpi
