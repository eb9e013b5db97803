// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package contract calls the election application.

The app exposes two voter methods:

  - register: opt-in, creates the caller's local state
  - cast_ballot(bytes): stores the ballot CID; returns "Ballot cast!" the
    first time and "Ballot already sent!" afterwards, without overwriting

Two implementations of Election are provided. RelayClient posts calls to a
wallet relay that signs and submits them:

	POST {relay}/v1/apps/{app_id}/call
	  {sender, method, on_complete, args: [base64...]} → {tx_id, return}
	GET  {relay}/v1/apps/{app_id}/accounts/{address}/local-state

Memory applies the same rules in-process and backs localnet development
when no relay is configured.
*/
package contract
