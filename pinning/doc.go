// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pinning stores ballot documents on IPFS through Pinata and reads
them back through a gateway.

# Pinning

	client := pinning.NewClient(cfg.PinataAPIURL, cfg.PinataJWT, 30*time.Second)
	cid, err := client.PinJSON(ctx, "ballot", doc)

Requests carry the JWT as a bearer token. The CID in the reply is parsed
before it is returned; a malformed one fails with ErrInvalidCID.

# Gateway

	gw := pinning.NewGateway(cfg.PinataGatewayURL, cfg.PinataGatewayToken, 20*time.Second)
	err := gw.FetchJSON(ctx, cid, &doc)

Transient statuses (408, 425, 429, 500, 502, 503, 504) and transport errors
are retried with a linear backoff; other statuses fail immediately.
*/
package pinning
