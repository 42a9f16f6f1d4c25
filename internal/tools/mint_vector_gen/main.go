// Command mint_vector_gen prints a deterministic mint vector: fixture payload,
// canonical bytes, seal, seed and identity. Useful for regenerating the fixed
// expectations carried by the package tests.
package main

import (
	"context"
	"fmt"

	"verdict.market/sealmint/artifact"
	"verdict.market/sealmint/geometry"
)

func main() {
	payload := artifact.Payload{
		Version:          artifact.SchemaVersion,
		Kind:             artifact.KindPosition,
		Moment:           artifact.Moment{Pulse: 12, Beat: 3},
		MarketID:         "m1",
		Side:             "YES",
		LockedStakeMicro: "1500000",
	}

	minted, err := artifact.Mint(context.Background(), artifact.Request{Payload: payload})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Canonical=%s\n", minted.CanonicalPayload)
	fmt.Printf("Canonical-Hash=%s\n", minted.Seal.CanonicalHash)
	fmt.Printf("Public-Input=%s\n", minted.Seal.PublicInput)
	fmt.Printf("Seed=%d\n", geometry.SeedFromHex(minted.Seal.CanonicalHash))
	fmt.Printf("Stable-ID=%s\n", minted.Identity.StableID)
	fmt.Printf("Content-Hash=%s\n", minted.Identity.ContentHash)
	fmt.Printf("CID=%s\n", minted.Identity.CID)
	fmt.Printf("---BEGIN CONTAINER---\n%s\n---END CONTAINER---\n", string(minted.Container))
}
