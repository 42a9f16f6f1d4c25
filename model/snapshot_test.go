package model

import (
	"context"
	"encoding/json"
	"testing"
)

func TestSnapshot_MintRequest_JSONShape(t *testing.T) {
	req := MintRequest{
		Payload: PayloadDTO{
			Version:          "1",
			Kind:             "position",
			Moment:           MomentDTO{Pulse: 12, Beat: 3},
			MarketID:         "m1",
			Side:             "YES",
			LockedStakeMicro: "1500000",
		},
		Sources: []json.RawMessage{
			json.RawMessage(`{"verified":true}`),
		},
	}

	b, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent failed: %v", err)
	}

	const want = "{\n" +
		"  \"payload\": {\n" +
		"    \"version\": \"1\",\n" +
		"    \"kind\": \"position\",\n" +
		"    \"moment\": {\n" +
		"      \"pulse\": 12,\n" +
		"      \"beat\": 3,\n" +
		"      \"stepIndex\": 0\n" +
		"    },\n" +
		"    \"marketId\": \"m1\",\n" +
		"    \"side\": \"YES\",\n" +
		"    \"lockedStakeMicro\": \"1500000\"\n" +
		"  },\n" +
		"  \"sources\": [\n" +
		"    {\n" +
		"      \"verified\": true\n" +
		"    }\n" +
		"  ]\n" +
		"}"

	if string(b) != want {
		t.Fatalf("snapshot mismatch:\n%s", string(b))
	}
}

func TestSnapshot_MintedRecord_JSONShape(t *testing.T) {
	rec := MintedRecord{
		StableID:    "deadbeef",
		ContentHash: "cafe",
		CID:         "bafy-artifact-1",
		Seal: SealDTO{
			CanonicalHash:   "cafe",
			CanonicalLength: 42,
			PublicInput:     "51966",
			Scheme:          "groth16",
			Tier:            "none",
		},
	}

	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent failed: %v", err)
	}

	const want = "{\n" +
		"  \"stableId\": \"deadbeef\",\n" +
		"  \"contentHash\": \"cafe\",\n" +
		"  \"cid\": \"bafy-artifact-1\",\n" +
		"  \"seal\": {\n" +
		"    \"canonicalHash\": \"cafe\",\n" +
		"    \"canonicalLength\": 42,\n" +
		"    \"publicInput\": \"51966\",\n" +
		"    \"scheme\": \"groth16\",\n" +
		"    \"tier\": \"none\",\n" +
		"    \"verified\": false\n" +
		"  }\n" +
		"}"

	if string(b) != want {
		t.Fatalf("snapshot mismatch:\n%s", string(b))
	}
}

func TestMint_BoundaryValidation(t *testing.T) {
	ctx := context.Background()

	_, err := Mint(ctx, MintRequest{}, MintOptions{})
	if coded, ok := err.(*CodedError); !ok || coded.Code != ErrInvalidPayload {
		t.Fatalf("empty payload: %v", err)
	}

	req := MintRequest{
		Payload: PayloadDTO{
			Version:          "1",
			Kind:             "position",
			Moment:           MomentDTO{Pulse: 12, Beat: 3},
			MarketID:         "m1",
			Side:             "YES",
			LockedStakeMicro: "1500000",
		},
		Sources: []json.RawMessage{json.RawMessage(`[]`)},
	}
	_, err = Mint(ctx, req, MintOptions{})
	if coded, ok := err.(*CodedError); !ok || coded.Code != ErrInvalidSource {
		t.Fatalf("non-object source: %v", err)
	}

	req.Sources = nil
	rec, err := Mint(ctx, req, MintOptions{})
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if rec.StableID == "" || rec.CID == "" || len(rec.Container) == 0 {
		t.Fatalf("incomplete record: %+v", rec)
	}
	if rec.Seal.Tier != "none" || rec.Seal.Verified {
		t.Fatalf("unexpected assurance projection: %+v", rec.Seal)
	}

	rec2, err := Mint(ctx, req, MintOptions{OmitContainer: true})
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if rec2.Container != nil {
		t.Fatalf("OmitContainer kept container bytes")
	}
	if rec2.StableID != rec.StableID || rec2.CID != rec.CID {
		t.Fatalf("projection changed identity")
	}
}
