package artifact

import (
	"context"

	"verdict.market/sealmint/assurance"
)

// Request is one mint invocation. Sources are probed in slice order; the
// conventional order is the embedded payload record first, then the owning
// market record, then the linked account record. Missing sources are fine;
// assurance degrades to tier "none", it never fails the mint.
type Request struct {
	Payload Payload
	Sources []assurance.Source
}

// Minted is the terminal result of a successful mint. The caller owns it
// exclusively; the pipeline holds no reference after return. There is no
// update-in-place: a changed logical state is a new mint with a new identity.
type Minted struct {
	Identity Identity
	Seal     Seal

	// CanonicalPayload is the exact canonical bytes the seal covers.
	CanonicalPayload []byte
	// Container is the assembled artifact.
	Container []byte
}

// Mint runs the full pipeline: validate, canonicalize, seal, assemble,
// identify. Data flows strictly forward; the digest is the only component
// reused (seal construction and final identity derivation).
//
// ctx is checked between stages. Cancellation discards the in-progress local
// computation; nothing is persisted by this function, so cancellation has no
// side effects anywhere.
func Mint(ctx context.Context, req Request) (*Minted, error) {
	if err := req.Payload.Validate(); err != nil {
		return nil, err
	}
	if err := stageCtx(ctx, StageSeal); err != nil {
		return nil, err
	}

	seal, canonBytes, err := BuildSeal(req.Payload, req.Sources)
	if err != nil {
		return nil, err
	}
	if err := stageCtx(ctx, StageAssemble); err != nil {
		return nil, err
	}

	container, err := Assemble(req.Payload, seal)
	if err != nil {
		return nil, err
	}
	if err := stageCtx(ctx, StageIdentify); err != nil {
		return nil, err
	}

	identity, err := Identify(container, req.Payload.Kind, req.Payload.LogicalID())
	if err != nil {
		return nil, err
	}

	return &Minted{
		Identity:         identity,
		Seal:             seal,
		CanonicalPayload: canonBytes,
		Container:        container,
	}, nil
}

func stageCtx(ctx context.Context, next Stage) error {
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return wrapError(next, "MINT-CTX-001", "mint canceled before "+string(next), err)
	}
	return nil
}
