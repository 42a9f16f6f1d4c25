package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/ipfs/go-cid"

	"verdict.market/sealmint/artifact"
	"verdict.market/sealmint/assurance"
	"verdict.market/sealmint/storage"
)

type MintOptions struct {
	// Archive, when set, receives the container bytes after a successful mint.
	// The archived CID is checked against the identity CID.
	Archive storage.Archive

	// OmitContainer drops the container bytes from the returned record,
	// leaving only identity and seal fields. Useful once the container is
	// archived and callers hydrate it by CID.
	OmitContainer bool
}

// Mint runs the full pipeline on a boundary request and returns a boundary
// record. Archival, when configured, happens after identity derivation so a
// storage failure never yields a half-built record.
func Mint(ctx context.Context, req MintRequest, opts MintOptions) (*MintedRecord, error) {
	payload, err := toPayload(req.Payload)
	if err != nil {
		return nil, err
	}

	sources := make([]assurance.Source, 0, len(req.Sources))
	for i, raw := range req.Sources {
		src, err := toSource(raw)
		if err != nil {
			return nil, NewError(ErrInvalidSource, "invalid source["+strconv.Itoa(i)+"]: "+err.Error())
		}
		sources = append(sources, src)
	}

	minted, err := artifact.Mint(ctx, artifact.Request{Payload: payload, Sources: sources})
	if err != nil {
		return nil, mapErr(err)
	}

	if opts.Archive != nil {
		id, err := opts.Archive.Put(minted.Container)
		if err != nil {
			return nil, NewError(ErrInternal, "archive put: "+err.Error())
		}
		if id.String() != minted.Identity.CID {
			return nil, NewError(ErrInternal, "archive cid diverged from identity cid")
		}
	}

	rec := fromMinted(minted)
	if opts.OmitContainer {
		rec.Container = nil
	}
	return rec, nil
}

// Fetch hydrates a previously archived container by CID and re-derives its
// record from the embedded blocks.
func Fetch(arch storage.Archive, cidStr string) (*MintedRecord, error) {
	if arch == nil {
		return nil, NewError(ErrMissingArchive, "no archive configured")
	}
	id, err := cid.Decode(cidStr)
	if err != nil {
		return nil, NewError(ErrInvalidRequest, "invalid cid")
	}
	container, err := arch.Get(id)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, NewError(ErrNotFound, "container not found")
		}
		return nil, NewError(ErrInternal, "archive get: "+err.Error())
	}

	seal, err := artifact.ExtractSeal(container)
	if err != nil {
		return nil, mapErr(err)
	}
	fields, err := artifact.Summary(container)
	if err != nil {
		return nil, mapErr(err)
	}
	identity, err := artifact.Identify(container, artifact.Kind(fields[0]), fields[2])
	if err != nil {
		return nil, mapErr(err)
	}

	return &MintedRecord{
		StableID:    identity.StableID,
		ContentHash: identity.ContentHash,
		CID:         identity.CID,
		Seal:        fromSeal(seal),
		Container:   container,
	}, nil
}

func toPayload(dto PayloadDTO) (artifact.Payload, error) {
	p := artifact.Payload{
		Version: dto.Version,
		Kind:    artifact.Kind(dto.Kind),
		Moment: artifact.Moment{
			Pulse:     dto.Moment.Pulse,
			Beat:      dto.Moment.Beat,
			StepIndex: dto.Moment.StepIndex,
		},
		MarketID:         dto.MarketID,
		Side:             dto.Side,
		Outcome:          dto.Outcome,
		OwnerKey:         dto.OwnerKey,
		LockedStakeMicro: dto.LockedStakeMicro,
		PayoutMicro:      dto.PayoutMicro,
		Attrs:            dto.Attrs,
	}
	if err := p.Validate(); err != nil {
		return artifact.Payload{}, NewError(ErrInvalidPayload, err.Error())
	}
	return p, nil
}

func toSource(raw json.RawMessage) (assurance.Source, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rec map[string]any
	if err := dec.Decode(&rec); err != nil {
		return assurance.Source{}, errors.New("source is not a JSON object")
	}
	return assurance.NewSource(rec), nil
}

func fromMinted(m *artifact.Minted) *MintedRecord {
	return &MintedRecord{
		StableID:    m.Identity.StableID,
		ContentHash: m.Identity.ContentHash,
		CID:         m.Identity.CID,
		Seal:        fromSeal(m.Seal),
		Container:   m.Container,
	}
}

func fromSeal(s artifact.Seal) SealDTO {
	return SealDTO{
		CanonicalHash:   s.CanonicalHash,
		CanonicalLength: s.CanonicalLength,
		PublicInput:     s.PublicInput,
		Scheme:          s.Scheme,
		Tier:            string(s.Assurance.Tier),
		Verified:        s.Assurance.OK,
	}
}

func mapErr(err error) error {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}
	var stageErr *artifact.Error
	if errors.As(err, &stageErr) {
		switch stageErr.Stage {
		case artifact.StageValidate, artifact.StageCanonicalize:
			return NewError(ErrInvalidPayload, stageErr.Error())
		case artifact.StageExtract:
			return NewError(ErrInvalidRequest, stageErr.Error())
		}
	}
	return NewError(ErrInternal, err.Error())
}
