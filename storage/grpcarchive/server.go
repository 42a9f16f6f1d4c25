package grpcarchive

import (
	"context"
	"errors"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"verdict.market/sealmint/cidutil"
	"verdict.market/sealmint/storage"
)

// Server exposes a storage.Archive over the Archive gRPC service.
type Server struct {
	UnimplementedArchiveServer
	Archive storage.Archive
}

func (s *Server) Put(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.Archive == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing archive")
	}
	b := in.GetValue()
	// Enforce the artifact CID contract on the server side too.
	expected, err := cidutil.CIDv1RawSHA256CID(b)
	if err != nil {
		return nil, status.Error(codes.Internal, "cid computation failed")
	}
	id, err := s.Archive.Put(b)
	if err != nil {
		return nil, mapErr(err)
	}
	if id.String() != expected.String() {
		return nil, status.Error(codes.DataLoss, storage.ErrCIDMismatch.Error())
	}
	return wrapperspb.String(id.String()), nil
}

func (s *Server) Get(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.Archive == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing archive")
	}
	id, err := cid.Decode(in.GetValue())
	if err != nil || !id.Defined() {
		return nil, status.Error(codes.InvalidArgument, storage.ErrInvalidCID.Error())
	}
	b, err := s.Archive.Get(id)
	if err != nil {
		return nil, mapErr(err)
	}
	got, err := cidutil.CIDv1RawSHA256CID(b)
	if err != nil {
		return nil, status.Error(codes.Internal, "cid computation failed")
	}
	if got.String() != id.String() {
		return nil, status.Error(codes.DataLoss, storage.ErrCIDMismatch.Error())
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) Has(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	_ = ctx
	if s == nil || s.Archive == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing archive")
	}
	id, err := cid.Decode(in.GetValue())
	if err != nil || !id.Defined() {
		return nil, status.Error(codes.InvalidArgument, storage.ErrInvalidCID.Error())
	}
	return wrapperspb.Bool(s.Archive.Has(id)), nil
}

func (s *Server) Stat(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.UInt64Value, error) {
	_ = ctx
	if s == nil || s.Archive == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing archive")
	}
	id, err := cid.Decode(in.GetValue())
	if err != nil || !id.Defined() {
		return nil, status.Error(codes.InvalidArgument, storage.ErrInvalidCID.Error())
	}
	if sized, ok := s.Archive.(storage.Sizer); ok {
		n, err := sized.Size(id)
		if err != nil {
			return nil, mapErr(err)
		}
		return wrapperspb.UInt64(n), nil
	}
	b, err := s.Archive.Get(id)
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapperspb.UInt64(uint64(len(b))), nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	// errors.Is, not ==: backends are free to wrap the sentinels.
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, storage.ErrInvalidCID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, storage.ErrCIDMismatch):
		return status.Error(codes.DataLoss, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
