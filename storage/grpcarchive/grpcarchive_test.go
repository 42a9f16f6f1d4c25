package grpcarchive

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"verdict.market/sealmint/artifact"
	"verdict.market/sealmint/cidutil"
	"verdict.market/sealmint/storage"
	"verdict.market/sealmint/storage/localfs"
)

func newBufconnClient(t *testing.T, arch storage.Archive) *Client {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterArchiveServer(srv, &Server{Archive: arch})

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	return &Client{cc: cc, client: NewArchiveClient(cc), Timeout: 2 * time.Second}
}

func TestGRPCArchive_LocalFS_RoundTrip(t *testing.T) {
	store, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	client := newBufconnClient(t, store)

	payload := []byte("hello grpcarchive")
	id, err := client.Put(payload)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !id.Defined() {
		t.Fatalf("expected defined CID")
	}
	if !client.Has(id) {
		t.Fatalf("Has: expected true")
	}
	got, err := client.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestGRPCArchive_MintedContainerRoundTrip(t *testing.T) {
	store, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	client := newBufconnClient(t, store)

	minted, err := artifact.Mint(context.Background(), artifact.Request{
		Payload: artifact.Payload{
			Version:          artifact.SchemaVersion,
			Kind:             artifact.KindPosition,
			Moment:           artifact.Moment{Pulse: 7, Beat: 1},
			MarketID:         "m-archive",
			Side:             "YES",
			LockedStakeMicro: "250000",
		},
	})
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	id, err := client.Put(minted.Container)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	// The archive key must equal the minted identity CID.
	if id.String() != minted.Identity.CID {
		t.Fatalf("archive key %s != identity cid %s", id, minted.Identity.CID)
	}

	got, err := client.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	seal, err := artifact.ExtractSeal(got)
	if err != nil {
		t.Fatalf("ExtractSeal: %v", err)
	}
	if seal.CanonicalHash != minted.Seal.CanonicalHash {
		t.Fatalf("hydrated container carries a different seal")
	}
}

// wrappingArchive decorates every sentinel error with backend context, the
// way a composed or remote backend would.
type wrappingArchive struct {
	inner storage.Archive
}

func (w wrappingArchive) Put(b []byte) (cid.Cid, error) {
	id, err := w.inner.Put(b)
	if err != nil {
		return cid.Undef, fmt.Errorf("wrapped backend: %w", err)
	}
	return id, nil
}

func (w wrappingArchive) Get(id cid.Cid) ([]byte, error) {
	b, err := w.inner.Get(id)
	if err != nil {
		return nil, fmt.Errorf("wrapped backend: %w", err)
	}
	return b, nil
}

func (w wrappingArchive) Has(id cid.Cid) bool { return w.inner.Has(id) }

func TestGRPCArchive_WrappedSentinelsKeepTheirCodes(t *testing.T) {
	store, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	client := newBufconnClient(t, wrappingArchive{inner: store})

	id, err := client.Put([]byte("present"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	missing, err := cidutil.CIDv1RawSHA256CID([]byte("never stored"))
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID: %v", err)
	}
	if _, err := client.Get(missing); !storage.IsNotFound(err) {
		t.Fatalf("wrapped not-found must map to ErrNotFound, got %v", err)
	}
	if _, err := client.Get(id); err != nil {
		t.Fatalf("Get present: %v", err)
	}
}

func TestGRPCArchive_StatReportsSize(t *testing.T) {
	store, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	client := newBufconnClient(t, store)

	payload := []byte("sized container bytes")
	id, err := client.Put(payload)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	n, err := client.Size(id)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if n != uint64(len(payload)) {
		t.Fatalf("Size = %d, want %d", n, len(payload))
	}

	var _ storage.Sizer = client

	other, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	emptyClient := newBufconnClient(t, other)
	if _, err := emptyClient.Size(id); !storage.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGRPCArchive_NotFoundMapsToSentinel(t *testing.T) {
	store, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	client := newBufconnClient(t, store)

	missing, err := client.Put([]byte("probe"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	other, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	emptyClient := newBufconnClient(t, other)

	if _, err := emptyClient.Get(missing); !storage.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if emptyClient.Has(missing) {
		t.Fatalf("Has must be false on empty archive")
	}
}
