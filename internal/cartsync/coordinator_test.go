package cartsync

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/savemymealng-tech/smm-app-sub000/internal/backend"
	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
	"github.com/savemymealng-tech/smm-app-sub000/internal/localstore"
)

type stubClient struct {
	mu          sync.Mutex
	getResp     *backend.CartResponse
	getErr      error
	getCalls    int
	addResp     *backend.CartResponse
	failAddAt   int // fail the Nth AddToCart call (1-based); 0 disables
	addCalls    []backend.MutationInput
	updateResp  *backend.CartResponse
	updateErr   error
	updateCalls []backend.MutationInput
	removeResp  *backend.CartResponse
	removeErr   error
	removeCalls []string
	clearErr    error
	clearCalls  int
}

func (s *stubClient) GetCart(_ context.Context) (*backend.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.getResp != nil {
		return s.getResp, nil
	}
	return backend.EmptyCart(), nil
}

func (s *stubClient) AddToCart(_ context.Context, in backend.MutationInput) (*backend.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addCalls = append(s.addCalls, in)
	if s.failAddAt > 0 && len(s.addCalls) == s.failAddAt {
		return nil, errors.New("add rejected")
	}
	if s.addResp != nil {
		return s.addResp, nil
	}
	return backend.EmptyCart(), nil
}

func (s *stubClient) UpdateCart(_ context.Context, in backend.MutationInput) (*backend.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls = append(s.updateCalls, in)
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	if s.updateResp != nil {
		return s.updateResp, nil
	}
	return backend.EmptyCart(), nil
}

func (s *stubClient) RemoveFromCart(_ context.Context, productID string) (*backend.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeCalls = append(s.removeCalls, productID)
	if s.removeErr != nil {
		return nil, s.removeErr
	}
	if s.removeResp != nil {
		return s.removeResp, nil
	}
	return backend.EmptyCart(), nil
}

func (s *stubClient) ClearCart(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCalls++
	return s.clearErr
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) errors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notes {
		if n.Severity == SeverityError {
			count++
		}
	}
	return count
}

type rig struct {
	auth     *AuthStore
	client   *stubClient
	local    *localstore.Store
	co       *Coordinator
	dispatch *Dispatcher
	notes    *recordingNotifier
}

func newRig(t *testing.T) *rig {
	t.Helper()
	auth := NewAuthStore()
	client := &stubClient{}
	local := localstore.New(filepath.Join(t.TempDir(), "cart.json"))
	notes := &recordingNotifier{}
	co := New(Config{Auth: auth, Local: local, Client: client, Notifier: notes})
	t.Cleanup(co.Close)
	return &rig{auth: auth, client: client, local: local, co: co, dispatch: NewDispatcher(co), notes: notes}
}

func guestItem(id, productID string, qty int, price string) domain.CartItem {
	it := domain.CartItem{
		ID:        id,
		ProductID: productID,
		Product:   domain.Product{ID: productID, Name: "Meal", Price: decimal.RequireFromString(price), AvailableForPickup: true},
		UnitPrice: decimal.RequireFromString(price),
	}
	it.SetQuantity(qty)
	return it
}

func TestGuestSnapshotDerivesTotals(t *testing.T) {
	r := newRig(t)
	if err := r.dispatch.Add(context.Background(), AddInput{
		ProductID: "A",
		Quantity:  2,
		Product:   domain.Product{ID: "A", Price: decimal.NewFromInt(1000), AvailableForPickup: true},
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	snap, err := r.co.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Authenticated {
		t.Fatalf("guest snapshot must not be authenticated")
	}
	if snap.TotalItems != 2 || !snap.Subtotal.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("unexpected totals: items=%d subtotal=%s", snap.TotalItems, snap.Subtotal)
	}
	if r.client.getCalls != 0 {
		t.Fatalf("guest reads must not touch the backend, got %d calls", r.client.getCalls)
	}
}

func TestLoginMergesGuestCartOnce(t *testing.T) {
	r := newRig(t)
	if err := r.local.Replace([]domain.CartItem{
		guestItem("l1", "A", 1, "500"),
		guestItem("l2", "B", 2, "750"),
		guestItem("l3", "C", 3, "100"),
	}); err != nil {
		t.Fatalf("seed local: %v", err)
	}

	r.auth.SetAuthenticated(true)

	if len(r.client.addCalls) != 3 {
		t.Fatalf("expected 3 merge adds, got %d", len(r.client.addCalls))
	}
	if r.client.addCalls[0].ProductID != "A" || r.client.addCalls[1].ProductID != "B" || r.client.addCalls[2].ProductID != "C" {
		t.Fatalf("merge must keep item order: %+v", r.client.addCalls)
	}
	if r.client.addCalls[1].Quantity != 2 {
		t.Fatalf("merge must forward quantities, got %+v", r.client.addCalls[1])
	}

	items, err := r.local.Items()
	if err != nil {
		t.Fatalf("local items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("local store must be empty after a full merge, got %d items", len(items))
	}

	// Further evaluations must not merge again.
	if _, err := r.co.Snapshot(context.Background()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(r.client.addCalls) != 3 {
		t.Fatalf("merge ran twice: %d add calls", len(r.client.addCalls))
	}
}

func TestLoginWithEmptyGuestCartSkipsNetwork(t *testing.T) {
	r := newRig(t)
	r.auth.SetAuthenticated(true)
	if len(r.client.addCalls) != 0 {
		t.Fatalf("empty guest cart must not issue adds, got %d", len(r.client.addCalls))
	}
	if _, err := r.co.Snapshot(context.Background()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(r.client.addCalls) != 0 {
		t.Fatalf("snapshot after no-op merge must not issue adds")
	}
}

func TestPartialMergeFailureRetriesWholesale(t *testing.T) {
	r := newRig(t)
	if err := r.local.Replace([]domain.CartItem{
		guestItem("l1", "A", 1, "500"),
		guestItem("l2", "B", 2, "750"),
		guestItem("l3", "C", 3, "100"),
	}); err != nil {
		t.Fatalf("seed local: %v", err)
	}
	r.client.failAddAt = 2

	r.auth.SetAuthenticated(true)

	if len(r.client.addCalls) != 2 {
		t.Fatalf("expected merge to stop at the failed add, got %d calls", len(r.client.addCalls))
	}
	items, err := r.local.Items()
	if err != nil {
		t.Fatalf("local items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("failed merge must keep the local store, got %d items", len(items))
	}
	if r.notes.errors() == 0 {
		t.Fatalf("merge failure must surface a notification")
	}

	// The next evaluation re-issues adds for the entire list. Product A is
	// pushed a second time; that duplication is the documented behavior.
	r.client.failAddAt = 0
	if _, err := r.co.Snapshot(context.Background()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(r.client.addCalls) != 5 {
		t.Fatalf("expected 2+3 adds after retry, got %d", len(r.client.addCalls))
	}
	if r.client.addCalls[2].ProductID != "A" {
		t.Fatalf("retry must start over from the first item, got %+v", r.client.addCalls[2])
	}
	items, err = r.local.Items()
	if err != nil {
		t.Fatalf("local items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("local store must be empty after the successful retry")
	}
}

func TestLogoutResetsMergeFlag(t *testing.T) {
	r := newRig(t)
	if err := r.local.Replace([]domain.CartItem{guestItem("l1", "A", 1, "500")}); err != nil {
		t.Fatalf("seed local: %v", err)
	}
	r.auth.SetAuthenticated(true)
	if len(r.client.addCalls) != 1 {
		t.Fatalf("expected 1 merge add, got %d", len(r.client.addCalls))
	}

	r.auth.SetAuthenticated(false)
	if err := r.local.Replace([]domain.CartItem{guestItem("l2", "B", 1, "300")}); err != nil {
		t.Fatalf("seed local: %v", err)
	}

	r.auth.SetAuthenticated(true)
	if len(r.client.addCalls) != 2 {
		t.Fatalf("second session must merge again, got %d adds", len(r.client.addCalls))
	}
	if r.client.addCalls[1].ProductID != "B" {
		t.Fatalf("unexpected second merge call: %+v", r.client.addCalls[1])
	}
}

func TestAuthenticatedSnapshotReadsRemote(t *testing.T) {
	r := newRig(t)
	r.client.getResp = &backend.CartResponse{
		Items: []backend.Item{{
			ID:        "srv-1",
			ProductID: "A",
			Quantity:  2,
			Product:   &backend.Product{ID: "A", Name: "Meal", Price: "1000", AvailableForPickup: true},
		}},
		TotalItems: 2,
		Subtotal:   "2000.00",
	}
	r.auth.SetAuthenticated(true)

	snap, err := r.co.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !snap.Authenticated {
		t.Fatalf("expected authenticated snapshot")
	}
	if snap.TotalItems != 2 || !snap.Subtotal.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("unexpected totals: items=%d subtotal=%s", snap.TotalItems, snap.Subtotal)
	}
	if r.client.getCalls != 1 {
		t.Fatalf("expected one backend read, got %d", r.client.getCalls)
	}

	// Within the stale window the cache serves the second read.
	if _, err := r.co.Snapshot(context.Background()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if r.client.getCalls != 1 {
		t.Fatalf("fresh cache must serve reads, got %d backend calls", r.client.getCalls)
	}
}

func TestAuthenticatedClearEndToEnd(t *testing.T) {
	r := newRig(t)
	r.auth.SetAuthenticated(true)

	if err := r.dispatch.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if r.client.clearCalls != 1 {
		t.Fatalf("expected one backend clear, got %d", r.client.clearCalls)
	}

	snap, err := r.co.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Items) != 0 || snap.TotalItems != 0 || !snap.Subtotal.IsZero() {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
	if r.client.getCalls != 0 {
		t.Fatalf("clear must prime the cache; reads should not refetch, got %d", r.client.getCalls)
	}
}

func TestSnapshotRemoteFailureSurfaces(t *testing.T) {
	r := newRig(t)
	r.client.getErr = errors.New("backend down")
	r.auth.SetAuthenticated(true)
	if _, err := r.co.Snapshot(context.Background()); err == nil {
		t.Fatalf("expected remote read error")
	}
}
