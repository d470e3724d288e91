package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   MutationInput
}

func newTestServer(t *testing.T, status int, respond interface{}) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var calls []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		calls = append(calls, rec)
		w.WriteHeader(status)
		if respond != nil {
			_ = json.NewEncoder(w).Encode(respond)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestGetCart(t *testing.T) {
	want := &CartResponse{TotalItems: 2, Subtotal: "2000.00"}
	srv, calls := newTestServer(t, http.StatusOK, want)
	client := NewHTTPClient(srv.URL, srv.Client(), func() string { return "tok-123" })

	got, err := client.GetCart(context.Background())
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if got.TotalItems != 2 || got.Subtotal != "2000.00" {
		t.Fatalf("unexpected cart: %+v", got)
	}
	call := (*calls)[0]
	if call.method != http.MethodGet || call.path != "/v1/cart" {
		t.Fatalf("unexpected request: %+v", call)
	}
	if call.auth != "Bearer tok-123" {
		t.Fatalf("missing bearer token: %q", call.auth)
	}
}

func TestGetCartNotFoundReadsAsEmpty(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusNotFound, nil)
	client := NewHTTPClient(srv.URL, srv.Client(), nil)

	got, err := client.GetCart(context.Background())
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if len(got.Items) != 0 || got.TotalItems != 0 || got.Subtotal != "0.00" {
		t.Fatalf("expected the empty cart shape, got %+v", got)
	}
}

func TestAddToCart(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, EmptyCart())
	client := NewHTTPClient(srv.URL, srv.Client(), nil)

	_, err := client.AddToCart(context.Background(), MutationInput{
		ProductID:         "A",
		Quantity:          2,
		FulfillmentMethod: domain.FulfillmentDelivery,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	call := (*calls)[0]
	if call.method != http.MethodPost || call.path != "/v1/cart/items" {
		t.Fatalf("unexpected request: %+v", call)
	}
	if call.body.ProductID != "A" || call.body.Quantity != 2 || call.body.FulfillmentMethod != domain.FulfillmentDelivery {
		t.Fatalf("unexpected payload: %+v", call.body)
	}
}

func TestUpdateCart(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, EmptyCart())
	client := NewHTTPClient(srv.URL, srv.Client(), nil)

	if _, err := client.UpdateCart(context.Background(), MutationInput{ProductID: "A", Quantity: 5}); err != nil {
		t.Fatalf("update: %v", err)
	}
	call := (*calls)[0]
	if call.method != http.MethodPatch || call.path != "/v1/cart/items" {
		t.Fatalf("unexpected request: %+v", call)
	}
}

func TestRemoveFromCart(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, EmptyCart())
	client := NewHTTPClient(srv.URL, srv.Client(), nil)

	if _, err := client.RemoveFromCart(context.Background(), "A/B"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	call := (*calls)[0]
	if call.method != http.MethodDelete {
		t.Fatalf("unexpected method %s", call.method)
	}
	// Product ids are path-escaped.
	if call.path != "/v1/cart/items/A%2FB" && call.path != "/v1/cart/items/A/B" {
		t.Fatalf("unexpected path %s", call.path)
	}
}

func TestClearCart(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusNoContent, nil)
	client := NewHTTPClient(srv.URL, srv.Client(), nil)

	if err := client.ClearCart(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	call := (*calls)[0]
	if call.method != http.MethodDelete || call.path != "/v1/cart" {
		t.Fatalf("unexpected request: %+v", call)
	}
}

func TestStatusErrorCarriesCode(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusBadGateway, nil)
	client := NewHTTPClient(srv.URL, srv.Client(), nil)

	_, err := client.AddToCart(context.Background(), MutationInput{ProductID: "A", Quantity: 1})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected StatusError 502, got %v", err)
	}
}
