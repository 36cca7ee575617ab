package vietqr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupBusiness(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/business/0316794479" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"code":"00","desc":"Success","data":{"id":"0316794479","name":"CONG TY TNHH MAY MAC UNISEW","address":"TP. Thu Duc, TP. Ho Chi Minh"}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	biz, err := c.LookupBusiness(context.Background(), "0316794479")
	if err != nil {
		t.Fatalf("LookupBusiness failed: %v", err)
	}
	if biz.Name != "CONG TY TNHH MAY MAC UNISEW" {
		t.Errorf("Unexpected business name %q", biz.Name)
	}
}

func TestLookupBusinessNotRegistered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"51","desc":"Tax code not found","data":null}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	_, err := c.LookupBusiness(context.Background(), "0000000000")
	if !errors.Is(err, ErrTaxCodeNotFound) {
		t.Errorf("Expected ErrTaxCodeNotFound, got %v", err)
	}
}

func TestListBanks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"00","desc":"Success","data":[{"id":17,"name":"Ngan hang TMCP Cong thuong Viet Nam","code":"ICB","bin":"970415","shortName":"VietinBank"}]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	banks, err := c.ListBanks(context.Background())
	if err != nil {
		t.Fatalf("ListBanks failed: %v", err)
	}
	if len(banks) != 1 || banks[0].BIN != "970415" {
		t.Errorf("Unexpected banks payload: %+v", banks)
	}
}

func TestUpstreamErrorKeepsRawBody(t *testing.T) {
	raw := `{"code":"99","desc":"Internal error","data":null}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(raw))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	_, err := c.ListBanks(context.Background())
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if string(upErr.RawBody) != raw {
		t.Errorf("Raw payload not preserved: %s", upErr.RawBody)
	}
}
