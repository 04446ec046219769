package models

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestGameDetail_StoreIDs(t *testing.T) {
	detail := &GameDetail{Deals: []DealEntry{{StoreID: "1"}, {StoreID: "1"}, {StoreID: "7"}}}
	got := detail.StoreIDs()
	want := []string{"1", "1", "7"}
	if len(got) != len(want) {
		t.Fatalf("StoreIDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("StoreIDs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	var nilDetail *GameDetail
	if ids := nilDetail.StoreIDs(); ids != nil {
		t.Errorf("nil detail StoreIDs() = %v, want nil", ids)
	}
}

func TestCheapestPrice_At(t *testing.T) {
	if !(CheapestPrice{}).At().IsZero() {
		t.Error("At() should be zero when Date is unset")
	}
	got := CheapestPrice{Date: 1543028665}.At()
	want := time.Date(2018, 11, 24, 3, 4, 25, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("At() = %v, want %v", got, want)
	}
}

func TestTransportError(t *testing.T) {
	base := errors.New("connection refused")
	err := fmt.Errorf("list deals: %w", &TransportError{Op: "GET /deals", Err: base})

	if !IsTransport(err) {
		t.Error("IsTransport() should see a wrapped TransportError")
	}
	if !errors.Is(err, base) {
		t.Error("TransportError should unwrap to its cause")
	}
	if IsTransport(ErrNotFound) {
		t.Error("ErrNotFound is not a transport error")
	}

	withStatus := &TransportError{Op: "GET /stores", StatusCode: 503, Err: errors.New("unavailable")}
	if withStatus.Error() != "GET /stores: HTTP 503: unavailable" {
		t.Errorf("Error() = %q", withStatus.Error())
	}
}
