package services

import (
	"context"
	"testing"
	"time"

	"github.com/otcheredev/membership-data-plane/internal/models"
	"github.com/otcheredev/membership-data-plane/internal/store"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rawCustomer(t *testing.T, st *store.MemoryClient, businessID, customerID string) store.Document {
	t.Helper()
	doc, err := st.Get(context.Background(), models.CustomerPath(businessID, customerID))
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	return doc
}

func TestAppendAndDeactivate(t *testing.T) {
	st := store.NewMemoryClient()
	svc := NewSubscriptionService(st)
	ctx := context.Background()

	seedCustomer(t, st, "B1", "CU1", "")

	a := Appendment{
		ShiftID:         "SH1",
		Seat:            "12",
		Start:           date(2024, time.January, 1),
		End:             date(2024, time.January, 31),
		PaymentRate:     "1200",
		LastPaymentDate: date(2024, time.January, 1),
	}
	if err := svc.Append(ctx, "B1", "CU1", a); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	cust := getCustomer(t, st, "B1", "CU1")
	if !cust.Active || cust.PaymentRate != "1200" {
		t.Fatalf("customer after append = %+v", cust)
	}
	if len(cust.ShiftIDs) != 1 || cust.ShiftIDs[0] != "SH1" {
		t.Fatalf("shift ids = %v", cust.ShiftIDs)
	}
	if !models.ArraysAligned(rawCustomer(t, st, "B1", "CU1")) {
		t.Fatal("arrays misaligned after single append")
	}

	if err := svc.Deactivate(ctx, "B1", "CU1"); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}

	cust = getCustomer(t, st, "B1", "CU1")
	if cust.Active || cust.PaymentRate != "" {
		t.Fatalf("customer after deactivate = %+v", cust)
	}
	if len(cust.ShiftIDs) != 0 || len(cust.Seats) != 0 || len(cust.SubscriptionStarts) != 0 || len(cust.SubscriptionEnds) != 0 {
		t.Fatalf("arrays not cleared: %+v", cust)
	}
	if !models.ArraysAligned(rawCustomer(t, st, "B1", "CU1")) {
		t.Fatal("arrays misaligned after deactivate")
	}
}

func TestAppendIsAddIfAbsentPerArray(t *testing.T) {
	st := store.NewMemoryClient()
	svc := NewSubscriptionService(st)
	ctx := context.Background()

	seedCustomer(t, st, "B1", "CU1", "")

	a := Appendment{ShiftID: "SH1", Seat: "12", Start: date(2024, time.January, 1), End: date(2024, time.January, 31)}
	if err := svc.Append(ctx, "B1", "CU1", a); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	// Same shift id under a different seat: the shift array dedupes, the seat
	// array grows. The lengths drift apart; this is the documented limitation.
	a.Seat = "14"
	if err := svc.Append(ctx, "B1", "CU1", a); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	cust := getCustomer(t, st, "B1", "CU1")
	if len(cust.ShiftIDs) != 1 {
		t.Fatalf("shift ids = %v, want deduped single entry", cust.ShiftIDs)
	}
	if len(cust.Seats) != 2 {
		t.Fatalf("seats = %v, want both entries", cust.Seats)
	}
	if models.ArraysAligned(rawCustomer(t, st, "B1", "CU1")) {
		t.Fatal("expected misalignment after duplicate shift id append")
	}
}

func TestRemove(t *testing.T) {
	st := store.NewMemoryClient()
	svc := NewSubscriptionService(st)
	ctx := context.Background()

	seedCustomer(t, st, "B1", "CU1", "")
	start1, end1 := date(2024, time.January, 1), date(2024, time.January, 31)
	start2, end2 := date(2024, time.February, 1), date(2024, time.February, 29)
	if err := svc.ReplaceAll(ctx, "B1", "CU1",
		[]string{"SH1", "SH2"}, []string{"12", "14"},
		[]time.Time{start1, start2}, []time.Time{end1, end2},
		"1200", date(2024, time.January, 1)); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	if err := svc.Remove(ctx, "B1", "CU1", "SH1", "12", &start1, &end1); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	cust := getCustomer(t, st, "B1", "CU1")
	if len(cust.ShiftIDs) != 1 || cust.ShiftIDs[0] != "SH2" {
		t.Fatalf("shift ids = %v", cust.ShiftIDs)
	}
	if len(cust.Seats) != 1 || cust.Seats[0] != "14" {
		t.Fatalf("seats = %v", cust.Seats)
	}
	if !models.ArraysAligned(rawCustomer(t, st, "B1", "CU1")) {
		t.Fatal("arrays misaligned after full remove")
	}
}

func TestRemoveBlankShiftIDIsNoop(t *testing.T) {
	svc := NewSubscriptionService(noStore{t: t})
	if err := svc.Remove(context.Background(), "B1", "CU1", "  ", "", nil, nil); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
}

func TestRemovePartialFieldsMisaligns(t *testing.T) {
	st := store.NewMemoryClient()
	svc := NewSubscriptionService(st)
	ctx := context.Background()

	seedCustomer(t, st, "B1", "CU1", "")
	start, end := date(2024, time.January, 1), date(2024, time.January, 31)
	if err := svc.ReplaceAll(ctx, "B1", "CU1",
		[]string{"SH1"}, []string{"12"}, []time.Time{start}, []time.Time{end},
		"1200", start); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	// Only the shift id is supplied; seat/start/end arrays keep their entries.
	if err := svc.Remove(ctx, "B1", "CU1", "SH1", "", nil, nil); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	cust := getCustomer(t, st, "B1", "CU1")
	if len(cust.ShiftIDs) != 0 {
		t.Fatalf("shift ids = %v, want empty", cust.ShiftIDs)
	}
	if len(cust.Seats) != 1 {
		t.Fatalf("seats = %v, want untouched", cust.Seats)
	}
	if models.ArraysAligned(rawCustomer(t, st, "B1", "CU1")) {
		t.Fatal("expected misalignment after partial remove")
	}
}

func TestReplaceAllRealigns(t *testing.T) {
	st := store.NewMemoryClient()
	svc := NewSubscriptionService(st)
	ctx := context.Background()

	seedCustomer(t, st, "B1", "CU1", "")

	// Force a misalignment first.
	a := Appendment{ShiftID: "SH1", Seat: "12", Start: date(2024, time.January, 1), End: date(2024, time.January, 31)}
	if err := svc.Append(ctx, "B1", "CU1", a); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	a.Seat = "14"
	if err := svc.Append(ctx, "B1", "CU1", a); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if err := svc.ReplaceAll(ctx, "B1", "CU1",
		[]string{"SH1", "SH2"}, []string{"12", "14"},
		[]time.Time{date(2024, time.January, 1), date(2024, time.February, 1)},
		[]time.Time{date(2024, time.January, 31), date(2024, time.February, 29)},
		"1500", date(2024, time.February, 1)); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	cust := getCustomer(t, st, "B1", "CU1")
	if len(cust.ShiftIDs) != 2 || len(cust.Seats) != 2 || len(cust.SubscriptionStarts) != 2 || len(cust.SubscriptionEnds) != 2 {
		t.Fatalf("arrays after replace = %+v", cust)
	}
	if !models.ArraysAligned(rawCustomer(t, st, "B1", "CU1")) {
		t.Fatal("arrays misaligned after ReplaceAll")
	}
}

func TestReplaceAllEmpty(t *testing.T) {
	st := store.NewMemoryClient()
	svc := NewSubscriptionService(st)
	ctx := context.Background()

	seedCustomer(t, st, "B1", "CU1", "")

	if err := svc.ReplaceAll(ctx, "B1", "CU1", nil, nil, nil, nil, "", time.Time{}); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	cust := getCustomer(t, st, "B1", "CU1")
	if len(cust.ShiftIDs) != 0 || len(cust.Seats) != 0 {
		t.Fatalf("arrays after empty replace = %+v", cust)
	}
	if !models.ArraysAligned(rawCustomer(t, st, "B1", "CU1")) {
		t.Fatal("arrays misaligned after empty ReplaceAll")
	}
}

func TestRenew(t *testing.T) {
	st := store.NewMemoryClient()
	svc := NewSubscriptionService(st)
	ctx := context.Background()

	seedCustomer(t, st, "B1", "CU1", "")
	if err := svc.ReplaceAll(ctx, "B1", "CU1",
		[]string{"SH1"}, []string{"12"},
		[]time.Time{date(2024, time.January, 1)}, []time.Time{date(2024, time.January, 31)},
		"1200", date(2024, time.January, 1)); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	newEnd := date(2024, time.February, 29)
	if err := svc.Renew(ctx, "B1", "CU1", []time.Time{newEnd}, "1300"); err != nil {
		t.Fatalf("Renew() error = %v", err)
	}

	cust := getCustomer(t, st, "B1", "CU1")
	if !cust.Active || cust.PaymentRate != "1300" {
		t.Fatalf("customer after renew = %+v", cust)
	}
	if len(cust.SubscriptionEnds) != 1 || !cust.SubscriptionEnds[0].Equal(newEnd) {
		t.Fatalf("end dates = %v", cust.SubscriptionEnds)
	}
	// Shift ids untouched by renew.
	if len(cust.ShiftIDs) != 1 || cust.ShiftIDs[0] != "SH1" {
		t.Fatalf("shift ids = %v", cust.ShiftIDs)
	}
}
