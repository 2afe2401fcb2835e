package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestViewRoundTripAndExpiry(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.PutView(ctx, 7, "setup-state", []byte(`{"profile_name":"Casa"}`)); err != nil {
		t.Fatalf("PutView: %v", err)
	}

	got, ok, err := c.GetView(ctx, 7, "setup-state", time.Hour)
	if err != nil || !ok {
		t.Fatalf("GetView = %v, %v", ok, err)
	}
	if string(got) != `{"profile_name":"Casa"}` {
		t.Fatalf("payload = %s", got)
	}

	now = now.Add(2 * time.Hour)
	if _, ok, _ := c.GetView(ctx, 7, "setup-state", time.Hour); ok {
		t.Fatal("expired view returned")
	}
	if _, ok, _ := c.GetView(ctx, 7, "setup-state", 0); !ok {
		t.Fatal("view with expiry disabled not returned")
	}
	if _, ok, _ := c.GetView(ctx, 8, "setup-state", 0); ok {
		t.Fatal("view returned for another profile")
	}
}

func TestInvalidateProfile(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	for _, v := range []struct {
		profile int64
		kind    string
	}{
		{0, "bank-templates"},
		{7, "setup-state"},
		{7, "recurring-templates"},
		{8, "setup-state"},
	} {
		if err := c.PutView(ctx, v.profile, v.kind, []byte("[]")); err != nil {
			t.Fatalf("PutView: %v", err)
		}
	}

	if err := c.InvalidateProfile(ctx, 7); err != nil {
		t.Fatalf("InvalidateProfile: %v", err)
	}
	n, err := c.ViewCount(ctx)
	if err != nil {
		t.Fatalf("ViewCount: %v", err)
	}
	if n != 2 {
		t.Fatalf("ViewCount = %d, want 2", n)
	}

	if err := c.DeleteView(ctx, 0, "bank-templates"); err != nil {
		t.Fatalf("DeleteView: %v", err)
	}
	if _, ok, _ := c.GetView(ctx, 0, "bank-templates", 0); ok {
		t.Fatal("deleted view returned")
	}
}

func TestSubmissionJournal(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []Submission{
		{SessionID: "a", ProfileID: 7, SubmittedAt: base, Error: "503 service unavailable", Payload: []byte("{}")},
		{SessionID: "a", ProfileID: 7, SubmittedAt: base.Add(time.Minute), ResetMode: true, Accounts: 2, Payload: []byte("{}")},
		{SessionID: "b", ProfileID: 8, ProfileName: "Work", SubmittedAt: base.Add(2 * time.Minute), Payload: []byte("{}")},
	}
	for _, e := range entries {
		if _, err := c.RecordSubmission(ctx, e); err != nil {
			t.Fatalf("RecordSubmission: %v", err)
		}
	}

	all, err := c.ListSubmissions(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if len(all) != 3 || all[0].ProfileName != "Work" {
		t.Fatalf("all = %+v, want 3 newest first", all)
	}

	mine, err := c.ListSubmissions(ctx, 7, 1)
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("len = %d, want 1", len(mine))
	}
	if !mine[0].Succeeded() || !mine[0].ResetMode || mine[0].Accounts != 2 {
		t.Fatalf("latest = %+v", mine[0])
	}
	if !mine[0].SubmittedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("SubmittedAt = %v", mine[0].SubmittedAt)
	}
}
