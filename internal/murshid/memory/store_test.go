package memory

import (
	"fmt"
	"sync"
	"testing"
)

func TestStore_LazyCreation(t *testing.T) {
	store := NewStore(DefaultStoreConfig())

	if snap := store.Snapshot("student-1"); snap != nil {
		t.Fatalf("expected nil snapshot before first message, got %+v", snap)
	}

	store.Append("student-1", RoleUser, "مرحبا")

	snap := store.Snapshot("student-1")
	if snap == nil {
		t.Fatal("expected conversation after first append")
	}
	if snap.ID == "" {
		t.Error("expected non-empty conversation ID")
	}
	if snap.UserID != "student-1" {
		t.Errorf("expected user ID %q, got %q", "student-1", snap.UserID)
	}
	if len(snap.Turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(snap.Turns))
	}
}

func TestStore_AppendExchange(t *testing.T) {
	store := NewStore(DefaultStoreConfig())
	store.AppendExchange("student-1", "ما معنى كتاب؟", "مؤلَّف مكتوب")

	turns := store.Recent("student-1", 10)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != RoleUser || turns[1].Role != RoleAssistant {
		t.Errorf("expected user then assistant, got %q then %q", turns[0].Role, turns[1].Role)
	}
}

func TestStore_RecentReturnsLatestWindow(t *testing.T) {
	store := NewStore(DefaultStoreConfig())
	for i := 0; i < 5; i++ {
		store.Append("student-1", RoleUser, fmt.Sprintf("msg-%d", i))
	}

	turns := store.Recent("student-1", 3)
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	if turns[0].Content != "msg-2" || turns[2].Content != "msg-4" {
		t.Errorf("expected window [msg-2..msg-4], got [%s..%s]", turns[0].Content, turns[2].Content)
	}
}

func TestStore_TurnBufferIsBounded(t *testing.T) {
	store := NewStore(StoreConfig{MaxTurns: 4})
	for i := 0; i < 10; i++ {
		store.Append("student-1", RoleUser, fmt.Sprintf("msg-%d", i))
	}

	snap := store.Snapshot("student-1")
	if len(snap.Turns) != 4 {
		t.Fatalf("expected buffer capped at 4 turns, got %d", len(snap.Turns))
	}
	if snap.Turns[0].Content != "msg-6" {
		t.Errorf("expected oldest surviving turn msg-6, got %s", snap.Turns[0].Content)
	}
}

func TestStore_PendingLifecycle(t *testing.T) {
	store := NewStore(DefaultStoreConfig())

	if _, ok := store.Pending("student-1"); ok {
		t.Fatal("expected no pending question initially")
	}

	store.SetPending("student-1", "الفاعل", "أعرب الجمل التالية...")

	p, ok := store.Pending("student-1")
	if !ok {
		t.Fatal("expected pending question after SetPending")
	}
	if p.Lesson != "الفاعل" {
		t.Errorf("expected lesson %q, got %q", "الفاعل", p.Lesson)
	}

	// Overwrite replaces the whole record.
	store.SetPending("student-1", "المفعول به", "حدد المفعول به...")
	p, _ = store.Pending("student-1")
	if p.Lesson != "المفعول به" || p.Question != "حدد المفعول به..." {
		t.Errorf("expected overwritten pending record, got %+v", p)
	}

	store.ClearPending("student-1")
	if _, ok := store.Pending("student-1"); ok {
		t.Fatal("expected pending cleared")
	}

	// Clearing when absent is a no-op.
	store.ClearPending("student-1")
	store.ClearPending("student-unknown")
}

func TestStore_PendingIsPerUser(t *testing.T) {
	store := NewStore(DefaultStoreConfig())
	store.SetPending("a", "الحال", "سؤال أ")
	store.SetPending("b", "التمييز", "سؤال ب")

	pa, _ := store.Pending("a")
	pb, _ := store.Pending("b")
	if pa.Lesson != "الحال" || pb.Lesson != "التمييز" {
		t.Errorf("pending records leaked across users: %+v / %+v", pa, pb)
	}
}

// Concurrent writers on the same user must never leave a pending record
// mixing fields from two requests.
func TestStore_ConcurrentPendingNeverMixed(t *testing.T) {
	store := NewStore(DefaultStoreConfig())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			lesson := fmt.Sprintf("lesson-%d", i)
			store.SetPending("student-1", lesson, "question for "+lesson)
		}()
		go func() {
			defer wg.Done()
			store.ClearPending("student-1")
		}()
	}
	wg.Wait()

	if p, ok := store.Pending("student-1"); ok {
		want := "question for " + p.Lesson
		if p.Question != want {
			t.Fatalf("mixed pending record: lesson %q with question %q", p.Lesson, p.Question)
		}
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	store := NewStore(DefaultStoreConfig())
	store.Append("student-1", RoleUser, "أصل")
	store.SetPending("student-1", "النعت", "سؤال")

	snap := store.Snapshot("student-1")
	snap.Turns[0].Content = "معدل"
	snap.Pending.Lesson = "معدل"

	fresh := store.Snapshot("student-1")
	if fresh.Turns[0].Content != "أصل" {
		t.Error("mutating a snapshot changed stored turns")
	}
	if fresh.Pending.Lesson != "النعت" {
		t.Error("mutating a snapshot changed the stored pending record")
	}
}
