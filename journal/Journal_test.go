package journal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type entry struct {
	State  [2]int32
	Reward float32
	Ok     bool
}

func newJournal(t *testing.T, records int) *Journal[entry] {
	t.Helper()
	j, err := New[entry](13 * records)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return j
}

func TestNew(t *testing.T) {
	j := newJournal(t, 4)
	if j.RecordSize() != 13 {
		t.Errorf("record size: want 13, have %d", j.RecordSize())
	}
	if j.Cap() != 4 {
		t.Errorf("cap: want 4, have %d", j.Cap())
	}
	if !j.Empty() || j.Len() != 0 {
		t.Errorf("new journal should be empty, have %d records", j.Len())
	}

	// Partial slots are not usable
	j, err := New[entry](13*4 + 12)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if j.Cap() != 4 {
		t.Errorf("cap: want 4, have %d", j.Cap())
	}

	if _, err := New[entry](12); !IsMisaligned(err) {
		t.Errorf("new: want misaligned error for tiny arena, have %v", err)
	}
	if _, err := New[[]int32](1024); !IsMisaligned(err) {
		t.Errorf("new: want misaligned error for variable-size type, "+
			"have %v", err)
	}
	if _, err := New[int](1024); !IsMisaligned(err) {
		t.Errorf("new: want misaligned error for int, have %v", err)
	}
}

func TestWriteRead(t *testing.T) {
	j := newJournal(t, 8)

	if _, err := j.ReadLatest(); !IsNoData(err) {
		t.Errorf("readLatest: want no data error, have %v", err)
	}

	want := []entry{
		{State: [2]int32{0, 0}},
		{State: [2]int32{1, -1}, Reward: -1.5, Ok: true},
		{State: [2]int32{2, -2}, Reward: 3.25, Ok: true},
	}
	for i, e := range want {
		if err := j.Write(e, uint64(i)); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		latest, err := j.ReadLatest()
		if err != nil {
			t.Fatalf("readLatest: %v", err)
		}
		if diff := cmp.Diff(e, latest); diff != "" {
			t.Errorf("readLatest after write %d (-want +have):\n%s", i, diff)
		}
	}

	have, err := j.ReadAll()
	if err != nil {
		t.Fatalf("readAll: %v", err)
	}
	if diff := cmp.Diff(want, have); diff != "" {
		t.Errorf("readAll (-want +have):\n%s", diff)
	}
	if j.Next() != 3 || j.Base() != 0 {
		t.Errorf("indices: want [0, 3), have [%d, %d)", j.Base(), j.Next())
	}
}

func TestWriteMisaligned(t *testing.T) {
	j := newJournal(t, 8)
	for i := 0; i < 3; i++ {
		if err := j.Write(entry{Reward: float32(i)}, uint64(i)); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	t.Run("gap", func(t *testing.T) {
		if err := j.Write(entry{}, 5); !IsMisaligned(err) {
			t.Errorf("want misaligned error, have %v", err)
		}
	})

	t.Run("rewrite without option", func(t *testing.T) {
		if err := j.Write(entry{}, 1); !IsMisaligned(err) {
			t.Errorf("want misaligned error, have %v", err)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := j.Write(entry{Reward: 42}, 1, Overwrite()); err != nil {
			t.Fatalf("overwrite: %v", err)
		}
		all, err := j.ReadAll()
		if err != nil {
			t.Fatalf("readAll: %v", err)
		}
		if len(all) != 3 || all[1].Reward != 42 {
			t.Errorf("overwrite: want 3 records with reward 42 at 1, have %v",
				all)
		}
		latest, _ := j.ReadLatest()
		if latest.Reward != 2 {
			t.Errorf("overwrite should not change the latest record, "+
				"have %v", latest)
		}
	})

	t.Run("error carries index", func(t *testing.T) {
		err := j.Write(entry{}, 9)
		jErr, ok := err.(*Error)
		if !ok {
			t.Fatalf("want *Error, have %T", err)
		}
		if jErr.Op != "write" || jErr.Index != 9 {
			t.Errorf("want op write at index 9, have %v at %d", jErr.Op,
				jErr.Index)
		}
	})
}

func TestWriteFull(t *testing.T) {
	j := newJournal(t, 2)
	if err := j.Write(entry{}, 0); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := j.Write(entry{}, 1); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := j.Write(entry{}, 2); !IsFull(err) {
		t.Errorf("want full error, have %v", err)
	}
	if j.Len() != 2 {
		t.Errorf("failed write should not add a record, have %d", j.Len())
	}
}

func TestCleanup(t *testing.T) {
	j := newJournal(t, 4)
	for i := 0; i < 4; i++ {
		if err := j.Write(entry{Reward: float32(i)}, uint64(i)); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	drained, err := j.Cleanup()
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if len(drained) != 4 {
		t.Fatalf("cleanup: want 4 records, have %d", len(drained))
	}
	for i, e := range drained {
		if e.Reward != float32(i) {
			t.Errorf("cleanup: records out of order: %v", drained)
			break
		}
	}

	if !j.Empty() {
		t.Errorf("journal should be empty after cleanup")
	}
	if _, err := j.ReadLatest(); !IsNoData(err) {
		t.Errorf("readLatest after cleanup: want no data, have %v", err)
	}
	all, err := j.ReadAll()
	if err != nil || len(all) != 0 {
		t.Errorf("readAll after cleanup: want no records, have %v (%v)",
			all, err)
	}

	// Indices below the last drained index are rejected, the last
	// drained index and anything above it start a new run
	if err := j.Write(entry{}, 2); !IsMisaligned(err) {
		t.Errorf("write below floor: want misaligned, have %v", err)
	}
	if err := j.Write(entry{Reward: 10}, 3); err != nil {
		t.Fatalf("write at floor: %v", err)
	}
	if j.Base() != 3 || j.Next() != 4 {
		t.Errorf("indices: want [3, 4), have [%d, %d)", j.Base(), j.Next())
	}

	// Full capacity is available again
	for i := 4; i < 7; i++ {
		if err := j.Write(entry{}, uint64(i)); err != nil {
			t.Fatalf("write %d after cleanup: %v", i, err)
		}
	}
	if err := j.Write(entry{}, 7); !IsFull(err) {
		t.Errorf("want full error, have %v", err)
	}

	// Draining an empty journal returns nothing
	if _, err := j.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	drained, err = j.Cleanup()
	if err != nil || len(drained) != 0 {
		t.Errorf("cleanup of empty journal: want no records, have %v (%v)",
			drained, err)
	}
}

func BenchmarkWrite(b *testing.B) {
	j, err := New[entry](13 * 512)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		if j.Len() == j.Cap() {
			j.Cleanup()
		}
		j.Write(entry{Reward: 1}, j.Next())
	}
}
