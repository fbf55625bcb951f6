package tracker

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samuelfneumann/rlcore/timestep"
)

func episode(rewards ...float32) []timestep.Record[int64, int8] {
	out := []timestep.Record[int64, int8]{timestep.Init[int64, int8](0)}
	for i, r := range rewards {
		out = append(out, timestep.Log[int64, int8](int64(i+1), 1, r))
	}
	return out
}

func track(t Tracker[int64, int8], episodes ...[]timestep.Record[int64,
	int8]) {
	for _, ep := range episodes {
		for i, rec := range ep {
			t.Track(rec, i == len(ep)-1)
		}
	}
}

func TestReturn(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "returns.bin")

	r := NewReturn[int64, int8](0.5, filename)
	track(r, episode(1, 2, 4), episode(-2), episode(8, 8))

	// A started episode which does not finish is not saved
	r.Track(timestep.Init[int64, int8](0), false)
	r.Track(timestep.Log[int64, int8](1, 1, 100), false)

	want := []float64{3, -2, 12}
	if diff := cmp.Diff(want, r.Data()); diff != "" {
		t.Errorf("returns (-want +have):\n%s", diff)
	}

	if err := r.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadData[float64](filename)
	if err != nil {
		t.Fatalf("loadData: %v", err)
	}
	if diff := cmp.Diff(want, loaded); diff != "" {
		t.Errorf("loaded returns (-want +have):\n%s", diff)
	}
}

func TestEpisodeLength(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "lengths.bin")

	e := NewEpisodeLength[int64, int8](filename)
	track(e, episode(1, 2, 4), episode(), episode(0, 0))

	want := []int{3, 0, 2}
	if diff := cmp.Diff(want, e.Data()); diff != "" {
		t.Errorf("lengths (-want +have):\n%s", diff)
	}

	if err := e.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadData[int](filename)
	if err != nil {
		t.Fatalf("loadData: %v", err)
	}
	if diff := cmp.Diff(want, loaded); diff != "" {
		t.Errorf("loaded lengths (-want +have):\n%s", diff)
	}
}

func TestLoadDataMissing(t *testing.T) {
	if _, err := LoadData[float64](filepath.Join(t.TempDir(),
		"missing.bin")); err == nil {
		t.Error("loadData: want error for a missing file")
	}
}

func TestAverageReward(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "avg.bin")

	if _, err := NewAverageReward[int64, int8](0, 0, filename); err == nil {
		t.Error("newAverageReward: want error for zero learning rate")
	}

	a, err := NewAverageReward[int64, int8](0, 0.5, filename)
	if err != nil {
		t.Fatalf("newAverageReward: %v", err)
	}
	// 0 -> 2 -> 1, then 1 -> -0.5
	track(a, episode(4, 0), episode(-2))

	want := []float64{1, -0.5}
	if diff := cmp.Diff(want, a.Data()); diff != "" {
		t.Errorf("estimates (-want +have):\n%s", diff)
	}
	if a.Current() != -0.5 {
		t.Errorf("current: want -0.5, have %v", a.Current())
	}

	if err := a.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadData[float64](filename)
	if err != nil || !cmp.Equal(want, loaded) {
		t.Errorf("loaded estimates: want %v, have %v (%v)", want, loaded, err)
	}
}
