package shape

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/blobgeom/pkg/errors"
)

func TestArenaAddAssignsIDs(t *testing.T) {
	a, err := NewArena(
		Shape{Center: r2.Vec{X: 0, Y: 0}, Radius: 10},
		Shape{ID: 5, Center: r2.Vec{X: 30, Y: 0}, Radius: 10},
		Shape{Center: r2.Vec{X: 60, Y: 0}, Radius: 10},
	)
	if err != nil {
		t.Fatal(err)
	}

	var ids []ID
	for _, s := range a.Shapes() {
		ids = append(ids, s.ID)
	}
	want := []ID{1, 5, 6}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

func TestArenaRejects(t *testing.T) {
	a, _ := NewArena()
	if _, err := a.Add(Shape{ID: 1, Radius: 5}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		s    Shape
		code errors.Code
	}{
		{"duplicate id", Shape{ID: 1, Radius: 5}, errors.ErrCodeInvalidShape},
		{"zero radius", Shape{ID: 2, Radius: 0}, errors.ErrCodeInvalidShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Add(tt.s)
			if !errors.Is(err, tt.code) {
				t.Errorf("Add() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestArenaMutations(t *testing.T) {
	a, _ := NewArena(
		Shape{ID: 1, Radius: 5},
		Shape{ID: 2, Radius: 5},
		Shape{ID: 3, Radius: 5},
	)

	if err := a.Move(2, r2.Vec{X: 7, Y: 8}); err != nil {
		t.Fatal(err)
	}
	if err := a.Resize(3, 9); err != nil {
		t.Fatal(err)
	}
	if err := a.Resize(3, -1); err == nil {
		t.Error("negative radius accepted")
	}
	if err := a.Remove(1); err != nil {
		t.Fatal(err)
	}
	if err := a.Remove(1); !errors.Is(err, errors.ErrCodeShapeNotFound) {
		t.Errorf("second Remove() error = %v", err)
	}

	s, ok := a.Get(2)
	if !ok || s.Center != (r2.Vec{X: 7, Y: 8}) {
		t.Errorf("Get(2) = %v, %v", s, ok)
	}
	s, ok = a.Get(3)
	if !ok || s.Radius != 9 {
		t.Errorf("Get(3) = %v, %v", s, ok)
	}
	if a.Len() != 2 || a.Shapes()[0].ID != 2 {
		t.Errorf("order after remove = %v", a.Shapes())
	}
}

func TestSnapshotIsolation(t *testing.T) {
	a, _ := NewArena(Shape{ID: 1, Radius: 5})
	before := a.Snapshot()
	if !before.Equal(a.Snapshot()) {
		t.Fatal("identical snapshots not equal")
	}
	_ = a.Resize(1, 6)
	if before.Equal(a.Snapshot()) {
		t.Error("snapshot changed with arena")
	}
	if before[0].Radius != 5 {
		t.Errorf("snapshot radius = %v, want 5", before[0].Radius)
	}
}
