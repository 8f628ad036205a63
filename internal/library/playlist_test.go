package library_test

import (
	"errors"
	"reflect"
	"testing"

	"pocketaria/internal/library"
)

func newPlaylistWith(ids ...string) *library.Playlist {
	pl := library.NewPlaylist("Recital")
	for _, id := range ids {
		pl.Append(id)
	}
	return pl
}

func TestMoveRenumbersEveryItem(t *testing.T) {
	pl := newPlaylistWith("a", "b", "c", "d")

	if err := pl.Move(2, 0); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if got, want := pl.ProjectIDs(), []string{"c", "a", "b", "d"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: got %v want %v", got, want)
	}
	seen := map[int]bool{}
	for i, item := range pl.Items {
		if item.Order != i {
			t.Fatalf("item %d has order %d", i, item.Order)
		}
		if seen[item.Order] {
			t.Fatalf("duplicate order %d", item.Order)
		}
		seen[item.Order] = true
	}
	if err := pl.Validate(); err != nil {
		t.Fatalf("Validate failed after move: %v", err)
	}
}

func TestMoveCases(t *testing.T) {
	cases := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 3, []string{"b", "c", "d", "a"}},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}},
		{"noop", 1, 1, []string{"a", "b", "c", "d"}},
		{"adjacent", 1, 2, []string{"a", "c", "b", "d"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pl := newPlaylistWith("a", "b", "c", "d")
			if err := pl.Move(tc.from, tc.to); err != nil {
				t.Fatalf("Move failed: %v", err)
			}
			if got := pl.ProjectIDs(); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
			if err := pl.Validate(); err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
		})
	}
}

func TestMoveRejectsOutOfRange(t *testing.T) {
	pl := newPlaylistWith("a", "b")
	if err := pl.Move(0, 2); !errors.Is(err, library.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := pl.Move(-1, 0); !errors.Is(err, library.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestRemoveAndRemoveProject(t *testing.T) {
	pl := newPlaylistWith("a", "b", "a", "c")
	if err := pl.Remove(1); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if got := pl.ProjectIDs(); !reflect.DeepEqual(got, []string{"a", "a", "c"}) {
		t.Fatalf("unexpected ids after remove: %v", got)
	}
	if removed := pl.RemoveProject("a"); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if got := pl.ProjectIDs(); !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("unexpected ids: %v", got)
	}
	if pl.Items[0].Order != 0 {
		t.Fatalf("expected renumbered order, got %d", pl.Items[0].Order)
	}
}

func TestSetPauseBounds(t *testing.T) {
	pl := library.NewPlaylist("Warmups")
	if pl.PauseBetweenItems != library.DefaultPauseSeconds {
		t.Fatalf("unexpected default pause %d", pl.PauseBetweenItems)
	}
	for _, ok := range []int{0, 15, 30} {
		if err := pl.SetPause(ok); err != nil {
			t.Fatalf("SetPause(%d) failed: %v", ok, err)
		}
	}
	for _, bad := range []int{-1, 31} {
		if err := pl.SetPause(bad); !errors.Is(err, library.ErrPauseOutOfRange) {
			t.Fatalf("SetPause(%d): expected ErrPauseOutOfRange, got %v", bad, err)
		}
	}
}

func TestNormalizeSortsByStoredOrder(t *testing.T) {
	pl := &library.Playlist{
		ID: "p",
		Items: []library.PlaylistItem{
			{ProjectID: "c", Order: 7},
			{ProjectID: "a", Order: 1},
			{ProjectID: "b", Order: 3},
		},
	}
	if err := pl.Validate(); err == nil {
		t.Fatal("expected Validate to reject sparse order")
	}
	pl.Normalize()
	if got := pl.ProjectIDs(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected order: %v", got)
	}
	if err := pl.Validate(); err != nil {
		t.Fatalf("Validate failed after Normalize: %v", err)
	}
}
