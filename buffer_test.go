package kraken

import "testing"

func TestBuffer(t *testing.T) {
	t.Run("NewBuffer", func(t *testing.T) {
		b := NewBuffer(10, 5)
		if b.Width() != 10 || b.Height() != 5 {
			t.Fatalf("got %dx%d, want 10x5", b.Width(), b.Height())
		}
		for y := 0; y < b.Height(); y++ {
			for x := 0; x < b.Width(); x++ {
				if got := b.Get(x, y); got != DefaultCell {
					t.Fatalf("cell (%d,%d) = %+v, want DefaultCell", x, y, got)
				}
			}
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		b := NewBuffer(4, 4)
		if got := b.Get(-1, 0); got != DefaultCell {
			t.Errorf("Get(-1,0) = %+v, want DefaultCell", got)
		}
		if got := b.Get(4, 0); got != DefaultCell {
			t.Errorf("Get(4,0) = %+v, want DefaultCell", got)
		}
		b.Set(-1, -1, Cell{Ch: 'X'})
		b.Set(100, 100, Cell{Ch: 'X'})
	})

	t.Run("SetGet", func(t *testing.T) {
		b := NewBuffer(4, 4)
		c := Cell{Ch: 'X', FG: RGB(255, 0, 0)}
		b.Set(2, 2, c)
		if got := b.Get(2, 2); got != c {
			t.Errorf("got %+v, want %+v", got, c)
		}
	})

	t.Run("Resize", func(t *testing.T) {
		b := NewBuffer(4, 4)
		b.Set(1, 1, Cell{Ch: 'X'})
		b.Resize(8, 2)
		if b.Width() != 8 || b.Height() != 2 {
			t.Fatalf("got %dx%d, want 8x2", b.Width(), b.Height())
		}
		if got := b.Get(1, 1); got != DefaultCell {
			t.Errorf("resize should discard contents, got %+v", got)
		}
	})

	t.Run("DiffSameSize", func(t *testing.T) {
		a := NewBuffer(3, 1)
		b := NewBuffer(3, 1)
		b.Set(1, 0, Cell{Ch: 'Y'})

		updates := b.Diff(a)
		if len(updates) != 1 {
			t.Fatalf("got %d updates, want 1", len(updates))
		}
		if updates[0].X != 1 || updates[0].Y != 0 || updates[0].Cell.Ch != 'Y' {
			t.Errorf("got %+v", updates[0])
		}
	})

	t.Run("DiffNoChange", func(t *testing.T) {
		a := NewBuffer(3, 3)
		b := NewBuffer(3, 3)
		if updates := b.Diff(a); len(updates) != 0 {
			t.Errorf("got %d updates, want 0", len(updates))
		}
	})

	t.Run("DiffDifferentSize", func(t *testing.T) {
		a := NewBuffer(2, 2)
		b := NewBuffer(3, 3)
		updates := b.Diff(a)
		if len(updates) != 9 {
			t.Fatalf("got %d updates, want 9 (every cell considered changed)", len(updates))
		}
	})

	t.Run("DiffNilPrior", func(t *testing.T) {
		b := NewBuffer(2, 2)
		updates := b.Diff(nil)
		if len(updates) != 4 {
			t.Fatalf("got %d updates, want 4", len(updates))
		}
	})
}
