package masonry

import (
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/matzehuels/masonry/pkg/errors"
)

func TestBindingLifecycle(t *testing.T) {
	doc, container, children := gallery(1100, 100, 100, 100, 100, 100)
	b := NewBinding(Options{}, WithClock(clockwork.NewFakeClock()), WithStrict(true))

	if err := b.Mount(container); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	first := b.Grid()
	if first == nil || !first.Active() {
		t.Fatal("Mount should create an active grid")
	}

	if err := b.Update(Options{Gutter: Px(20)}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := style(t, children[0], "width"); got != "260px" {
		t.Errorf("width after Update = %q, want 260px", got)
	}

	if err := b.Mount(container); err != nil {
		t.Fatalf("second Mount() error = %v", err)
	}
	if first.Active() {
		t.Error("remounting should tear down the previous grid")
	}
	if got := b.Grid().Snapshot().Config.GutterX; got != 20 {
		t.Errorf("remounted GutterX = %v, want options carried over", got)
	}
	if n := doc.Window().Listeners(); n != 1 {
		t.Errorf("Listeners = %d, want 1", n)
	}

	b.Unmount()
	if b.Grid() != nil {
		t.Error("Unmount should drop the grid")
	}
	if len(children[0].InlineStyle()) != 0 {
		t.Errorf("styles left after Unmount: %v", children[0].InlineStyle())
	}
	b.Unmount()
}

func TestBindingDisabled(t *testing.T) {
	_, container, children := gallery(1100, 100)
	b := NewBinding(Options{}, WithClock(clockwork.NewFakeClock()))

	if err := b.Mount(container); err != nil {
		t.Fatal(err)
	}
	b.SetDisabled(true)
	if !b.Disabled() || b.Grid() != nil {
		t.Fatal("disabling should unmount")
	}
	if len(children[0].InlineStyle()) != 0 {
		t.Error("disabling should restore styles")
	}

	if err := b.Mount(container); err != nil {
		t.Fatal(err)
	}
	if b.Grid() != nil {
		t.Error("a disabled binding should not mount")
	}

	b.SetDisabled(false)
	if err := b.Mount(container); err != nil {
		t.Fatal(err)
	}
	if b.Grid() == nil {
		t.Error("re-enabled binding should mount")
	}
	b.Unmount()
}

func TestBindingDisableDuringUpdates(t *testing.T) {
	_, container, children := gallery(1100, 100, 100, 100)
	b := NewBinding(Options{}, WithClock(clockwork.NewFakeClock()))
	if err := b.Mount(container); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				_ = b.Update(Options{Gutter: Px(float64(i + j))})
			}
		}()
	}
	b.SetDisabled(true)
	wg.Wait()

	if b.Grid() != nil {
		t.Fatal("updates should not revive a disabled binding")
	}
	for i, c := range children {
		if styles := c.InlineStyle(); len(styles) != 0 {
			t.Errorf("child %d styles after disable: %v", i, styles)
		}
	}
}

func TestBindingMountError(t *testing.T) {
	b := NewBinding(Options{}, WithStrict(true))
	if err := b.Mount("#nowhere"); !errors.Is(err, errors.ErrCodeInvalidTarget) {
		t.Fatalf("Mount() error = %v, want INVALID_TARGET", err)
	}
	if b.Grid() != nil {
		t.Error("failed Mount should leave no grid")
	}
	if err := b.Update(Options{Direction: RTL}); err != nil {
		t.Errorf("Update() before mount = %v", err)
	}
}
