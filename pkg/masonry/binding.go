package masonry

import "sync"

// Binding ties a grid's life to a host component: Mount creates it, Update
// forwards changed options, Unmount tears it down. A disabled binding never
// creates a grid.
type Binding struct {
	mu       sync.Mutex
	disabled bool
	opts     Options
	gridOpts []GridOption
	grid     *Grid
}

// NewBinding returns an unmounted binding.
func NewBinding(opts Options, gridOpts ...GridOption) *Binding {
	return &Binding{opts: opts, gridOpts: gridOpts}
}

// Mount creates the grid on target, replacing any grid from an earlier Mount.
func (b *Binding) Mount(target any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disabled {
		return nil
	}
	if b.grid != nil {
		b.grid.Teardown()
		b.grid = nil
	}
	g, err := New(target, b.opts, b.gridOpts...)
	if err != nil {
		return err
	}
	b.grid = g
	return nil
}

// Update merges opts into the binding's options and applies them to the
// mounted grid, if any.
func (b *Binding) Update(opts Options) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opts = b.opts.Merge(opts)
	if b.grid == nil {
		return nil
	}
	return b.grid.Apply(opts)
}

// Unmount tears down the mounted grid.
func (b *Binding) Unmount() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.grid != nil {
		b.grid.Teardown()
		b.grid = nil
	}
}

// SetDisabled toggles the binding. Disabling unmounts the current grid;
// re-enabling waits for the next Mount.
func (b *Binding) SetDisabled(disabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disabled = disabled
	if disabled && b.grid != nil {
		b.grid.Teardown()
		b.grid = nil
	}
}

// Disabled reports whether the binding is disabled.
func (b *Binding) Disabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disabled
}

// Grid returns the mounted grid, or nil.
func (b *Binding) Grid() *Grid {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid
}
