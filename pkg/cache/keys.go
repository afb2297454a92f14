package cache

// LayoutKeyOpts are the inputs besides the scene that change a placement.
type LayoutKeyOpts struct {
	Width   float64 `json:"width"`
	Options string  `json:"options"`
}

// ArtifactKeyOpts are the inputs besides the placement that change an
// artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Guides bool   `json:"guides,omitempty"`
	Cols   int    `json:"cols,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a placement of the scene with hash sceneHash.
	LayoutKey(sceneHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies one rendering of the placement with hash
	// layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes every input into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(sceneHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sceneHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
