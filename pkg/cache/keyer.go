package cache

// Keyer derives cache keys.
type Keyer interface {
	// DatasetKey keys a dataset loaded from a named source such as a file
	// path or a Mongo collection.
	DatasetKey(source string, version string) string

	// ModelKey keys a built model by the hash of its records.
	ModelKey(dataHash string, opts ModelKeyOpts) string

	// ArtifactKey keys rendered output of a model.
	ArtifactKey(modelHash string, opts ArtifactKeyOpts) string
}

// ModelKeyOpts holds the build inputs other than the records.
type ModelKeyOpts struct {
	Dimensions []string `json:"dimensions"`
	ConfigHash string   `json:"config_hash"`
}

// ArtifactKeyOpts holds the render inputs.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Tension float64 `json:"tension"`
	Variant string  `json:"variant,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DatasetKey returns "dataset:<hash>".
func (DefaultKeyer) DatasetKey(source, version string) string {
	return hashKey("dataset", source, version)
}

// ModelKey returns "model:<hash>". Dimension order is significant.
func (DefaultKeyer) ModelKey(dataHash string, opts ModelKeyOpts) string {
	return hashKey("model", dataHash, opts)
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(modelHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, modelHash, opts)
}

var _ Keyer = DefaultKeyer{}
