package cache

// Keyer derives cache keys.
type Keyer interface {
	// ReportKey identifies the analysis report of a blueprint.
	ReportKey(blueprintHash string, opts ReportKeyOpts) string

	// ArtifactKey identifies a rendering of a report.
	ArtifactKey(reportHash string, opts ArtifactKeyOpts) string
}

// ReportKeyOpts holds every option that changes an analysis result.
type ReportKeyOpts struct {
	Catalog               string  `json:"catalog,omitempty"` // catalog file hash; empty for the embedded one
	InserterCapacityBonus int     `json:"inserter_capacity_bonus"`
	UnboundedRate         float64 `json:"unbounded_rate"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer hashes its inputs into "report:<sha256>" and
// "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReportKey implements [Keyer].
func (DefaultKeyer) ReportKey(blueprintHash string, opts ReportKeyOpts) string {
	return hashKey("report", blueprintHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(reportHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", reportHash, opts)
}

var _ Keyer = DefaultKeyer{}
