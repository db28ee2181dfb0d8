package cache

// Key prefixes.
const (
	prefixLayout   = "layout"
	prefixTimeline = "timeline"
	prefixFrame    = "frame"
)

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey is the key of a layout of the graph with the given hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// TimelineKey is the key of a timeline resolved from the input with the
	// given hash.
	TimelineKey(inputHash string) string

	// FrameKey is the key of a rendered frame of the layout and timeline with
	// the given hashes.
	FrameKey(layoutHash, timelineHash string, opts FrameKeyOpts) string
}

// LayoutKeyOpts are the layout options that change a layout.
type LayoutKeyOpts struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Margin      float64 `json:"margin"`
	NodeSpacing float64 `json:"node_spacing"`
	RankSpacing float64 `json:"rank_spacing"`
	Mode        string  `json:"mode"`
	Engine      string  `json:"engine"`
	Strict      bool    `json:"strict"`
}

// FrameKeyOpts are the playback options that change a rendered frame.
type FrameKeyOpts struct {
	Frame     int     `json:"frame"`
	FPS       int     `json:"fps"`
	StaggerMs int64   `json:"stagger_ms"`
	Damping   float64 `json:"damping"`
	Mass      float64 `json:"mass"`
	Stiffness float64 `json:"stiffness"`
	Format    string  `json:"format"`
}

// DefaultKeyer hashes key parts with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey(prefixLayout, graphHash, opts)
}

func (k *DefaultKeyer) TimelineKey(inputHash string) string {
	return prefixTimeline + ":" + inputHash
}

func (k *DefaultKeyer) FrameKey(layoutHash, timelineHash string, opts FrameKeyOpts) string {
	return hashKey(prefixFrame, layoutHash, timelineHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
