// scoring/caps.go - Cap level classification
package scoring

// Band is one entry of a cap scheme: the minimum cumulative score that
// earns the cap, the display name, and the short tag used to match
// reason catalog entries (cap_type).
type Band struct {
	Min  int    `json:"min"`
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

// Scheme is an ascending boundary table. Bands[0].Min must be 0 so that
// every non-negative score maps to exactly one band. TopRange is the
// synthetic width of the top band, used only for progress display.
type Scheme struct {
	Bands    []Band
	TopRange int
}

// Cap is the classification result for a single score.
type Cap struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Top   bool   `json:"top"`
}

// DefaultScheme returns the production cap ladder.
func DefaultScheme() Scheme {
	return Scheme{
		Bands: []Band{
			{Min: 0, Name: "No Cap", Tag: "None"},
			{Min: 3000, Name: "Orange Cap", Tag: "Orange"},
			{Min: 6000, Name: "Green Cap", Tag: "Green"},
			{Min: 9000, Name: "Purple Cap", Tag: "Purple"},
			{Min: 12000, Name: "Black Cap", Tag: "Black"},
		},
		TopRange: 8000,
	}
}

// Classify maps a cumulative score to the highest band whose Min is not
// above it. Negative scores clamp to the lowest band.
func (s Scheme) Classify(score int) Cap {
	level := 0
	for i, b := range s.Bands {
		if score >= b.Min {
			level = i
		}
	}

	band := s.Bands[level]
	top := level == len(s.Bands)-1

	var max int
	if top {
		max = band.Min + s.TopRange
	} else {
		max = s.Bands[level+1].Min
	}

	return Cap{
		Level: level,
		Name:  band.Name,
		Min:   band.Min,
		Max:   max,
		Top:   top,
	}
}

// Progress reports how far into the cap the score sits, clamped to
// [0, 1]. The top cap always reports 1 since its Max is synthetic.
func (c Cap) Progress(score int) float64 {
	if c.Top {
		return 1
	}
	p := float64(score-c.Min) / float64(c.Max-c.Min)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Target returns the band a team with this score is currently chasing:
// the next band up, or the top band once it is reached. Reason catalog
// entries are filtered against the target's tag.
func (s Scheme) Target(score int) Band {
	level := s.Classify(score).Level
	if level+1 < len(s.Bands) {
		return s.Bands[level+1]
	}
	return s.Bands[len(s.Bands)-1]
}

// DefaultReasonTag is the cap_type assumed for catalog rows that omit
// one: the lowest earnable cap.
func (s Scheme) DefaultReasonTag() string {
	if len(s.Bands) > 1 {
		return s.Bands[1].Tag
	}
	return s.Bands[0].Tag
}
