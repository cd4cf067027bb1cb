package asset

// Status tracks the availability of one visual asset. Upstream generation
// failures arrive as Missing; the renderer downgrades Ready to Corrupt when
// decoding fails at render time.
type Status int

const (
	StatusReady Status = iota
	StatusMissing
	StatusCorrupt
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusMissing:
		return "missing"
	case StatusCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Asset is one visual unit of the slideshow.
type Asset struct {
	Index      int
	SourcePath string // пустой путь, если генерация не удалась
	CueText    string
	Status     Status
}

// Set is the ordered asset collection handed to the composition engine once
// every upstream generation attempt has resolved.
type Set struct {
	assets []Asset
}

func NewSet(assets []Asset) *Set {
	return &Set{assets: assets}
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.assets)
}

func (s *Set) At(i int) Asset {
	return s.assets[i]
}

// ReadyCount returns how many assets survived generation.
func (s *Set) ReadyCount() int {
	n := 0
	for _, a := range s.assets {
		if a.Status == StatusReady {
			n++
		}
	}
	return n
}

// MarkCorrupt downgrades an asset after a render-time decode failure.
// Status is the only mutable field of an Asset.
func (s *Set) MarkCorrupt(i int) {
	s.assets[i].Status = StatusCorrupt
}
