package assets

// Set chains an optional override directory in front of the built-in
// assets. Only a missing asset falls through to the next loader; invalid
// names and read errors are returned as is.
type Set struct {
	loaders []Loader
}

// NewSet returns a Set over the built-in assets, preceded by overrideDir
// when it is not empty.
func NewSet(overrideDir string) (*Set, error) {
	s := &Set{}
	if overrideDir != "" {
		dir, err := NewDir(overrideDir)
		if err != nil {
			return nil, err
		}
		s.loaders = append(s.loaders, dir)
	}
	s.loaders = append(s.loaders, Embedded())
	return s, nil
}

// Load returns the first loader's copy of the asset.
func (s *Set) Load(kind Kind, name string) (string, error) {
	var err error
	for _, l := range s.loaders {
		var content string
		content, err = l.Load(kind, name)
		if err == nil || !isNotFound(err) {
			return content, err
		}
	}
	return "", err
}

var (
	_ Loader = (*Set)(nil)
	_ Loader = (*Dir)(nil)
	_ Loader = embedded{}
)
