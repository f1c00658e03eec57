package core

// Theme maps presentation classes to styles.
type Theme struct {
	Base    Style
	Phantom Style
	Classes map[string]Style
}

// NewTheme creates a theme with default base styles. Phantom content is
// dimmed.
func NewTheme() *Theme {
	return &Theme{
		Base:    DefaultStyle(),
		Phantom: DefaultStyle().With(AttrDim),
		Classes: make(map[string]Style),
	}
}

// Set assigns the style of a class.
func (t *Theme) Set(class string, s Style) {
	t.Classes[class] = s
}

// Resolve merges the styles of classes, in order, over the base style.
// Phantom content also gets the phantom style. Unknown classes are ignored.
func (t *Theme) Resolve(classes []string, phantom bool) Style {
	s := t.Base
	if phantom {
		s = s.Merge(t.Phantom)
	}
	for _, c := range classes {
		if cs, ok := t.Classes[c]; ok {
			s = s.Merge(cs)
		}
	}
	return s
}
