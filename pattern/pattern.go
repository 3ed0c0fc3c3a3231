// Package pattern implements the generative pattern engine: named
// parametric generators that render directly to a grayscale raster
// buffer, plus a weaving helper that crossfades several of them along
// a strip's height.
package pattern

import "github.com/inkwell-labs/thermaldoc/raster"

// ParamKind enumerates the schema's field kinds.
type ParamKind int

const (
	KindSlider ParamKind = iota
	KindFloat
	KindInt
	KindSelect
	KindBool
)

// ParamSpec describes one tunable parameter a generator exposes.
type ParamSpec struct {
	Name        string
	Label       string
	Kind        ParamKind
	Min, Max    float64
	Step        float64
	Options     []string
	Description string
}

// Params is a generator's parameter bag, keyed by ParamSpec.Name. Values
// are always float64 or string (for KindSelect) or a bool-as-float64 0/1
// (for KindBool), matching JSON's natural numeric/string duality.
type Params map[string]interface{}

func (p Params) float(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

func (p Params) str(name, def string) string {
	if v, ok := p[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func (p Params) boolv(name string, def bool) bool {
	if v, ok := p[name]; ok {
		if f, ok := v.(float64); ok {
			return f != 0
		}
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Generator is a named, parametric image source.
type Generator interface {
	Name() string
	Schema() []ParamSpec
	Golden(seed int64) Params
	Randomize(seed int64) Params
	Render(width, height int, seed int64, p Params) (*raster.Buffer, error)
}

// Registry is a write-once-at-startup, read-only-thereafter lookup of
// generators by name.
type Registry struct {
	byName map[string]Generator
}

// NewRegistry builds a registry containing every built-in generator.
func NewRegistry() *Registry {
	gens := []Generator{
		rippleGen{}, wavesGen{}, plasmaGen{}, voronoiGen{}, flowFieldGen{},
		reactionDiffusionGen{}, crosshatchGen{}, stippleGen{}, cellularAutomatonGen{},
		strangeAttractorGen{}, moireGen{}, opArtGen{}, calibrationGen{},
	}
	r := &Registry{byName: make(map[string]Generator, len(gens))}
	for _, g := range gens {
		r.byName[g.Name()] = g
	}
	return r
}

// Get looks up a generator by name.
func (r *Registry) Get(name string) (Generator, bool) {
	g, ok := r.byName[name]
	return g, ok
}

// Names lists every registered generator name.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	return out
}
