// Package profile holds the active device profile: the output target
// record that determines raster width and where rendered bytes go.
package profile

import (
	"sync/atomic"
)

// Kind distinguishes a real printer target from a canvas (PNG) target.
type Kind int

const (
	KindPrinter Kind = iota
	KindCanvas
)

func (k Kind) String() string {
	if k == KindCanvas {
		return "canvas"
	}
	return "printer"
}

// Destination names where bytes or pixels ultimately land: a transport
// identifier for printer profiles, a file path template for canvas
// profiles.
type Destination struct {
	Serial    string // device path, e.g. /dev/ttyUSB0
	Bluetooth string // MAC address, e.g. AA:BB:CC:DD:EE:FF
	File      string // output path for canvas-kind profiles
}

// Profile is the spec's device-profile record: kind, name, width, an
// optional height cap, and a destination.
type Profile struct {
	Kind             Kind
	Name             string
	WidthDots        int
	OptionalHeightDots int // 0 means unbounded
	Destination      Destination
}

// Default203DPI576 is the 203 DPI / 576-dot printer profile the system
// targets out of the box.
var Default203DPI576 = Profile{
	Kind:      KindPrinter,
	Name:      "default",
	WidthDots: 576,
}

var active atomic.Pointer[Profile]

func init() {
	p := Default203DPI576
	active.Store(&p)
}

// Active returns the process-wide active profile.
func Active() Profile {
	return *active.Load()
}

// SetActive compare-and-swaps the active profile, retrying against
// concurrent writers until it wins. Readers of Active always observe a
// complete, consistent snapshot.
func SetActive(p Profile) {
	next := p
	for {
		old := active.Load()
		if active.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Store holds named, user-registered profiles in addition to the
// single process-wide active one, backing list_profiles/get/set by
// name.
type Store struct {
	byName atomic.Pointer[map[string]Profile]
}

// NewStore returns a Store seeded with the default profile.
func NewStore() *Store {
	s := &Store{}
	m := map[string]Profile{Default203DPI576.Name: Default203DPI576}
	s.byName.Store(&m)
	return s
}

// Register adds or replaces a named profile.
func (s *Store) Register(p Profile) {
	for {
		old := s.byName.Load()
		next := make(map[string]Profile, len(*old)+1)
		for k, v := range *old {
			next[k] = v
		}
		next[p.Name] = p
		if s.byName.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Get looks up a registered profile by name.
func (s *Store) Get(name string) (Profile, bool) {
	m := *s.byName.Load()
	p, ok := m[name]
	return p, ok
}

// List returns all registered profiles in no particular order.
func (s *Store) List() []Profile {
	m := *s.byName.Load()
	out := make([]Profile, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	return out
}
