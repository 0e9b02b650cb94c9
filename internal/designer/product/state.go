package product

import (
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/domain"
)

// Listener is notified after the attributes change so the base image filter can be reapplied.
type Listener func(attrs domain.ProductAttributes, filter Filter)

// State holds the current garment color and size.
// It is not safe for concurrent use; the owning designer serializes access.
type State struct {
	attrs     domain.ProductAttributes
	filter    Filter
	listeners []Listener
}

// NewState starts from the default white medium garment.
func NewState() *State {
	attrs := domain.DefaultProductAttributes()
	return &State{attrs: attrs, filter: FilterFor(attrs.Color)}
}

func (s *State) Attributes() domain.ProductAttributes { return s.attrs }

func (s *State) Filter() Filter { return s.filter }

// OnChange registers a listener for color and size changes.
func (s *State) OnChange(l Listener) {
	s.listeners = append(s.listeners, l)
}

// SetColor selects a garment color and recomputes the recolor filter.
func (s *State) SetColor(hex string) error {
	norm, err := NormalizeHex(hex)
	if err != nil {
		return err
	}
	s.attrs.Color = norm
	s.filter = FilterFor(norm)
	s.notify()
	return nil
}

// SetSize selects a garment size.
func (s *State) SetSize(size domain.Size) error {
	parsed, err := domain.ParseSize(string(size))
	if err != nil {
		return err
	}
	s.attrs.Size = parsed
	s.notify()
	return nil
}

// Replace swaps both attributes at once, validating before anything changes.
func (s *State) Replace(attrs domain.ProductAttributes) error {
	norm, err := NormalizeHex(attrs.Color)
	if err != nil {
		return err
	}
	size, err := domain.ParseSize(string(attrs.Size))
	if err != nil {
		return err
	}
	s.attrs = domain.ProductAttributes{Color: norm, Size: size}
	s.filter = FilterFor(norm)
	s.notify()
	return nil
}

func (s *State) notify() {
	for _, l := range s.listeners {
		l(s.attrs, s.filter)
	}
}
