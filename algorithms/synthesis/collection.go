package synthesis

import (
	"strings"

	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
)

// Collection is the ordered list of sinusoids making up a composite signal.
// Indices exposed to callers are 1-based, matching the order signals were
// added.
type Collection struct {
	signals []*Sine
}

// NewCollection creates a collection holding the given signals in order
func NewCollection(signals ...*Sine) *Collection {
	c := &Collection{}
	c.signals = append(c.signals, signals...)
	return c
}

// Len returns the number of signals
func (c *Collection) Len() int {
	return len(c.signals)
}

// Add validates s and appends it
func (c *Collection) Add(s *Sine) error {
	if s == nil {
		return common.NewValidationError("add signal", "signal is nil")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	c.signals = append(c.signals, s)
	return nil
}

// Get returns the signal at the 1-based index
func (c *Collection) Get(index int) (*Sine, error) {
	if err := c.checkIndex("get signal", index); err != nil {
		return nil, err
	}
	return c.signals[index-1], nil
}

// Update edits the signal at the 1-based index in place. On error the
// collection is unchanged.
func (c *Collection) Update(index int, amplitude, frequency, phase float64) error {
	if err := c.checkIndex("update signal", index); err != nil {
		return err
	}
	if err := validateSine(amplitude, frequency, phase); err != nil {
		return err
	}

	s := c.signals[index-1]
	s.Amplitude = amplitude
	s.Frequency = frequency
	s.Phase = phase
	return nil
}

// Delete removes the signal at the 1-based index
func (c *Collection) Delete(index int) error {
	if err := c.checkIndex("delete signal", index); err != nil {
		return err
	}
	c.signals = append(c.signals[:index-1], c.signals[index:]...)
	return nil
}

// Signals returns a copy of the ordered slice. The pointers are shared, so
// editing a returned signal edits the collection.
func (c *Collection) Signals() []*Sine {
	out := make([]*Sine, len(c.signals))
	copy(out, c.signals)
	return out
}

// Labels derives one formula label per signal, in order
func (c *Collection) Labels() []string {
	labels := make([]string, len(c.signals))
	for i, s := range c.signals {
		labels[i] = s.Label()
	}
	return labels
}

// Text joins the labels one per line
func (c *Collection) Text() string {
	return strings.Join(c.Labels(), "\n")
}

func (c *Collection) checkIndex(op string, index int) error {
	if index < 1 || index > len(c.signals) {
		return common.NewIndexError(op, "index %d out of range [1, %d]", index, len(c.signals))
	}
	return nil
}
