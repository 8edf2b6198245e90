// Package widgets holds the state of the two toy widgets: a counter and a
// background color switcher.
package widgets

import (
	"errors"
	"fmt"
)

// ErrUnknownColor is returned by ColorSwitcher.Set for names outside Colors.
var ErrUnknownColor = errors.New("widgets: unknown color")

// Counter is an unbounded integer counter. Its zero value starts at 0.
type Counter struct {
	Value int
}

// Increment adds one.
func (c *Counter) Increment() {
	c.Value++
}

// Decrement subtracts one. The counter may go negative.
func (c *Counter) Decrement() {
	c.Value--
}

// Color is a named background color.
type Color struct {
	Name  string // identifier, e.g. "lightblue"
	Label string // button text
	Hex   string
}

// Colors are the switcher's options, in button order.
var Colors = []Color{
	{Name: "white", Label: "White", Hex: "#FFFFFF"},
	{Name: "lightblue", Label: "Light Blue", Hex: "#ADD8E6"},
	{Name: "lightgreen", Label: "Light Green", Hex: "#90EE90"},
}

// ColorSwitcher tracks the selected background color. Its zero value is white.
type ColorSwitcher struct {
	idx int
}

// Current returns the selected color.
func (s *ColorSwitcher) Current() Color {
	return Colors[s.idx]
}

// Set selects the color with the given name.
func (s *ColorSwitcher) Set(name string) error {
	for i, c := range Colors {
		if c.Name == name {
			s.idx = i
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownColor, name)
}

// SetIndex selects Colors[i].
func (s *ColorSwitcher) SetIndex(i int) error {
	if i < 0 || i >= len(Colors) {
		return fmt.Errorf("%w: index %d", ErrUnknownColor, i)
	}
	s.idx = i
	return nil
}

// Next cycles to the following color.
func (s *ColorSwitcher) Next() Color {
	s.idx = (s.idx + 1) % len(Colors)
	return Colors[s.idx]
}
