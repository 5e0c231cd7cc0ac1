// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

import (
	"github.com/db47h/meshsim/internal/hdl"
)

// Inputs is a list of input pin names.
//
type Inputs []string

// Outputs is a list of output pin names.
//
type Outputs []string

// In parses a pin declaration string and returns the individual input pin
// names, expanding bus declarations. For example:
//
//	In("a, b, bus[2]") // returns Inputs{"a", "b", "bus[0]", "bus[1]"}
//
// In panics if the declaration string is invalid. Use ParseIO to get an error
// instead.
//
func In(spec string) Inputs {
	names, err := ParseIO(spec)
	if err != nil {
		panic(err)
	}
	return Inputs(names)
}

// Out works like In for output pins.
//
func Out(spec string) Outputs {
	names, err := ParseIO(spec)
	if err != nil {
		panic(err)
	}
	return Outputs(names)
}

// ParseIO parses a pin declaration string and returns individual pin names in
// a slice, also expanding bus declarations to individual pin names.
//
func ParseIO(spec string) ([]string, error) {
	return hdl.ParseIO(spec)
}

// BusPinName returns the pin name for the n-th bit of the given bus.
//
func BusPinName(bus string, n int) string {
	return hdl.BusPinName(bus, n)
}
