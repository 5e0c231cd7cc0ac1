// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package meshsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Errors returned by Simulation methods.
//
var (
	ErrNoMesh       = errors.New("no design installed")
	ErrRunning      = errors.New("simulation already running")
	ErrNotRunning   = errors.New("simulation not running")
	ErrNotPaused    = errors.New("simulation not paused")
	ErrUnknownPin   = errors.New("unknown pin")
	ErrNotFreeNode  = errors.New("node is driven by a chip output")
	ErrClosed       = errors.New("simulation closed")
	ErrInvalidSteps = errors.New("step count must be at least 1")
)

// A StructuralError is returned when a composite template contains an instance
// of itself, directly or through other composite templates.
//
type StructuralError struct {
	// Chain lists the template names forming the cycle. The first and last
	// names are the same.
	Chain []string
}

func (e *StructuralError) Error() string {
	return "cyclic template containment: " + strings.Join(e.Chain, " -> ")
}

// A ValidationError reports an invalid template or design: unknown pin
// references, duplicate names or logic arity mismatches.
//
type ValidationError struct {
	Design string // template or design name
	Chip   string // chip instance name, if any
	Pin    string // pin name, if any
	Reason string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Design != "" {
		b.WriteString(e.Design)
		b.WriteString(": ")
	}
	switch {
	case e.Chip != "" && e.Pin != "":
		b.WriteString(e.Chip + "." + e.Pin + ": ")
	case e.Chip != "":
		b.WriteString(e.Chip + ": ")
	case e.Pin != "":
		b.WriteString(e.Pin + ": ")
	}
	b.WriteString(e.Reason)
	return b.String()
}

// A MultiDriverError is returned when a node is driven by more than one leaf
// chip output.
//
type MultiDriverError struct {
	Node    NodeID
	Pins    []string // pin paths of the node
	Drivers []string // output pin paths of the contending chips
}

func (e *MultiDriverError) Error() string {
	return "node " + strconv.Itoa(int(e.Node)) + " (" + strings.Join(e.Pins, ", ") +
		") driven by multiple outputs: " + strings.Join(e.Drivers, ", ")
}
