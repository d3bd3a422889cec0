// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import "github.com/cpmech/gosl/chk"

// Kind tags the fatal error kinds mesh ingest can raise.
type Kind int

const (
	EmptyElement Kind = iota
	DuplicateAdjacency
	OrphanFace
	PeriodicMismatch
)

func (k Kind) String() string {
	switch k {
	case EmptyElement:
		return "EmptyElement"
	case DuplicateAdjacency:
		return "DuplicateAdjacency"
	case OrphanFace:
		return "OrphanFace"
	case PeriodicMismatch:
		return "PeriodicMismatch"
	}
	return "UnknownMeshError"
}

// IngestError wraps a fatal mesh-ingest error with its kind; the caller
// decides whether to abort.
type IngestError struct {
	Kind Kind
	Err  error
}

func (e *IngestError) Error() string { return e.Err.Error() }
func (e *IngestError) Unwrap() error { return e.Err }

func newErr(k Kind, format string, args ...interface{}) error {
	return &IngestError{Kind: k, Err: chk.Err(format, args...)}
}
