// Package iokit looks up IORegistry services and reads their properties.
//
// A Registry hands out Service handles that must be released when no longer
// needed. Property values come back untyped; the Read helpers in this package
// convert them to the single type each caller expects and report anything
// else as a *TypeMismatchError.
package iokit

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no service matches a lookup.
	ErrNotFound = errors.New("no matching IOService")
	// ErrReleased is returned when a service handle is used after release.
	ErrReleased = errors.New("IOService handle already released")
)

// Matching selects services either by registry entry name or by class name.
type Matching struct {
	Name  string
	Class string
}

// NameMatching matches services whose registry entry name equals name.
func NameMatching(name string) Matching {
	return Matching{Name: name}
}

// ClassMatching matches services that are instances of class.
func ClassMatching(class string) Matching {
	return Matching{Class: class}
}

func (m Matching) String() string {
	if m.Class != "" {
		return fmt.Sprintf("class %q", m.Class)
	}
	return fmt.Sprintf("name %q", m.Name)
}

// Service is an opaque reference to a matched registry entry.
type Service struct {
	ID       uint64
	Matching Matching
}

// Registry is the OS service lookup and property fetch capability.
type Registry interface {
	// MatchService returns the first service matching m, or ErrNotFound.
	MatchService(ctx context.Context, m Matching) (Service, error)
	// Property fetches key from svc. The bool is false when the property is absent.
	Property(ctx context.Context, svc Service, key string) (any, bool, error)
	// Release drops the reference taken by MatchService.
	Release(svc Service) error
}
