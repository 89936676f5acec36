// Package asyncshared implements access-controlled shared ownership:
// a single heap-allocated value shared across goroutines, with lock
// acquisition and release folded into the lifetime of move-only
// pointer proxies.
//
// Access is governed by two independent axes. Creation mode: a value
// created through New() can be mutated through an ExclusivePointer,
// while a value created through NewImmutable() can never be; there is
// no API path that produces an exclusive pointer for it. Purity: a
// caller may assert, by choosing the NewPure()/NewPureImmutable()
// family, that the payload type hides no mutable state behind its
// read-only surface, which entitles readers to weaker locking
// (reader-side, or none at all). The assertion is never verified;
// asserting purity for a type with hidden mutable state silently
// reintroduces the race this package exists to prevent.
package asyncshared

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// cell holds the payload and its reader/writer lock. It is never
// visible to callers; requesters and pointer proxies share one cell.
type cell[T any] struct {
	mutex sync.RWMutex

	// holders counts live lock tokens, independently of the payload
	// lock itself. Two separate mechanisms; do not conflate them.
	holders atomic.Int64

	// 'value' is a *T as copying a pointer is cheaper than copying a
	// potentially large T when requesters are passed along the call
	// stack.
	value *T
}

func newCell[T any](value T) *cell[T] {
	// Prevent pointers during runtime; an aliased payload would be
	// reachable behind the lock's back.
	rvalue := reflect.ValueOf(value)
	if rvalue.Kind() == reflect.Ptr {
		panic("Invalid state: pointer payload was provided.")
	}

	return &cell[T]{value: &value}
}

// AccessRequester is a copyable capability token over a mutable
// value; copies of an AccessRequester always refer to the same value.
// It holds no lock itself: minting a pointer proxy is the only
// blocking operation, and it is safe from any number of goroutines.
type AccessRequester[T any] struct {
	cell  *cell[T]
	name  *string
	group *Group[T]
}

// New creates a mutable value and returns its AccessRequester;
// New *panics* if:
// 1: a pointer is provided as its value.
func New[T any](value T) AccessRequester[T] {
	return AccessRequester[T]{cell: newCell(value)}
}

// ExclusivePointer mints a proxy granting mutable access; it blocks
// until the write lock is held, and the lock is released when the
// proxy is.
func (this AccessRequester[T]) ExclusivePointer() *ExclusivePointer[T] {
	this.cell.mutex.Lock()
	this.cell.holders.Add(1)
	this.group.doAccess(this.name, ModeExclusive, false)

	return &ExclusivePointer[T]{cell: this.cell, name: this.name, group: this.group}
}

// SharedConstPointer mints a proxy granting read-only access. It
// blocks until the *write* lock is held: a read-only surface may
// still hide internal mutation, so two readers of a general type are
// mutually exclusive. Use the NewPure() family to opt out.
func (this AccessRequester[T]) SharedConstPointer() *SharedConstPointer[T] {
	this.cell.mutex.Lock()
	this.cell.holders.Add(1)
	this.group.doAccess(this.name, ModeSharedConst, false)

	return &SharedConstPointer[T]{cell: this.cell, name: this.name, group: this.group}
}

// Use mints an ExclusivePointer, passes the value to 'handler', and
// releases the lock on every exit path, a panic included.
func (this AccessRequester[T]) Use(handler func(*T)) {
	pointer := this.ExclusivePointer()
	defer pointer.Release()

	handler(pointer.cell.value)
}

// View passes a copy of the value to 'handler', under the same lock
// a SharedConstPointer would hold.
func (this AccessRequester[T]) View(handler func(T)) {
	pointer := this.SharedConstPointer()
	defer pointer.Release()

	handler(*pointer.cell.value)
}

// ImmutableAccessRequester is a copyable capability token over a
// value that was created immutable: no exclusive pointer to it can
// ever exist, for the lifetime of the program.
type ImmutableAccessRequester[T any] struct {
	cell *cell[T]
}

// NewImmutable creates an immutable value and returns its
// ImmutableAccessRequester;
// NewImmutable *panics* if:
// 1: a pointer is provided as its value.
func NewImmutable[T any](value T) ImmutableAccessRequester[T] {
	return ImmutableAccessRequester[T]{cell: newCell(value)}
}

// ImmutableConstPointer mints a read-only proxy. Even with no writers
// in the picture, a general type may mutate itself behind its
// read-only surface, so this still blocks on the write lock; see
// NewPureImmutable() for lock-free reads.
func (this ImmutableAccessRequester[T]) ImmutableConstPointer() *ImmutableConstPointer[T] {
	this.cell.mutex.Lock()
	this.cell.holders.Add(1)

	return &ImmutableConstPointer[T]{cell: this.cell}
}

// View passes a copy of the value to 'handler', under the same lock
// an ImmutableConstPointer would hold.
func (this ImmutableAccessRequester[T]) View(handler func(T)) {
	pointer := this.ImmutableConstPointer()
	defer pointer.Release()

	handler(*pointer.cell.value)
}
