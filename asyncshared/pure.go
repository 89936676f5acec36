package asyncshared

import (
	"github.com/go-faster/errors"
)

// The "pure" requester family trades safety checks for throughput.
// By choosing it, the caller asserts the payload type has no mutable
// state reachable through its read-only surface: no caches, no lazy
// fields, no interior locks. The package cannot verify this; a false
// assertion reintroduces the data race the general family guards
// against. The distinct factory names keep the assertion visible at
// every call site.

// PureAccessRequester is a copyable capability token over a mutable
// value whose type the caller asserts to be pure. Writers still take
// the write lock; readers only take the reader side, so any number of
// them may run concurrently.
type PureAccessRequester[T any] struct {
	cell  *cell[T]
	name  *string
	group *Group[T]
}

// NewPure creates a mutable value, asserted pure, and returns its
// PureAccessRequester;
// NewPure *panics* if:
// 1: a pointer is provided as its value.
func NewPure[T any](value T) PureAccessRequester[T] {
	return PureAccessRequester[T]{cell: newCell(value)}
}

// ExclusivePointer mints a proxy granting mutable access; purity
// says nothing about writers, so this blocks on the write lock
// exactly like the general family does.
func (this PureAccessRequester[T]) ExclusivePointer() *ExclusivePointer[T] {
	this.cell.mutex.Lock()
	this.cell.holders.Add(1)
	this.group.doAccess(this.name, ModeExclusive, false)

	return &ExclusivePointer[T]{cell: this.cell, name: this.name, group: this.group}
}

// PureSharedConstPointer mints a read-only proxy that blocks only on
// the reader side of the lock: concurrent with other readers,
// exclusive of any writer.
func (this PureAccessRequester[T]) PureSharedConstPointer() *PureSharedConstPointer[T] {
	this.cell.mutex.RLock()
	this.cell.holders.Add(1)
	this.group.doAccess(this.name, ModePureSharedConst, false)

	return &PureSharedConstPointer[T]{cell: this.cell, name: this.name, group: this.group}
}

// Use mints an ExclusivePointer, passes the value to 'handler', and
// releases the lock on every exit path, a panic included.
func (this PureAccessRequester[T]) Use(handler func(*T)) {
	pointer := this.ExclusivePointer()
	defer pointer.Release()

	handler(pointer.cell.value)
}

// View passes a copy of the value to 'handler', under the reader
// lock.
func (this PureAccessRequester[T]) View(handler func(T)) {
	pointer := this.PureSharedConstPointer()
	defer pointer.Release()

	handler(*pointer.cell.value)
}

// PureImmutableAccessRequester is a copyable capability token over a
// value that was created immutable and asserted pure. With no
// writers and no hidden mutation, reads need no synchronization at
// all.
type PureImmutableAccessRequester[T any] struct {
	cell *cell[T]
}

// NewPureImmutable creates an immutable value, asserted pure, and
// returns its PureImmutableAccessRequester;
// NewPureImmutable *panics* if:
// 1: a pointer is provided as its value.
func NewPureImmutable[T any](value T) PureImmutableAccessRequester[T] {
	return PureImmutableAccessRequester[T]{cell: newCell(value)}
}

// PureImmutableConstPointer mints a read-only proxy that takes no
// lock; it never blocks, regardless of how many proxies exist.
func (this PureImmutableAccessRequester[T]) PureImmutableConstPointer() *PureImmutableConstPointer[T] {
	return &PureImmutableConstPointer[T]{cell: this.cell}
}

// View passes a copy of the value to 'handler', with no lock taken.
func (this PureImmutableAccessRequester[T]) View(handler func(T)) {
	handler(*this.cell.value)
}

// PureSharedConstPointer grants read-only access to a pure value; it
// holds the reader side of the cell's lock, so it coexists with any
// number of other readers and excludes any writer.
type PureSharedConstPointer[T any] struct {
	cell  *cell[T]
	name  *string
	group *Group[T]
}

func (this *PureSharedConstPointer[T]) IsValid() bool {
	return this.cell != nil
}

// Value returns the guarded value, which must be treated as
// read-only;
// Value *panics* with ErrInvalidPointer if the proxy was released or
// moved away.
func (this *PureSharedConstPointer[T]) Value() *T {
	if !this.IsValid() {
		panic(ErrInvalidPointer)
	}
	return this.cell.value
}

// Get is the error-returning form of Value.
func (this *PureSharedConstPointer[T]) Get() (*T, error) {
	if !this.IsValid() {
		return nil, errors.Wrap(ErrInvalidPointer, "PureSharedConstPointer")
	}
	return this.cell.value, nil
}

// Release unlocks the cell and invalidates the proxy. Releasing an
// invalid proxy has no effect.
func (this *PureSharedConstPointer[T]) Release() {
	if this.cell == nil {
		return
	}

	cell := this.cell
	this.cell = nil
	this.group.doAccess(this.name, ModePureSharedConst, true)
	cell.holders.Add(-1)
	cell.mutex.RUnlock()
}

// Move transfers the lock token to a new proxy and invalidates this
// one.
func (this *PureSharedConstPointer[T]) Move() *PureSharedConstPointer[T] {
	moved := PureSharedConstPointer[T]{cell: this.cell, name: this.name, group: this.group}
	this.cell = nil
	return &moved
}

// PureImmutableConstPointer grants read-only access to a value that
// can never be written and is asserted pure: no lock is taken, so it
// never blocks and holds nothing that needs releasing. Release and
// Move exist for symmetry with the other proxies, and the moved-from
// or released proxy still reports invalid on dereference.
type PureImmutableConstPointer[T any] struct {
	cell *cell[T]
}

func (this *PureImmutableConstPointer[T]) IsValid() bool {
	return this.cell != nil
}

// Value returns the guarded value, which must be treated as
// read-only;
// Value *panics* with ErrInvalidPointer if the proxy was released or
// moved away.
func (this *PureImmutableConstPointer[T]) Value() *T {
	if !this.IsValid() {
		panic(ErrInvalidPointer)
	}
	return this.cell.value
}

// Get is the error-returning form of Value.
func (this *PureImmutableConstPointer[T]) Get() (*T, error) {
	if !this.IsValid() {
		return nil, errors.Wrap(ErrInvalidPointer, "PureImmutableConstPointer")
	}
	return this.cell.value, nil
}

// Release invalidates the proxy; there is no lock to undo.
func (this *PureImmutableConstPointer[T]) Release() {
	this.cell = nil
}

// Move transfers the cell reference to a new proxy and invalidates
// this one.
func (this *PureImmutableConstPointer[T]) Move() *PureImmutableConstPointer[T] {
	moved := PureImmutableConstPointer[T]{cell: this.cell}
	this.cell = nil
	return &moved
}
