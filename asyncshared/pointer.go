package asyncshared

import (
	"github.com/go-faster/errors"
)

// The pointer proxies below are move-only lock tokens: each one
// embodies exactly one lock acquisition on its cell, performed when
// the proxy was minted and undone by Release(). A proxy must not be
// copied after first use; Move() is the only way to transfer the
// token, and it invalidates the source. Dereferencing an invalid
// proxy is reported immediately, never undefined access.

// ExclusivePointer grants mutable access; it holds the cell's write
// lock for as long as it is valid.
type ExclusivePointer[T any] struct {
	cell  *cell[T]
	name  *string
	group *Group[T]
}

// IsValid returns false once the proxy's lock token has been moved
// away or released.
func (this *ExclusivePointer[T]) IsValid() bool {
	return this.cell != nil
}

// Value returns the guarded value;
// Value *panics* with ErrInvalidPointer if:
// 1: the proxy was released;
// 2: the proxy was moved away.
func (this *ExclusivePointer[T]) Value() *T {
	if !this.IsValid() {
		panic(ErrInvalidPointer)
	}
	return this.cell.value
}

// Get is the error-returning form of Value.
func (this *ExclusivePointer[T]) Get() (*T, error) {
	if !this.IsValid() {
		return nil, errors.Wrap(ErrInvalidPointer, "ExclusivePointer")
	}
	return this.cell.value, nil
}

// Release unlocks the cell and invalidates the proxy. Releasing an
// invalid proxy has no effect.
func (this *ExclusivePointer[T]) Release() {
	if this.cell == nil {
		return
	}

	cell := this.cell
	this.cell = nil
	// The release event fires before the unlock, so a group observer
	// never sees the next holder's mint first.
	this.group.doAccess(this.name, ModeExclusive, true)
	cell.holders.Add(-1)
	cell.mutex.Unlock()
}

// Move transfers the lock token to a new proxy and invalidates this
// one; the lock itself stays held throughout.
func (this *ExclusivePointer[T]) Move() *ExclusivePointer[T] {
	moved := ExclusivePointer[T]{cell: this.cell, name: this.name, group: this.group}
	this.cell = nil
	return &moved
}

// SharedConstPointer grants read-only access to a mutable value of
// general purity. It holds the cell's *write* lock: the conservative
// default for a type that may hide mutation behind its read-only
// surface. The value must not be mutated through it.
type SharedConstPointer[T any] struct {
	cell  *cell[T]
	name  *string
	group *Group[T]
}

func (this *SharedConstPointer[T]) IsValid() bool {
	return this.cell != nil
}

// Value returns the guarded value, which must be treated as
// read-only;
// Value *panics* with ErrInvalidPointer if the proxy was released or
// moved away.
func (this *SharedConstPointer[T]) Value() *T {
	if !this.IsValid() {
		panic(ErrInvalidPointer)
	}
	return this.cell.value
}

// Get is the error-returning form of Value.
func (this *SharedConstPointer[T]) Get() (*T, error) {
	if !this.IsValid() {
		return nil, errors.Wrap(ErrInvalidPointer, "SharedConstPointer")
	}
	return this.cell.value, nil
}

// Release unlocks the cell and invalidates the proxy. Releasing an
// invalid proxy has no effect.
func (this *SharedConstPointer[T]) Release() {
	if this.cell == nil {
		return
	}

	cell := this.cell
	this.cell = nil
	this.group.doAccess(this.name, ModeSharedConst, true)
	cell.holders.Add(-1)
	cell.mutex.Unlock()
}

// Move transfers the lock token to a new proxy and invalidates this
// one.
func (this *SharedConstPointer[T]) Move() *SharedConstPointer[T] {
	moved := SharedConstPointer[T]{cell: this.cell, name: this.name, group: this.group}
	this.cell = nil
	return &moved
}

// ImmutableConstPointer grants read-only access to a value created
// through NewImmutable. No writer can exist for the cell, but the
// type's own read-only surface is still distrusted, so the proxy
// holds the write lock like a SharedConstPointer does.
type ImmutableConstPointer[T any] struct {
	cell *cell[T]
}

func (this *ImmutableConstPointer[T]) IsValid() bool {
	return this.cell != nil
}

// Value returns the guarded value, which must be treated as
// read-only;
// Value *panics* with ErrInvalidPointer if the proxy was released or
// moved away.
func (this *ImmutableConstPointer[T]) Value() *T {
	if !this.IsValid() {
		panic(ErrInvalidPointer)
	}
	return this.cell.value
}

// Get is the error-returning form of Value.
func (this *ImmutableConstPointer[T]) Get() (*T, error) {
	if !this.IsValid() {
		return nil, errors.Wrap(ErrInvalidPointer, "ImmutableConstPointer")
	}
	return this.cell.value, nil
}

// Release unlocks the cell and invalidates the proxy. Releasing an
// invalid proxy has no effect.
func (this *ImmutableConstPointer[T]) Release() {
	if this.cell == nil {
		return
	}

	cell := this.cell
	this.cell = nil
	cell.holders.Add(-1)
	cell.mutex.Unlock()
}

// Move transfers the lock token to a new proxy and invalidates this
// one.
func (this *ImmutableConstPointer[T]) Move() *ImmutableConstPointer[T] {
	moved := ImmutableConstPointer[T]{cell: this.cell}
	this.cell = nil
	return &moved
}
