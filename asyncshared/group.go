package asyncshared

import (
	"github.com/sirupsen/logrus"
)

// AccessMode identifies the lock mode a pointer proxy was minted
// with.
type AccessMode int

const (
	ModeExclusive AccessMode = iota
	ModeSharedConst
	ModePureSharedConst
)

func (mode AccessMode) String() string {
	switch mode {
	case ModeExclusive:
		return "exclusive"
	case ModeSharedConst:
		return "shared-const"
	case ModePureSharedConst:
		return "pure-shared-const"
	default:
		return "unknown"
	}
}

// AccessEvent represents the information associated with a mint or
// release within a Group; It includes the group name, the requester
// name, the lock mode, and whether the event is a release.
type AccessEvent struct {
	GroupName string
	Name      string
	Mode      AccessMode
	Released  bool
}

// Group represents a collection of requesters that are associated and
// can be observed together; It allows the creation of named
// requesters within the group, and provides a mechanism to set a
// callback function to be invoked on every mint and release within
// the group. Set the callback before sharing the group's requesters
// across goroutines.
type Group[T any] struct {
	name     string
	onAccess func(AccessEvent)
}

func NewGroup[T any](name string) *Group[T] {
	return &Group[T]{
		name: name,
	}
}

func (this *Group[T]) New(name string, value T) AccessRequester[T] {
	requester := New(value)
	requester.name = &name
	requester.group = this
	return requester
}

func (this *Group[T]) NewPure(name string, value T) PureAccessRequester[T] {
	requester := NewPure(value)
	requester.name = &name
	requester.group = this
	return requester
}

// OnAccess sets a callback function to be invoked on every mint and
// release within the Group.
func (this *Group[T]) OnAccess(callback func(AccessEvent)) {
	this.onAccess = callback
}

// doAccess invokes the OnAccess callback function, if set, with the
// information about a mint or release within the Group; If no
// callback is set, or the requester is not part of a group, this
// method has no effect.
func (this *Group[T]) doAccess(name *string, mode AccessMode, released bool) {
	if this == nil || this.onAccess == nil || name == nil {
		return
	}

	event := AccessEvent{
		GroupName: this.name,
		Name:      *name,
		Mode:      mode,
		Released:  released,
	}
	this.onAccess(event)
}

// LogAccess returns an OnAccess callback that logs every event at
// debug level with structured fields.
func LogAccess(logger *logrus.Logger) func(AccessEvent) {
	return func(event AccessEvent) {
		logger.WithFields(logrus.Fields{
			"group":    event.GroupName,
			"name":     event.Name,
			"mode":     event.Mode.String(),
			"released": event.Released,
		}).Debug("access")
	}
}
