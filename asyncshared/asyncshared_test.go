package asyncshared

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func AssertPanic(body func(), message string, t *testing.T) {
	panicked := false

	func() {
		defer func() {
			if r := recover(); r != nil {
				panicked = true
			}
		}()

		body()
	}()

	if !panicked {
		t.Fatal(message)
	}
}

// RecoverValue runs 'body' and returns whatever it panicked with, or
// nil if it returned normally.
func RecoverValue(body func()) (recovered any) {
	defer func() {
		recovered = recover()
	}()

	body()
	return
}

func Concurrently(times int, handler func()) {
	maxprocs := runtime.NumCPU() + 1
	runtime.GOMAXPROCS(maxprocs)

	wg := sync.WaitGroup{}
	wg.Add(times)
	for i := 1; i <= times; i++ {
		go func() {
			defer wg.Done()

			handler()
		}()
	}
	wg.Wait()
}

// Counter is used by the test suite to observe state mutations.
type Counter struct {
	Value int
}

func (this *Counter) IncByReference() {
	this.Value++
}

func (this Counter) IncByValue() {
	this.Value++
}

func Test_New_Pointer_Payload_Panics(t *testing.T) {
	number := 10

	AssertPanic(func() {
		New(&number)
	}, "New should panic on a pointer payload.", t)

	AssertPanic(func() {
		NewImmutable(&number)
	}, "NewImmutable should panic on a pointer payload.", t)

	AssertPanic(func() {
		NewPure(&number)
	}, "NewPure should panic on a pointer payload.", t)

	AssertPanic(func() {
		NewPureImmutable(&number)
	}, "NewPureImmutable should panic on a pointer payload.", t)
}

func Test_AccessRequester_Copies_Share_State(t *testing.T) {
	requester := New(Counter{})
	copied := requester

	requester.Use(func(counter *Counter) {
		counter.IncByReference()
	})

	copied.View(func(counter Counter) {
		assert.Equal(t, 1, counter.Value)
	})
}

func Test_AccessRequester_View_Passes_A_Copy(t *testing.T) {
	requester := New(Counter{Value: 5})

	requester.View(func(counter Counter) {
		counter.IncByValue()
	})

	requester.View(func(counter Counter) {
		assert.Equal(t, 5, counter.Value)
	})
}

func Test_AccessRequester_Use_Releases_On_Panic(t *testing.T) {
	requester := New(Counter{})

	AssertPanic(func() {
		requester.Use(func(counter *Counter) {
			panic("boom")
		})
	}, "Use should propagate the handler's panic.", t)

	// The write lock must have been released on the panicking path.
	pointer := requester.ExclusivePointer()
	defer pointer.Release()
	assert.True(t, pointer.IsValid())
}

func Test_Concurrent_Increments_No_Lost_Updates(t *testing.T) {
	requester := New(Counter{})

	group := errgroup.Group{}
	for i := 0; i < 8; i++ {
		group.Go(func() error {
			pointer := requester.ExclusivePointer()
			defer pointer.Release()

			pointer.Value().IncByReference()
			return nil
		})
	}
	require.NoError(t, group.Wait())

	requester.View(func(counter Counter) {
		assert.Equal(t, 8, counter.Value)
	})
}

func Test_Holders_Returns_To_Zero(t *testing.T) {
	requester := New(Counter{})

	Concurrently(8, func() {
		pointer := requester.ExclusivePointer()
		assert.Equal(t, int64(1), requester.cell.holders.Load())
		pointer.Release()
	})

	assert.Equal(t, int64(0), requester.cell.holders.Load())
}

func Test_ImmutableAccessRequester_View_Reads(t *testing.T) {
	requester := NewImmutable(Counter{Value: 42})

	Concurrently(8, func() {
		requester.View(func(counter Counter) {
			assert.Equal(t, 42, counter.Value)
		})
	})
}
