package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnCommit("add", "w1")
	l.OnRevert("drag-stop", "w1", "w2")
	l.OnDrop("w1", "catalog entry missing")

	p := NoopPersistenceHooks{}
	p.OnLoad(ctx, "layout", 3, 1, time.Millisecond, nil)
	p.OnSave(ctx, "layout", 3, 512, time.Millisecond, errors.New("boom"))
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Persistence().(NoopPersistenceHooks); !ok {
		t.Error("Persistence() should return NoopPersistenceHooks by default")
	}

	c := NewCounter()
	SetLayoutHooks(c)
	SetPersistenceHooks(c)
	if Layout() != c || Persistence() != c {
		t.Error("Set*Hooks should register custom hooks")
	}

	// nil must not replace the current hooks
	SetLayoutHooks(nil)
	if Layout() != c {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset should restore NoopLayoutHooks")
	}
}

func TestCounter(t *testing.T) {
	ctx := context.Background()
	c := NewCounter()
	c.OnCommit("add", "a")
	c.OnCommit("add", "b")
	c.OnCommit("drag-stop", "a")
	c.OnRevert("resize-stop", "a", "b")
	c.OnDrop("b", "permission denied")
	c.OnLoad(ctx, "k", 1, 1, 0, nil)
	c.OnSave(ctx, "k", 1, 10, 0, nil)
	c.OnSave(ctx, "k", 1, 10, 0, errors.New("down"))

	if c.Commits["add"] != 2 || c.Commits["drag-stop"] != 1 {
		t.Errorf("Commits = %v", c.Commits)
	}
	if c.Reverts != 1 || c.Drops != 1 || c.Loads != 1 || c.Saves != 2 || c.SaveErrs != 1 {
		t.Errorf("unexpected counters: %+v", c)
	}
}
