package overlay

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestDebugDisposedControlPanics(t *testing.T) {
	u := newTestUI()
	u.SetDebugMode(true)
	parent := u.NewContainer(nil)
	child := u.NewControl(nil)
	child.Name = "ghost"
	child.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild with a disposed control")
		}
		msg := fmt.Sprint(r)
		if !strings.Contains(msg, "disposed") || !strings.Contains(msg, `"ghost"`) {
			t.Errorf("panic message = %q", msg)
		}
	}()
	parent.AddChild(child)
}

func TestDisposedControlIgnoredOutsideDebug(t *testing.T) {
	u := newTestUI()
	parent := u.NewContainer(nil)
	child := u.NewControl(nil)
	child.Dispose()
	if parent.AddChild(child) {
		t.Error("AddChild of a disposed control should fail")
	}
}

func TestDebugTreeWarnings(t *testing.T) {
	var buf bytes.Buffer
	u := NewUI()
	u.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	u.SetDebugMode(true)

	parent := u.NewContainer(nil)
	for range debugMaxChildCount + 1 {
		parent.AddChild(u.NewControl(nil))
	}
	if n := strings.Count(buf.String(), "many children"); n != 1 {
		t.Errorf("child count warnings = %d, want 1", n)
	}

	buf.Reset()
	c := u.NewContainer(nil)
	for range debugMaxTreeDepth {
		next := u.NewContainer(nil)
		c.AddChild(next)
		c = next
	}
	if !strings.Contains(buf.String(), "tree is deep") {
		t.Errorf("expected a depth warning, log:\n%s", buf.String())
	}
}

func TestDebugChecksOffByDefault(t *testing.T) {
	var buf bytes.Buffer
	u := NewUI()
	u.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	parent := u.NewContainer(nil)
	for range debugMaxChildCount + 1 {
		parent.AddChild(u.NewControl(nil))
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output:\n%s", buf.String())
	}
}
