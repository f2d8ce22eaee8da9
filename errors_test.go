package compose

import (
	"strings"
	"testing"
)

func TestNodeErrorFormatting(t *testing.T) {
	err := newMisuseError("EndGroup called with no open group")
	if !strings.Contains(err.Error(), "Misuse") {
		t.Errorf("error string %q missing kind", err.Error())
	}
	if !strings.HasPrefix(err.Error(), "compose: ") {
		t.Errorf("error string %q missing package prefix", err.Error())
	}

	wrapped := newApplierError("insert rejected", ErrSlotMismatch)
	if wrapped.Unwrap() != ErrSlotMismatch {
		t.Error("Unwrap did not expose the cause")
	}
}

func TestRenderSurfacesSlotMisuseAsError(t *testing.T) {
	rt := NewRuntime()
	c := NewComposer(rt, NewNodeStore())

	err := c.Render("root", func() {
		// Skipping with the cursor on a value slot is a slot mismatch.
		c.table.AllocValueSlot(func() any { return 1 })
		c.table.StepBack()
		c.table.SkipCurrentGroup()
	})
	if err == nil {
		t.Fatal("slot misuse did not surface from Render")
	}
	ne, ok := err.(*NodeError)
	if !ok || ne.Kind != ErrKindSlotMismatch {
		t.Errorf("error = %v, want a SlotMismatch NodeError", err)
	}
	if c.Phase() != PhaseIdle {
		t.Errorf("phase after failed render = %v, want Idle", c.Phase())
	}
}
