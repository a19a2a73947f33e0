package determinism_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/Danielfoojunwei/MCP-ROBOT/determinism"
)

func TestClockFreeze(t *testing.T) {
	c := determinism.NewClock()
	test.That(t, c.IsFrozen(), test.ShouldBeFalse)

	c.Freeze(123456789.0)
	test.That(t, c.IsFrozen(), test.ShouldBeTrue)
	test.That(t, c.Now(), test.ShouldEqual, 123456789.0)
	test.That(t, c.Now(), test.ShouldEqual, 123456789.0)

	c.Unfreeze()
	test.That(t, c.IsFrozen(), test.ShouldBeFalse)
	test.That(t, c.Now(), test.ShouldNotEqual, 123456789.0)
}
