package operation_test

import (
	"context"
	"testing"

	"go.viam.com/test"

	"github.com/Danielfoojunwei/MCP-ROBOT/execution/operation"
)

func TestStartAndCancel(t *testing.T) {
	m := operation.NewManager()
	ctx, token, done := m.Start(context.Background())
	defer done()

	test.That(t, m.Running(token), test.ShouldBeTrue)
	test.That(t, m.Cancel(token), test.ShouldBeTrue)
	<-ctx.Done()
	test.That(t, ctx.Err(), test.ShouldEqual, context.Canceled)
}

func TestCancelUnknownTokenReturnsFalse(t *testing.T) {
	m := operation.NewManager()
	_, token, done := m.Start(context.Background())
	done()

	test.That(t, m.Cancel(token), test.ShouldBeFalse)
}

func TestDoneReleasesBookkeeping(t *testing.T) {
	m := operation.NewManager()
	_, token, done := m.Start(context.Background())
	test.That(t, m.Running(token), test.ShouldBeTrue)
	done()
	test.That(t, m.Running(token), test.ShouldBeFalse)
}
