package contracts_test

import (
	"errors"
	"testing"

	"go.viam.com/test"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("boom")
	cases := []struct {
		err  *contracts.Error
		kind contracts.Kind
	}{
		{contracts.NewValidationError("bad"), contracts.KindValidation},
		{contracts.NewSafetyRejection("Force Error"), contracts.KindSafetyRejection},
		{contracts.NewAdapterFailure("timeout", cause), contracts.KindAdapterFailure},
		{contracts.NewNotFound("missing"), contracts.KindNotFound},
		{contracts.NewDeterminismViolation("nan", cause), contracts.KindDeterminismViolation},
	}

	for _, c := range cases {
		test.That(t, c.err.Kind(), test.ShouldEqual, c.kind)
		test.That(t, c.err.Error(), test.ShouldNotBeBlank)
	}

	withCause := contracts.NewAdapterFailure("timeout", cause)
	test.That(t, errors.Unwrap(withCause), test.ShouldEqual, cause)
}
