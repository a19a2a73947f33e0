package determinism_test

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/Danielfoojunwei/MCP-ROBOT/determinism"
)

func TestSHA256JSONStableAcrossKeyOrder(t *testing.T) {
	h := determinism.NewHasher(6)

	a := map[string]interface{}{"b": 2, "a": 1, "c": []interface{}{1, 2, 3}}
	b := map[string]interface{}{"c": []interface{}{1, 2, 3}, "a": 1, "b": 2}

	da, err := h.SHA256JSON(a)
	test.That(t, err, test.ShouldBeNil)
	db, err := h.SHA256JSON(b)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, da, test.ShouldEqual, db)
	test.That(t, len(da), test.ShouldEqual, 64)
}

func TestSHA256JSONRoundsFloats(t *testing.T) {
	h := determinism.NewHasher(4)

	a := map[string]interface{}{"x": 1.000049}
	b := map[string]interface{}{"x": 1.0}

	da, err := h.SHA256JSON(a)
	test.That(t, err, test.ShouldBeNil)
	db, err := h.SHA256JSON(b)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, da, test.ShouldEqual, db)
}

func TestSHA256JSONRejectsNonFinite(t *testing.T) {
	h := determinism.NewHasher(6)

	_, err := h.SHA256JSON(map[string]interface{}{"x": math.Inf(1)})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSHA256JSONSequencePreservesOrder(t *testing.T) {
	h := determinism.NewHasher(6)

	a := []interface{}{1, 2, 3}
	b := []interface{}{3, 2, 1}

	da, err := h.SHA256JSON(a)
	test.That(t, err, test.ShouldBeNil)
	db, err := h.SHA256JSON(b)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, da, test.ShouldNotEqual, db)
}

func TestSHA256JSONReproducible(t *testing.T) {
	h := determinism.NewHasher(6)
	obj := map[string]interface{}{
		"instruction": "pick up the apple",
		"ordinal":     3,
	}

	d1, err := h.SHA256JSON(obj)
	test.That(t, err, test.ShouldBeNil)
	d2, err := h.SHA256JSON(obj)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, d1, test.ShouldEqual, d2)
}
