package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Hasher owns the single sanctioned identity function of the system:
// sha256_json. It canonicalizes an arbitrary JSON-marshalable value
// (structs, maps, slices, primitives — records are flattened to maps by
// their `json` field names, exactly like the teacher's protobuf/JSON
// boundary types) then hashes the canonical bytes.
//
// Canonicalization rules, enforced in canonicalize:
//   - maps sorted by key (encoding/json already does this for map[string]T
//     on Marshal; this type's recursive pass makes the sort explicit and
//     applies float rounding before the final Marshal)
//   - sequences preserve order
//   - floats rounded to FloatRound decimal places
//   - no whitespace (json.Marshal's compact encoding)
type Hasher struct {
	FloatRound int
}

// NewHasher builds a Hasher using the given float rounding precision.
func NewHasher(floatRound int) Hasher {
	return Hasher{FloatRound: floatRound}
}

// SHA256JSON canonicalizes obj and returns the lowercase hex SHA-256 digest
// of its canonical JSON encoding.
func (h Hasher) SHA256JSON(obj interface{}) (string, error) {
	canonical, err := h.Canonical(obj)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// MustSHA256JSON is SHA256JSON for call sites that have already validated
// obj is canonicalizable (e.g. values built entirely from this package's own
// round-tripped types). It panics on failure, which should be unreachable
// in those call sites.
func (h Hasher) MustSHA256JSON(obj interface{}) string {
	digest, err := h.SHA256JSON(obj)
	if err != nil {
		panic(fmt.Errorf("determinism: unreachable canonicalization failure: %w", err))
	}
	return digest
}

// Canonical returns the canonical JSON encoding of obj: a first Marshal
// flattens structs to field-named maps (also catching non-finite floats,
// which encoding/json already refuses to encode), an Unmarshal into a
// generic tree lets us round floats and re-sort recursively, and a second
// Marshal produces the final whitespace-free, key-sorted bytes.
func (h Hasher) Canonical(obj interface{}) ([]byte, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNonCanonicalizable, err)
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNonCanonicalizable, err)
	}

	rounded := h.roundFloats(generic)

	out, err := json.Marshal(rounded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNonCanonicalizable, err)
	}
	return out, nil
}

func (h Hasher) roundFloats(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]interface{}, len(t))
		for _, k := range keys {
			out[k] = h.roundFloats(t[k])
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = h.roundFloats(e)
		}
		return out
	case float64:
		return roundTo(t, h.FloatRound)
	default:
		return v
	}
}

func roundTo(f float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(f*scale) / scale
}

// Round rounds f to the Hasher's configured float precision. Stages outside
// this package use it to round stored values (not just hashed ones) to the
// same precision canonicalization would apply, so a value's canonical form
// never differs from the value itself (spec.md §3's "floats rounded to
// config precision").
func (h Hasher) Round(f float64) float64 {
	return roundTo(f, h.FloatRound)
}
