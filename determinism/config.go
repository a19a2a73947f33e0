// Package determinism is the process-wide kernel of stable primitives the
// rest of the pipeline is built on: canonical hashing, a freezable clock,
// and per-chunk seeded randomness. Nothing outside this package may
// introduce a second notion of identity or a second source of randomness.
package determinism

// Config is the DeterminismConfig entity of the data model: immutable once
// the pipeline is constructed.
type Config struct {
	Seed          int64  `toml:"seed"`
	FloatRound    int    `toml:"float_round"`
	SchemaVersion string `toml:"schema_version"`
}

// DefaultConfig matches the defaults spec.md fixes: seed 42, six decimal
// places of float rounding, schema "2.0.0".
func DefaultConfig() Config {
	return Config{
		Seed:          42,
		FloatRound:    6,
		SchemaVersion: "2.0.0",
	}
}
