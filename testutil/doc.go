// Package testutil provides deterministic random data for tests and
// benchmarks.
//
//	rng := testutil.NewRNG(seed)
//	keys := rng.Keys(1000, 16)   // 1000 keys drawn from 16 distinct values
//	order := rng.Perm(1000)      // a shuffled insertion order
//	skew := rng.ZipfBuckets(1000, 16, 1.5)
package testutil
