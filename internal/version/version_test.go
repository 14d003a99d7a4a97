// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSemString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		alphabet string
		want     string
	}{
		{"beta", semanticAlphabet, "beta"},
		{"beta.1", semanticAlphabet, "beta1"},
		{"beta.1", semanticBuildAlphabet, "beta.1"},
		{"a+b c", semanticBuildAlphabet, "abc"},
		{"", semanticAlphabet, ""},
	}
	for _, test := range tests {
		require.Equal(t, test.want,
			normalizeSemString(test.in, test.alphabet))
	}
}

func TestString(t *testing.T) {
	// Not parallel since the overrides are package state.
	preRelease, build := PreRelease, BuildMetadata
	defer func() {
		PreRelease, BuildMetadata = preRelease, build
	}()

	PreRelease, BuildMetadata = "", ""
	require.Equal(t, "0.1.0", String())

	PreRelease, BuildMetadata = "rc1", "abc.def"
	require.Equal(t, "0.1.0-rc1+abc.def", String())

	PreRelease, BuildMetadata = "r c!", ""
	require.Equal(t, "0.1.0-rc", String())
}
