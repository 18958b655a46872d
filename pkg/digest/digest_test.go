// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package digest

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Algorithm
		wantErr bool
	}{
		{name: "empty_defaults_to_sha256", input: "", want: SHA256},
		{name: "sha256", input: "sha256", want: SHA256},
		{name: "blake3_mixed_case", input: " BLAKE3 ", want: BLAKE3},
		{name: "unknown", input: "md5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasherSum(t *testing.T) {
	t.Run("sha256_known_vector", func(t *testing.T) {
		h, err := New(SHA256)
		require.NoError(t, err)

		sum, err := h.Sum(strings.NewReader("abc"))
		require.NoError(t, err)
		assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)
	})

	t.Run("blake3_known_vector", func(t *testing.T) {
		h, err := New(BLAKE3)
		require.NoError(t, err)

		sum, err := h.Sum(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262", sum)
	})

	t.Run("large_input_spans_buffers", func(t *testing.T) {
		h, err := New(SHA256)
		require.NoError(t, err)

		content := strings.Repeat("x", BufferSize*3+17)
		a, err := h.Sum(strings.NewReader(content))
		require.NoError(t, err)
		b, err := h.Sum(strings.NewReader(content))
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.Len(t, a, 64)
	})

	t.Run("read_error", func(t *testing.T) {
		h, err := New(SHA256)
		require.NoError(t, err)

		_, err = h.Sum(failingReader{})
		require.Error(t, err)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("nil_reader", func(t *testing.T) {
		h, err := New(BLAKE3)
		require.NoError(t, err)

		_, err = h.Sum(nil)
		require.Error(t, err)
	})

	t.Run("unknown_algorithm", func(t *testing.T) {
		_, err := New("crc32")
		require.Error(t, err)
	})
}

func TestHasherFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	c := filepath.Join(dir, "c.txt")
	require.NoError(t, os.WriteFile(a, []byte("same"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("same"), 0o644))
	require.NoError(t, os.WriteFile(c, []byte("different"), 0o644))

	for _, alg := range Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			h, err := New(alg)
			require.NoError(t, err)
			assert.Equal(t, alg, h.Algorithm())

			sa, err := h.File(a)
			require.NoError(t, err)
			sb, err := h.File(b)
			require.NoError(t, err)
			sc, err := h.File(c)
			require.NoError(t, err)

			assert.Equal(t, sa, sb)
			assert.NotEqual(t, sa, sc)

			_, err = h.File(filepath.Join(dir, "missing"))
			require.Error(t, err)
			assert.ErrorIs(t, err, os.ErrNotExist)
		})
	}
}
