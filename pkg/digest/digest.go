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

// Package digest computes content fingerprints of files by streaming their
// bytes through a fixed-size buffer.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/zeebo/blake3"
	"gitlab.com/tozd/go/errors"
)

// BufferSize is the size of the read buffer used while hashing.
const BufferSize = 8192

// 🔐 Algorithm names a supported digest function
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

// Algorithms lists every supported algorithm, default first.
func Algorithms() []Algorithm {
	return []Algorithm{SHA256, BLAKE3}
}

// ParseAlgorithm resolves a user supplied name. Empty selects SHA256.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case "", SHA256:
		return SHA256, nil
	case BLAKE3:
		return BLAKE3, nil
	default:
		return "", errors.Errorf("unknown hash algorithm %q", name)
	}
}

// 🧮 Hasher produces hex encoded digests for readers and files
type Hasher struct {
	alg     Algorithm
	newHash func() hash.Hash
}

// New creates a Hasher for the given algorithm.
func New(alg Algorithm) (*Hasher, error) {
	switch alg {
	case SHA256, "":
		return &Hasher{alg: SHA256, newHash: sha256.New}, nil
	case BLAKE3:
		return &Hasher{alg: BLAKE3, newHash: func() hash.Hash { return blake3.New() }}, nil
	default:
		return nil, errors.Errorf("unknown hash algorithm %q", alg)
	}
}

// Algorithm returns the algorithm this hasher uses.
func (h *Hasher) Algorithm() Algorithm {
	return h.alg
}

// Sum streams r and returns its hex digest.
func (h *Hasher) Sum(r io.Reader) (string, error) {
	if r == nil {
		return "", errors.New("reader cannot be nil")
	}
	hh := h.newHash()
	buf := make([]byte, BufferSize)
	// hide WriterTo so the copy goes through buf
	if _, err := io.CopyBuffer(hh, struct{ io.Reader }{r}, buf); err != nil {
		return "", errors.Errorf("reading content: %w", err)
	}
	return hex.EncodeToString(hh.Sum(nil)), nil
}

// File opens path and returns the digest of its content.
func (h *Hasher) File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sum, err := h.Sum(f)
	if err != nil {
		return "", errors.Errorf("hashing %s: %w", path, err)
	}
	return sum, nil
}
