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

package operation

import (
	"fmt"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📝 PlannedOperation is a proposed mutation that has not been applied yet
type PlannedOperation struct {
	FileID      string `json:"file_id" yaml:"file_id"`
	FileName    string `json:"file_name" yaml:"file_name"`
	Kind        Kind   `json:"operation_type" yaml:"operation_type"`
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
}

// Validate checks the fields the executor relies on.
func (p PlannedOperation) Validate() error {
	if p.Kind == KindUnknown {
		return errors.New("operation type is required")
	}
	if p.Source == "" {
		return errors.New("source path is required")
	}
	if p.Kind.NeedsDestination() && p.Destination == "" {
		return errors.Errorf("destination path is required for %s", p.Kind)
	}
	return nil
}

// 📦 Operation is the durable record of one attempted mutation
type Operation struct {
	ID              string `json:"id"`
	Kind            Kind   `json:"operation_type"`
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path,omitempty"`
	OriginalName    string `json:"original_name,omitempty"`
	NewName         string `json:"new_name,omitempty"`
	Timestamp       int64  `json:"timestamp"`
	Status          Status `json:"status"`
	BatchID         string `json:"batch_id,omitempty"`
	BackupPath      string `json:"backup_path,omitempty"`
}

// BatchKey returns the batch id, or the operation id for unbatched records.
func (o Operation) BatchKey() string {
	if o.BatchID != "" {
		return o.BatchID
	}
	return o.ID
}

// 🗂️ Batch is a read-time grouping of operations sharing a batch id
type Batch struct {
	ID          string      `json:"id"`
	Operations  []Operation `json:"operations"`
	CreatedAt   int64       `json:"created_at"`
	Description string      `json:"description"`
}

// GroupBatches groups ops by batch key. Batches appear in the order of
// their first member in ops and members keep their relative order.
func GroupBatches(ops []Operation) []Batch {
	index := make(map[string]int)
	batches := make([]Batch, 0)
	for _, op := range ops {
		key := op.BatchKey()
		i, ok := index[key]
		if !ok {
			i = len(batches)
			index[key] = i
			batches = append(batches, Batch{ID: key, CreatedAt: op.Timestamp})
		}
		batches[i].Operations = append(batches[i].Operations, op)
	}
	for i := range batches {
		batches[i].Description = describe(batches[i].Operations)
	}
	return batches
}

// describe summarises the kinds in a batch, e.g. "3 operations: 2 move, 1 delete".
func describe(ops []Operation) string {
	counts := make(map[string]int)
	for _, op := range ops {
		counts[op.Kind.String()]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
	}

	noun := "operations"
	if len(ops) == 1 {
		noun = "operation"
	}
	return fmt.Sprintf("%d %s: %s", len(ops), noun, strings.Join(parts, ", "))
}
