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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind is the type of filesystem mutation
type Kind int

const (
	KindUnknown Kind = iota
	KindMove
	KindCopy
	KindRename
	KindDelete
)

// String returns the storage name of the kind
func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindCopy:
		return "copy"
	case KindRename:
		return "rename"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// NeedsDestination reports whether the kind requires a destination path.
func (k Kind) NeedsDestination() bool {
	return k == KindMove || k == KindCopy || k == KindRename
}

// ParseKind resolves a storage name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "move":
		return KindMove, nil
	case "copy":
		return KindCopy, nil
	case "rename":
		return KindRename, nil
	case "delete":
		return KindDelete, nil
	default:
		return KindUnknown, errors.Errorf("unknown operation type %q", s)
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	if k == KindUnknown {
		return nil, errors.New("cannot marshal unknown operation type")
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// 📊 State is the lifecycle position of an operation
type State int

const (
	StatePending State = iota
	StateInProgress
	StateCompleted
	StateFailed
	StateUndone
)

const failedPrefix = "failed:"

// Status is the state of an operation plus, for failures, the reason.
//
//	Pending -> InProgress -> Completed | Failed(reason)
//	Completed -> Undone
type Status struct {
	State  State
	Reason string
}

func Pending() Status    { return Status{State: StatePending} }
func InProgress() Status { return Status{State: StateInProgress} }
func Completed() Status  { return Status{State: StateCompleted} }
func Undone() Status     { return Status{State: StateUndone} }

// Failed builds a failure status. An empty reason is replaced so that a
// failure always carries a message.
func Failed(reason string) Status {
	if strings.TrimSpace(reason) == "" {
		reason = "unknown error"
	}
	return Status{State: StateFailed, Reason: reason}
}

func (s Status) IsCompleted() bool { return s.State == StateCompleted }
func (s Status) IsFailed() bool    { return s.State == StateFailed }
func (s Status) IsUndone() bool    { return s.State == StateUndone }

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s.State == StateFailed || s.State == StateUndone
}

// CanTransition reports whether moving from s to next is allowed.
// Submission may jump straight to Completed or Failed.
func (s Status) CanTransition(next Status) bool {
	switch s.State {
	case StatePending:
		return next.State == StateInProgress || next.State == StateCompleted || next.State == StateFailed
	case StateInProgress:
		return next.State == StateCompleted || next.State == StateFailed
	case StateCompleted:
		return next.State == StateUndone
	default:
		return false
	}
}

// String returns the flat storage encoding, e.g. "failed:permission denied".
func (s Status) String() string {
	switch s.State {
	case StatePending:
		return "pending"
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return failedPrefix + s.Reason
	case StateUndone:
		return "undone"
	default:
		return "unknown"
	}
}

// ParseStatus decodes the flat storage encoding.
func ParseStatus(s string) (Status, error) {
	switch {
	case s == "pending":
		return Pending(), nil
	case s == "in_progress":
		return InProgress(), nil
	case s == "completed":
		return Completed(), nil
	case s == "undone":
		return Undone(), nil
	case strings.HasPrefix(s, failedPrefix):
		return Failed(strings.TrimPrefix(s, failedPrefix)), nil
	default:
		return Status{}, errors.Errorf("unknown operation status %q", s)
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
