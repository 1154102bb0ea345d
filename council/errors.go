// Copyright 2026 Blink Labs Software
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

package council

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a referenced proposal, amendment, or province
	// does not exist in the store.
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied indicates a role-gated action was attempted by
	// the wrong province.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrAmendmentDepthExceeded indicates an attempt to amend past the
	// configured amendment nesting limit.
	ErrAmendmentDepthExceeded = errors.New("amendment depth exceeded")
	// ErrStoreUnavailable indicates a transient store I/O failure; the
	// caller may retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports a malformed field in a submitted proposal or
// amendment. Validation failures are surfaced before any write; a
// partially applied proposal is never persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// VotingClosedError indicates a vote or amendment was attempted against a
// proposal that is no longer active. Status carries the resolved status,
// including one just applied by an expiry close-out.
type VotingClosedError struct {
	Status Status
}

func (e *VotingClosedError) Error() string {
	return fmt.Sprintf("voting closed: status is %s", e.Status)
}
