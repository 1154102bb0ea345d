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
	"fmt"
	"strings"
)

// LawDraft is the caller-supplied content of a new law proposal
type LawDraft struct {
	Title             string
	Purpose           string
	WhereasStatements []string
	Changes           string
}

// BudgetDraft is the caller-supplied content of a new budget proposal
type BudgetDraft struct {
	BudgetType    BudgetType
	TotalAmount   float64
	Purpose       string
	LineItems     []LineItem
	Justification string
}

// Validate checks a law draft against the submission rules. All fields
// are required and between one and ten non-empty whereas statements must
// be present.
func (d *LawDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(d.Purpose) == "" {
		return &ValidationError{Field: "purpose", Reason: "required"}
	}
	if strings.TrimSpace(d.Changes) == "" {
		return &ValidationError{Field: "changes", Reason: "required"}
	}
	if len(d.WhereasStatements) == 0 {
		return &ValidationError{
			Field:  "whereasStatements",
			Reason: "at least one statement is required",
		}
	}
	if len(d.WhereasStatements) > MaxWhereasStatements {
		return &ValidationError{
			Field: "whereasStatements",
			Reason: fmt.Sprintf(
				"at most %d statements are allowed",
				MaxWhereasStatements,
			),
		}
	}
	for i, stmt := range d.WhereasStatements {
		if strings.TrimSpace(stmt) == "" {
			return &ValidationError{
				Field:  fmt.Sprintf("whereasStatements[%d]", i),
				Reason: "must not be empty",
			}
		}
	}
	return nil
}

// Validate checks a budget draft against the submission rules
func (d *BudgetDraft) Validate() error {
	if !d.BudgetType.Valid() {
		return &ValidationError{
			Field:  "budgetType",
			Reason: "must be a known budget type",
		}
	}
	if d.TotalAmount <= 0 {
		return &ValidationError{
			Field:  "totalAmount",
			Reason: "must be a positive number",
		}
	}
	if strings.TrimSpace(d.Purpose) == "" {
		return &ValidationError{Field: "purpose", Reason: "required"}
	}
	if strings.TrimSpace(d.Justification) == "" {
		return &ValidationError{Field: "justification", Reason: "required"}
	}
	if len(d.LineItems) == 0 {
		return &ValidationError{
			Field:  "lineItems",
			Reason: "at least one line item is required",
		}
	}
	for i, item := range d.LineItems {
		if err := validateLineItem(i, item); err != nil {
			return err
		}
	}
	return nil
}

func validateLineItem(idx int, item LineItem) error {
	field := fmt.Sprintf("lineItems[%d]", idx)
	if strings.TrimSpace(item.Title) == "" {
		return &ValidationError{
			Field:  field + ".title",
			Reason: "required",
		}
	}
	if item.Amount <= 0 {
		return &ValidationError{
			Field:  field + ".amount",
			Reason: "must be a positive number",
		}
	}
	if len(item.Description) > MaxLineItemDescLen {
		return &ValidationError{
			Field: field + ".description",
			Reason: fmt.Sprintf(
				"must be at most %d characters",
				MaxLineItemDescLen,
			),
		}
	}
	return nil
}

// ValidateAmendedText checks replacement law text for an amendment
func ValidateAmendedText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{
			Field:  "amendedText",
			Reason: "must not be empty",
		}
	}
	return nil
}

// ValidateAmendedLineItems checks replacement line items for a budget
// amendment, applying the same per-item rules as creation.
func ValidateAmendedLineItems(items []LineItem) error {
	if len(items) == 0 {
		return &ValidationError{
			Field:  "amendedLineItems",
			Reason: "at least one line item is required",
		}
	}
	for i, item := range items {
		if err := validateLineItem(i, item); err != nil {
			return err
		}
	}
	return nil
}
