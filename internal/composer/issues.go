package composer

import (
	"fmt"

	"github.com/angelmondragon/bouquet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bouquet-backend/pkg/errors"
)

type IssueKind string

const (
	IssueNotFound         IssueKind = "not_found"
	IssueCategoryMismatch IssueKind = "category_mismatch"
	IssueCardinality      IssueKind = "cardinality_exceeded"
	IssueQuantityCap      IssueKind = "quantity_cap_exceeded"
	IssueInvalidQuantity  IssueKind = "invalid_quantity"
	IssueInvalidSlot      IssueKind = "invalid_slot"
	IssueEmptyBouquet     IssueKind = "empty_bouquet"
	IssueGiftRecipient    IssueKind = "gift_recipient_missing"
)

// Issue is one offending cart entry.
type Issue struct {
	Kind      IssueKind             `json:"kind"`
	Slot      enums.LineSlot        `json:"slot,omitempty"`
	ProductID int64                 `json:"productId,omitempty"`
	Name      string                `json:"name,omitempty"`
	Requested int                   `json:"requested,omitempty"`
	Limit     int                   `json:"limit,omitempty"`
	Category  enums.ProductCategory `json:"category,omitempty"`
}

// codePriority orders kinds from most to least severe for the error code.
var codePriority = []struct {
	kind IssueKind
	code pkgerrors.Code
}{
	{IssueNotFound, pkgerrors.CodeProductNotFound},
	{IssueCategoryMismatch, pkgerrors.CodeCategoryMismatch},
	{IssueCardinality, pkgerrors.CodeCardinalityExceeded},
	{IssueQuantityCap, pkgerrors.CodeQuantityCapExceeded},
}

// validationError folds every issue into a single typed error.
func validationError(issues []Issue) error {
	present := make(map[IssueKind]bool, len(issues))
	for _, issue := range issues {
		present[issue.Kind] = true
	}
	code := pkgerrors.CodeValidation
	for _, p := range codePriority {
		if present[p.kind] {
			code = p.code
			break
		}
	}
	return pkgerrors.New(code, summarize(issues)).WithDetails(map[string]any{"issues": issues})
}

func summarize(issues []Issue) string {
	if len(issues) == 1 {
		return issues[0].describe()
	}
	return fmt.Sprintf("%s (and %d more issues)", issues[0].describe(), len(issues)-1)
}

func (i Issue) describe() string {
	switch i.Kind {
	case IssueNotFound:
		return fmt.Sprintf("product %d not found", i.ProductID)
	case IssueCategoryMismatch:
		return fmt.Sprintf("product %d is a %s and cannot be placed in the %s slot", i.ProductID, i.Category, i.Slot)
	case IssueCardinality:
		return fmt.Sprintf("at most %d %s selection allowed, got %d", i.Limit, i.Slot, i.Requested)
	case IssueQuantityCap:
		return fmt.Sprintf("product %d allows at most %d per order, requested %d", i.ProductID, i.Limit, i.Requested)
	case IssueInvalidQuantity:
		switch {
		case i.Requested <= 0:
			return fmt.Sprintf("product %d has a non-positive quantity", i.ProductID)
		case i.Limit > 0:
			return fmt.Sprintf("product %d quantity %d exceeds the limit of %d", i.ProductID, i.Requested, i.Limit)
		}
		return fmt.Sprintf("product %d quantity %d prices beyond the order total range", i.ProductID, i.Requested)
	case IssueInvalidSlot:
		return fmt.Sprintf("product %d has an unknown slot %q", i.ProductID, i.Slot)
	case IssueEmptyBouquet:
		return "a bouquet needs at least one flower"
	case IssueGiftRecipient:
		return "gift orders need a recipient name and address"
	}
	return string(i.Kind)
}

// IssuesOf extracts the issue list from a composer validation error.
func IssuesOf(err error) []Issue {
	typed := pkgerrors.As(err)
	if typed == nil {
		return nil
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		return nil
	}
	issues, _ := details["issues"].([]Issue)
	return issues
}
