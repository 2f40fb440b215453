package wizard

import (
	"fmt"
	"strings"

	"github.com/memoryschool/portal/internal/services"
)

// ErrorKind classifies why a step gate rejected. These are always
// recoverable by user correction and never reach the orchestrator.
type ErrorKind string

const (
	ErrMissingField     ErrorKind = "missing_field"
	ErrPasswordMismatch ErrorKind = "password_mismatch"
	ErrBadDate          ErrorKind = "bad_date"
	ErrNoSelection      ErrorKind = "no_selection"
)

type StepResult struct {
	OK     bool      `json:"ok"`
	Reason ErrorKind `json:"reason,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

func ok() StepResult                             { return StepResult{OK: true} }
func fail(k ErrorKind, detail string) StepResult { return StepResult{Reason: k, Detail: detail} }

// CanAdvance gates forward navigation: pure, no side effects. The caller
// shows Detail and blocks the transition on failure.
func CanAdvance(step int, d *Draft) StepResult {
	switch step {
	case 1:
		if strings.TrimSpace(d.DocumentID) == "" {
			return fail(ErrMissingField, "document number is required")
		}
	case 2:
		g := d.Guardian
		if anyEmpty(g.FullName, g.Phone, g.Email, g.Password, g.PasswordConfirmation) {
			return fail(ErrMissingField, "all guardian fields are required")
		}
		if _, valid := services.NormEmail(g.Email); !valid {
			return fail(ErrMissingField, "invalid email address")
		}
		if g.Password != g.PasswordConfirmation {
			return fail(ErrPasswordMismatch, "passwords do not match")
		}
	case 3:
		for i, dep := range d.Dependents {
			if anyEmpty(dep.Name, dep.BirthDate) {
				return fail(ErrMissingField, fmt.Sprintf("dependent %d: name and date of birth are required", i+1))
			}
			if _, err := services.ParseDateBR(dep.BirthDate); err != nil {
				return fail(ErrBadDate, fmt.Sprintf("dependent %d: %v", i+1, err))
			}
		}
	case 4:
		if d.Selection.PlanID == nil && len(d.Selection.ProductIDs) == 0 {
			return fail(ErrNoSelection, "select a plan or at least one product")
		}
	case 5:
		// review step: no gate, advancing triggers submission
	}
	return ok()
}

func anyEmpty(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}
