package wizard

import (
	"errors"

	"github.com/memoryschool/portal/internal/services"
)

const (
	FirstStep = 1
	LastStep  = 5
)

var (
	ErrLastDependent = errors.New("cannot remove the last dependent")
	ErrNoSuchIndex   = errors.New("dependent index out of range")
	ErrStepGate      = errors.New("step requirements not met")
)

type Guardian struct {
	FullName             string `json:"full_name"`
	Phone                string `json:"phone"`
	Email                string `json:"email"`
	Password             string `json:"-"`
	PasswordConfirmation string `json:"-"`
}

type Dependent struct {
	Name       string `json:"name"`
	ClassLabel string `json:"class_label"`
	Shift      string `json:"shift"`
	BirthDate  string `json:"date_of_birth"` // DD/MM/YYYY, masked

	// uploaded photo bytes held until the provisioning stage stores them
	PhotoName string `json:"photo_name,omitempty"`
	Photo     []byte `json:"-"`
}

// Selection holds the plan-XOR-products choice. Never both populated; the
// mutators below enforce that on every mutation, not just at submit time.
type Selection struct {
	PlanID     *uint  `json:"plan_id,omitempty"`
	ProductIDs []uint `json:"product_ids"`
}

// Draft is the accumulated wizard state for one registration session. It is
// ephemeral: created when the invite slug resolves, read once by the
// orchestrator at submission, then discarded.
type Draft struct {
	ID         string            `json:"id"`
	Catalog    *services.Catalog `json:"catalog"`
	DocumentID string            `json:"document_id"`
	Guardian   Guardian          `json:"guardian"`
	Dependents []Dependent       `json:"dependents"`
	Selection  Selection         `json:"selection"`
	Step       int               `json:"current_step"`
}

// NewDraft starts at step 1 with one empty dependent row, matching the form
// the guardian first sees.
func NewDraft(id string, cat *services.Catalog) *Draft {
	return &Draft{
		ID:         id,
		Catalog:    cat,
		Dependents: []Dependent{{}},
		Step:       FirstStep,
	}
}

func (d *Draft) SetDocument(raw string) {
	d.DocumentID = services.FormatCPF(raw)
}

func (d *Draft) SetGuardian(g Guardian) {
	g.Phone = services.FormatPhone(g.Phone)
	d.Guardian = g
}

func (d *Draft) AddDependent() {
	d.Dependents = append(d.Dependents, Dependent{})
}

// RemoveDependent keeps the floor of one dependent: removing the last
// remaining row is a no-op error.
func (d *Draft) RemoveDependent(i int) error {
	if i < 0 || i >= len(d.Dependents) {
		return ErrNoSuchIndex
	}
	if len(d.Dependents) == 1 {
		return ErrLastDependent
	}
	d.Dependents = append(d.Dependents[:i], d.Dependents[i+1:]...)
	return nil
}

func (d *Draft) UpdateDependent(i int, dep Dependent) error {
	if i < 0 || i >= len(d.Dependents) {
		return ErrNoSuchIndex
	}
	dep.BirthDate = services.FormatDate(dep.BirthDate)
	dep.Photo = d.Dependents[i].Photo
	dep.PhotoName = d.Dependents[i].PhotoName
	d.Dependents[i] = dep
	return nil
}

func (d *Draft) AttachPhoto(i int, name string, data []byte) error {
	if i < 0 || i >= len(d.Dependents) {
		return ErrNoSuchIndex
	}
	d.Dependents[i].PhotoName = name
	d.Dependents[i].Photo = data
	return nil
}

// SelectPlan picks a plan and atomically clears any product selection.
func (d *Draft) SelectPlan(id uint) {
	d.Selection = Selection{PlanID: &id}
}

// ClearPlan drops the plan selection without touching products.
func (d *Draft) ClearPlan() {
	d.Selection.PlanID = nil
}

// ToggleProduct adds or removes a product and atomically clears any plan
// selection. No intermediate state with both populated is observable.
func (d *Draft) ToggleProduct(id uint) {
	ids := d.Selection.ProductIDs
	for i, pid := range ids {
		if pid == id {
			d.Selection = Selection{ProductIDs: append(ids[:i:i], ids[i+1:]...)}
			return
		}
	}
	d.Selection = Selection{ProductIDs: append(ids, id)}
}

// Next advances to the following step if the current step's gate passes.
// Advancing past the review step is the caller's cue to submit.
func (d *Draft) Next() StepResult {
	res := CanAdvance(d.Step, d)
	if !res.OK {
		return res
	}
	if d.Step < LastStep {
		d.Step++
	}
	return res
}

func (d *Draft) Back() {
	if d.Step > FirstStep {
		d.Step--
	}
}
