package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/memoryschool/portal/internal/db"
	"github.com/memoryschool/portal/internal/registration"
	svc "github.com/memoryschool/portal/internal/services"
	"github.com/memoryschool/portal/internal/wizard"
)

const maxPhotoBytes = 5 << 20

// RegisterStart resolves the invite slug and opens a draft session.
// POST /api/register/start {"slug": "..."}
func RegisterStart(store *wizard.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Slug string `json:"slug"`
		}
		if err := readJSON(r, &req); err != nil || req.Slug == "" {
			writeError(w, http.StatusBadRequest, "missing slug")
			return
		}

		cat, err := svc.ResolveContract(db.Conn(), req.Slug)
		if err != nil {
			if errors.Is(err, svc.ErrContractNotFound) {
				// terminal for the session: the client redirects to /login
				writeError(w, http.StatusNotFound, "contract not found")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		d := store.Create(cat)
		writeJSON(w, http.StatusOK, d)
	}
}

// RegisterShow returns the draft snapshot (passwords are never serialized).
// GET /api/register/{id}
func RegisterShow(store *wizard.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := store.View(id, func(d *wizard.Draft) {
			writeJSON(w, http.StatusOK, d)
		})
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
		}
	}
}

// RegisterDocument sets the masked document number (step 1 input).
// POST /api/register/{id}/document {"document_id": "..."}
func RegisterDocument(store *wizard.Store) http.HandlerFunc {
	return withDraft(store, func(d *wizard.Draft, r *http.Request) error {
		var req struct {
			DocumentID string `json:"document_id"`
		}
		if err := readJSON(r, &req); err != nil {
			return errBadRequest
		}
		d.SetDocument(req.DocumentID)
		return nil
	})
}

// RegisterGuardian sets the guardian fields (step 2 input).
// POST /api/register/{id}/guardian
func RegisterGuardian(store *wizard.Store) http.HandlerFunc {
	return withDraft(store, func(d *wizard.Draft, r *http.Request) error {
		var req struct {
			FullName             string `json:"full_name"`
			Phone                string `json:"phone"`
			Email                string `json:"email"`
			Password             string `json:"password"`
			PasswordConfirmation string `json:"password_confirmation"`
		}
		if err := readJSON(r, &req); err != nil {
			return errBadRequest
		}
		d.SetGuardian(wizard.Guardian{
			FullName:             req.FullName,
			Phone:                req.Phone,
			Email:                req.Email,
			Password:             req.Password,
			PasswordConfirmation: req.PasswordConfirmation,
		})
		return nil
	})
}

// RegisterAddDependent appends an empty dependent row.
// POST /api/register/{id}/dependents
func RegisterAddDependent(store *wizard.Store) http.HandlerFunc {
	return withDraft(store, func(d *wizard.Draft, _ *http.Request) error {
		d.AddDependent()
		return nil
	})
}

// RegisterRemoveDependent removes a row; the last one cannot be removed.
// POST /api/register/{id}/dependents/remove {"index": 0}
func RegisterRemoveDependent(store *wizard.Store) http.HandlerFunc {
	return withDraft(store, func(d *wizard.Draft, r *http.Request) error {
		var req struct {
			Index int `json:"index"`
		}
		if err := readJSON(r, &req); err != nil {
			return errBadRequest
		}
		return d.RemoveDependent(req.Index)
	})
}

// RegisterUpdateDependent fills one dependent's fields (step 3 input).
// POST /api/register/{id}/dependents/{idx}
func RegisterUpdateDependent(store *wizard.Store) http.HandlerFunc {
	return withDraft(store, func(d *wizard.Draft, r *http.Request) error {
		idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
		if err != nil {
			return errBadRequest
		}
		var req struct {
			Name       string `json:"name"`
			ClassLabel string `json:"class_label"`
			Shift      string `json:"shift"`
			BirthDate  string `json:"date_of_birth"`
		}
		if err := readJSON(r, &req); err != nil {
			return errBadRequest
		}
		return d.UpdateDependent(idx, wizard.Dependent{
			Name:       req.Name,
			ClassLabel: req.ClassLabel,
			Shift:      req.Shift,
			BirthDate:  req.BirthDate,
		})
	})
}

// RegisterDependentPhoto attaches a photo to one dependent (multipart).
// POST /api/register/{id}/dependents/{idx}/photo
func RegisterDependentPhoto(store *wizard.Store) http.HandlerFunc {
	return withDraft(store, func(d *wizard.Draft, r *http.Request) error {
		idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
		if err != nil {
			return errBadRequest
		}
		if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
			return errBadRequest
		}
		file, header, err := r.FormFile("photo")
		if err != nil {
			return errBadRequest
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
		if err != nil {
			return errBadRequest
		}
		return d.AttachPhoto(idx, header.Filename, data)
	})
}

// RegisterSelectPlan picks a plan, clearing any product selection.
// POST /api/register/{id}/plan {"plan_id": 1}
func RegisterSelectPlan(store *wizard.Store) http.HandlerFunc {
	return withDraft(store, func(d *wizard.Draft, r *http.Request) error {
		var req struct {
			PlanID uint `json:"plan_id"`
		}
		if err := readJSON(r, &req); err != nil {
			return errBadRequest
		}
		if d.Catalog.Plan(req.PlanID) == nil {
			return errors.New("plan not in contract catalog")
		}
		d.SelectPlan(req.PlanID)
		return nil
	})
}

// RegisterToggleProduct toggles a product, clearing any plan selection.
// POST /api/register/{id}/products/toggle {"product_id": 1}
func RegisterToggleProduct(store *wizard.Store) http.HandlerFunc {
	return withDraft(store, func(d *wizard.Draft, r *http.Request) error {
		var req struct {
			ProductID uint `json:"product_id"`
		}
		if err := readJSON(r, &req); err != nil {
			return errBadRequest
		}
		if d.Catalog.Product(req.ProductID) == nil {
			return errors.New("product not in contract catalog")
		}
		d.ToggleProduct(req.ProductID)
		return nil
	})
}

// RegisterNext runs the current step's gate and advances on success.
// POST /api/register/{id}/next
func RegisterNext(store *wizard.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := store.Update(id, func(d *wizard.Draft) error {
			res := d.Next()
			if !res.OK {
				writeJSON(w, http.StatusUnprocessableEntity, res)
				return nil
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "current_step": d.Step})
			return nil
		})
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
		}
	}
}

// RegisterBack steps backward; never gated.
// POST /api/register/{id}/back
func RegisterBack(store *wizard.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := store.Update(id, func(d *wizard.Draft) error {
			d.Back()
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "current_step": d.Step})
			return nil
		})
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
		}
	}
}

// RegisterSubmit re-validates every gate, runs the orchestrator, and
// destroys the draft on success. On a stage failure the underlying message
// is surfaced verbatim; the user restarts the wizard (no partial resume).
// POST /api/register/{id}/submit
func RegisterSubmit(store *wizard.Store, orc *registration.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var snapshot *wizard.Draft
		err := store.Update(id, func(d *wizard.Draft) error {
			for step := wizard.FirstStep; step < wizard.LastStep; step++ {
				if res := wizard.CanAdvance(step, d); !res.OK {
					writeJSON(w, http.StatusUnprocessableEntity, res)
					return errHandled
				}
			}
			snapshot = d
			return nil
		})
		if errors.Is(err, errHandled) {
			return
		}
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		result, err := orc.Provision(r.Context(), snapshot)
		if err != nil {
			var se *registration.StageError
			if errors.As(err, &se) {
				writeJSON(w, http.StatusBadGateway, map[string]string{
					"stage": string(se.Stage),
					"error": se.Err.Error(),
				})
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		store.Delete(id)
		writeJSON(w, http.StatusOK, result)
	}
}

var (
	errBadRequest = errors.New("bad request")
	errHandled    = errors.New("handled")
)

// withDraft wraps the mutator endpoints: load draft, apply, echo the draft.
func withDraft(store *wizard.Store, apply func(*wizard.Draft, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		err := store.Update(id, func(d *wizard.Draft) error {
			if err := apply(d, r); err != nil {
				return err
			}
			writeJSON(w, http.StatusOK, d)
			return nil
		})
		switch {
		case err == nil:
		case errors.Is(err, wizard.ErrDraftNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
	}
}
