package handlers

import (
	"errors"
	"net/http"

	"github.com/memoryschool/portal/internal/accounts"
	"github.com/memoryschool/portal/internal/notify"
)

// The /functions/ endpoints mirror the deployment where account creation and
// message dispatch run as standalone functions invoked cross-origin by the
// web client, so both answer pre-flight and send permissive CORS headers.

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
}

// Preflight answers OPTIONS with an empty 200.
func Preflight(w http.ResponseWriter, _ *http.Request) {
	setCORS(w)
	w.WriteHeader(http.StatusOK)
}

// RegisterClientUser creates a pre-verified identity, bypassing the public
// signup throttle. Requires the privileged accounts service, which is only
// wired inside this trusted process.
// POST /functions/register-client-user
func RegisterClientUser(svc *accounts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)

		var req struct {
			Email     string `json:"email"`
			Password  string `json:"password"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		}
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
			writeError(w, http.StatusBadRequest, "Missing email, password, first_name, or last_name")
			return
		}

		userID, err := svc.Create(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, accounts.ErrMissingFields) ||
				errors.Is(err, accounts.ErrInvalidEmail) ||
				errors.Is(err, accounts.ErrEmailTaken) {
				status = http.StatusBadRequest
			}
			writeError(w, status, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"userId": userID})
	}
}

// SendWhatsAppMessage dispatches one templated message.
// POST /functions/send-whatsapp-message
func SendWhatsAppMessage(d *notify.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)

		var req struct {
			Name                string `json:"name"`
			Phone               string `json:"phone"`
			ClientDashboardLink string `json:"clientDashboardLink"`
			MessageType         string `json:"messageType"`
		}
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		err := d.Send(r.Context(), req.Name, req.Phone, req.ClientDashboardLink, req.MessageType)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]string{
				"message": "WhatsApp message (" + req.MessageType + ") sent.",
			})
		case errors.Is(err, notify.ErrMissingFields), errors.Is(err, notify.ErrUnknownTemplate):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, notify.ErrNotConfigured):
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

// PublicSignup is the throttled self-service account path.
// POST /api/signup
func PublicSignup(svc *accounts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email     string `json:"email"`
			Password  string `json:"password"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		}
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		userID, err := svc.PublicSignup(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]string{"userId": userID})
		case errors.Is(err, accounts.ErrThrottled):
			writeError(w, http.StatusTooManyRequests, err.Error())
		case errors.Is(err, accounts.ErrMissingFields),
			errors.Is(err, accounts.ErrInvalidEmail),
			errors.Is(err, accounts.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	}
}
