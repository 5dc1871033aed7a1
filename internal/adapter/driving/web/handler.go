// Package web implements the HTML GUI driving adapter using html/template pages.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	vm "github.com/ericfisherdev/costumedesk/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/costumedesk/internal/application"
	"github.com/ericfisherdev/costumedesk/internal/domain/model"
	"github.com/ericfisherdev/costumedesk/internal/domain/port/driven"
)

// Session is the login state the GUI reads and changes.
type Session interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	IsAuthenticated() bool
}

// Notifications is the flash queue. Failed API calls are published to it by
// the transport client; handlers add their own success messages.
type Notifications interface {
	driven.Notifier
	Drain() []model.Notification
}

// Handler is the web GUI driving adapter that serves HTML pages.
type Handler struct {
	session Session
	api     driven.CostumeAPI
	notes   Notifications
	pages   *renderer
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. It fails if
// the embedded templates do not parse.
func NewHandler(session Session, api driven.CostumeAPI, notes Notifications, logger *slog.Logger) (*Handler, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	return &Handler{
		session: session,
		api:     api,
		notes:   notes,
		pages:   pages,
		logger:  logger,
	}, nil
}

// LoginPage renders the sign-in form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageLogin, pageTitle("Sign in"), vm.LoginViewModel{})
}

// Login runs the login handshake and redirects to the costume list.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	err := h.session.Login(r.Context(), username, r.FormValue("password"))
	if err != nil {
		// API failures were already published by the transport client.
		if errors.Is(err, application.ErrMissingCredentials) {
			h.flash(r.Context(), model.NotificationError, "Enter your username and password.")
		}
		h.logger.Info("sign in failed", "username", username, "error", err)
		h.render(w, r, http.StatusUnauthorized, pageLogin, pageTitle("Sign in"), vm.LoginViewModel{Username: username})
		return
	}

	http.Redirect(w, r, model.PathCostumes, http.StatusSeeOther)
}

// Logout signs out and returns to the login page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		h.logger.Error("sign out incomplete", "error", err)
	}
	http.Redirect(w, r, model.PathLogin, http.StatusSeeOther)
}

// ListCostumes renders the costume catalog, optionally filtered by ?q=.
func (h *Handler) ListCostumes(w http.ResponseWriter, r *http.Request) {
	costumes, err := h.api.ListCostumes(r.Context())
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.logger.Warn("failed to list costumes", "error", err)
		costumes = nil
	}

	data := toCostumeListViewModel(costumes, r.URL.Query().Get("q"))
	h.render(w, r, http.StatusOK, pageCostumes, pageTitle("Costumes"), data)
}

// ShowCostume renders one costume.
func (h *Handler) ShowCostume(w http.ResponseWriter, r *http.Request) {
	costume, ok := h.loadCostume(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, pageCostume, pageTitle(costumeLabel(*costume)), toCostumeDetailViewModel(*costume))
}

// NewCostume renders an empty create form.
func (h *Handler) NewCostume(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageForm, pageTitle("New costume"), newCostumeFormViewModel())
}

// CreateCostume validates the form and creates the costume.
func (h *Handler) CreateCostume(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form := newCostumeFormViewModel()
	raw, in, errs := parseCostumeForm(r.PostForm)
	form.Values, form.Errors = raw, errs
	if len(errs) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, pageForm, pageTitle("New costume"), form)
		return
	}

	created, err := h.api.CreateCostume(r.Context(), in)
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.logger.Warn("failed to create costume", "name", in.Name, "error", err)
		h.render(w, r, upstreamStatus(err), pageForm, pageTitle("New costume"), form)
		return
	}

	h.flash(r.Context(), model.NotificationSuccess, fmt.Sprintf("Created %q.", in.Name))
	target := model.PathCostumes
	if created != nil && created.ID != "" {
		target = costumePath(created.ID)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// EditCostume renders the edit form prefilled from the backend.
func (h *Handler) EditCostume(w http.ResponseWriter, r *http.Request) {
	costume, ok := h.loadCostume(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, pageForm, pageTitle("Edit", costumeLabel(*costume)), editCostumeFormViewModel(*costume))
}

// UpdateCostume validates the form and replaces the costume.
func (h *Handler) UpdateCostume(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	form := editCostumeFormViewModel(model.Costume{ID: id})
	raw, in, errs := parseCostumeForm(r.PostForm)
	form.Values, form.Errors = raw, errs
	if len(errs) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, pageForm, pageTitle("Edit costume"), form)
		return
	}

	if _, err := h.api.UpdateCostume(r.Context(), id, in); err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.logger.Warn("failed to update costume", "id", id, "error", err)
		h.render(w, r, upstreamStatus(err), pageForm, pageTitle("Edit costume"), form)
		return
	}

	h.flash(r.Context(), model.NotificationSuccess, "Saved changes.")
	http.Redirect(w, r, costumePath(id), http.StatusSeeOther)
}

// DeleteCostume removes the costume and returns to the list.
func (h *Handler) DeleteCostume(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.api.DeleteCostume(r.Context(), id); err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.logger.Warn("failed to delete costume", "id", id, "error", err)
		http.Redirect(w, r, costumePath(id), http.StatusSeeOther)
		return
	}

	h.flash(r.Context(), model.NotificationSuccess, "Costume deleted.")
	http.Redirect(w, r, model.PathCostumes, http.StatusSeeOther)
}

// DownloadCostume streams the costume document to the browser as an
// attachment. Nothing is staged on the server's disk.
func (h *Handler) DownloadCostume(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	aw := &attachmentWriter{w: w, filename: "costume-" + id + ".json"}

	err := h.api.StreamCostume(r.Context(), id, aw)
	if err == nil {
		aw.finish()
		return
	}
	if aw.started {
		// Headers are gone; the client sees a truncated body.
		h.logger.Warn("costume export interrupted", "id", id, "error", err)
		return
	}
	if h.expired(w, r, err) {
		return
	}
	h.logger.Warn("failed to export costume", "id", id, "error", err)
	http.Redirect(w, r, costumePath(id), http.StatusSeeOther)
}

// loadCostume fetches the {id} costume. On failure it has already responded.
func (h *Handler) loadCostume(w http.ResponseWriter, r *http.Request) (*model.Costume, bool) {
	id := r.PathValue("id")
	costume, err := h.api.GetCostume(r.Context(), id)
	if err != nil {
		if h.expired(w, r, err) {
			return nil, false
		}
		h.logger.Warn("failed to load costume", "id", id, "error", err)
		http.Redirect(w, r, model.PathCostumes, http.StatusSeeOther)
		return nil, false
	}
	return costume, true
}

// expired signs out and redirects to the login page when the backend
// rejected the credential.
func (h *Handler) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if driven.HTTPStatus(err) != http.StatusUnauthorized {
		return false
	}

	h.logger.Info("credential rejected by backend, signing out")
	if logoutErr := h.session.Logout(r.Context()); logoutErr != nil {
		h.logger.Error("sign out incomplete", "error", logoutErr)
	}
	h.flash(r.Context(), model.NotificationInfo, "Your session has expired. Please sign in again.")
	http.Redirect(w, r, model.PathLogin, http.StatusSeeOther)
	return true
}

func (h *Handler) flash(ctx context.Context, level model.NotificationLevel, msg string) {
	h.notes.Notify(ctx, model.Notification{Level: level, Message: msg, CreatedAt: time.Now()})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	p := vm.Page{
		Title:         title,
		Authenticated: h.session.IsAuthenticated(),
		CSRFToken:     csrfToken(w, r),
		Flashes:       toFlashViewModels(h.notes.Drain()),
		Data:          data,
	}

	if err := h.pages.render(w, status, page, p); err != nil {
		h.logger.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// upstreamStatus mirrors client errors from the backend and maps everything
// else to 502.
func upstreamStatus(err error) int {
	status := driven.HTTPStatus(err)
	if status >= 400 && status < 500 {
		return status
	}
	return http.StatusBadGateway
}
