package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const missingProjectFields = "Missing required fields: title, summary, and content are required"

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo database.ProjectRepo
}

func newProjectHandler(projectRepo database.ProjectRepo) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
	}
}

// deletedProject is returned by deleteProject
type deletedProject struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// getAllProjects lists every project, featured first, newest first.
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}
		if projects == nil {
			projects = []models.Project{}
		}

		h.responder.WriteData(w, http.StatusOK, projects)
	}
}

// getProject looks a project up by ID, falling back to its slug.
// @Router /api/projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "projectID")

		project, err := h.projectRepo.FindByID(r.Context(), key)
		if errs.IsInvalidID(err) || errs.IsNotFound(err) {
			project, err = h.projectRepo.FindBySlug(r.Context(), key)
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, project)
	}
}

// createProject stores a new project; the slug is derived from the title.
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var project models.Project
		if err := decodeJSON(w, r, "project", &project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// store-maintained fields
		project.ID = ""
		project.CreatedAt = time.Time{}
		project.UpdatedAt = time.Time{}

		project.Normalize()
		if project.MissingRequired() {
			h.responder.WriteError(w, errs.NewBadRequestError(missingProjectFields))
			return
		}

		project.Slug = models.Slugify(project.Title)
		if project.Slug == "" {
			h.responder.WriteValidationError(w, "title", "Title must contain at least one letter or digit")
			return
		}
		project.ApplyDefaults(time.Now())

		if err := h.projectRepo.Add(r.Context(), &project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		h.logger.Info().Str("projectId", project.ID).Str("slug", project.Slug).Msg("Project created")
		h.responder.WriteData(w, http.StatusCreated, project)
	}
}

// updateProject merges the provided fields onto the stored project.
// @Router /api/projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")

		existing, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}

		project := *existing
		if err := decodeJSON(w, r, "project", &project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project.ID = existing.ID
		project.CreatedAt = existing.CreatedAt
		project.Slug = existing.Slug

		project.Normalize()
		if project.MissingRequired() {
			h.responder.WriteError(w, errs.NewBadRequestError(missingProjectFields))
			return
		}

		// a new title means a new slug; the repo rejects one owned by another project
		if project.Title != existing.Title {
			project.Slug = models.Slugify(project.Title)
			if project.Slug == "" {
				h.responder.WriteValidationError(w, "title", "Title must contain at least one letter or digit")
				return
			}
		}
		project.ApplyDefaults(existing.Date)

		if err := h.projectRepo.Update(r.Context(), &project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, project)
	}
}

// deleteProject removes a project and returns its ID and title.
// @Router /api/projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")

		deleted, err := h.projectRepo.Delete(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		h.logger.Info().Str("projectId", deleted.ID).Msg("Project deleted")
		h.responder.WriteMessage(w, http.StatusOK, "Project deleted successfully", deletedProject{
			ID:    deleted.ID,
			Title: deleted.Title,
		})
	}
}
