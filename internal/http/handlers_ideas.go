package http

import (
	"net/http"
	"net/url"
	"strconv"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

type ideasPage struct {
	Goals         []services.GoalView
	Filter        storage.GoalFilter
	Circumference int
}

type ideaEditPage struct {
	View          services.GoalView
	Circumference int
}

func (s *Server) handleListIdeas(w http.ResponseWriter, r *http.Request) {
	s.renderIdeas(w, r, http.StatusOK, nil, nil)
}

// renderIdeas draws the goal list with the create form underneath; errs and
// form carry a rejected submission back to the user.
func (s *Server) renderIdeas(w http.ResponseWriter, r *http.Request, status int, errs core.ValidationErrors, form url.Values) {
	f := ParseGoalFilter(r.URL.Query())
	goals, err := s.goals.List(r.Context(), auth.UserIDFromContext(r.Context()), f)
	if err != nil {
		s.handleServiceError(w, r, err, log.OpList)
		return
	}
	s.render(w, r, status, "page_ideas.html", pageData{
		Title:  "Ideas",
		Errors: errs,
		Form:   form,
		Data: ideasPage{
			Goals:         goals,
			Filter:        f,
			Circumference: s.goals.Circumference(),
		},
	})
}

func (s *Server) handleCreateIdea(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Could not read the form.")
		return
	}

	in, errs := ParseGoalInput(p.Get)
	if errs != nil {
		s.renderIdeas(w, r, http.StatusUnprocessableEntity, errs, p.Values())
		return
	}

	userID := auth.UserIDFromContext(ctx)
	g, err := s.goals.Create(ctx, userID, in)
	if err != nil {
		if verrs, ok := validationErrors(err); ok {
			s.renderIdeas(w, r, http.StatusUnprocessableEntity, verrs, p.Values())
			return
		}
		s.handleServiceError(w, r, err, log.OpCreate)
		return
	}

	s.appMetrics.goalsCreated.Add(1)
	s.logger.WithComponent(log.ComponentGoals).InfoContext(ctx, "Goal created",
		log.FieldUserID, userID,
		log.FieldGoalID, g.ID,
		log.FieldOperation, log.OpCreate)
	redirectAfterPost(w, r, "/ideas", NewHTMXResponse().
		TriggerIdeaChanged(g.ID, string(g.Status)).
		Notify(NotificationSuccess, "Idea saved"))
}

func (s *Server) handleEditIdeaForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	view, err := s.goals.Get(r.Context(), auth.UserIDFromContext(r.Context()), id)
	if err != nil {
		s.handleServiceError(w, r, err, log.OpRead)
		return
	}
	s.renderIdeaEdit(w, r, http.StatusOK, view, nil, goalForm(view.Goal))
}

func (s *Server) renderIdeaEdit(w http.ResponseWriter, r *http.Request, status int, view services.GoalView, errs core.ValidationErrors, form url.Values) {
	s.render(w, r, status, "page_idea_edit.html", pageData{
		Title:  "Edit idea",
		Errors: errs,
		Form:   form,
		Data:   ideaEditPage{View: view, Circumference: s.goals.Circumference()},
	})
}

// handleUpdateIdea saves the edit form. Every requirement of the goal is set
// from its req_{id} checkbox; new requirement lines are appended.
func (s *Server) handleUpdateIdea(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	userID := auth.UserIDFromContext(ctx)

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Could not read the form.")
		return
	}

	in, errs := ParseGoalInput(p.Get)
	if errs == nil {
		g, err := s.goals.Update(ctx, userID, id, in, ParseCheckedRequirements(p.Values()))
		if err == nil {
			s.appMetrics.goalsUpdated.Add(1)
			s.logger.WithComponent(log.ComponentGoals).InfoContext(ctx, "Goal updated",
				log.FieldUserID, userID,
				log.FieldGoalID, id,
				log.FieldOperation, log.OpUpdate)
			redirectAfterPost(w, r, "/ideas", NewHTMXResponse().
				TriggerIdeaChanged(id, string(g.Status)).
				Notify(NotificationSuccess, "Idea updated"))
			return
		}
		verrs, isValidation := validationErrors(err)
		if !isValidation {
			s.handleServiceError(w, r, err, log.OpUpdate)
			return
		}
		errs = verrs
	}

	view, err := s.goals.Get(ctx, userID, id)
	if err != nil {
		s.handleServiceError(w, r, err, log.OpRead)
		return
	}
	s.renderIdeaEdit(w, r, http.StatusUnprocessableEntity, view, errs, p.Values())
}

func (s *Server) handleMarkIdeaDone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	userID := auth.UserIDFromContext(ctx)
	if err := s.goals.MarkDone(ctx, userID, id); err != nil {
		s.handleServiceError(w, r, err, log.OpUpdate)
		return
	}
	s.appMetrics.goalsUpdated.Add(1)
	s.logger.WithComponent(log.ComponentGoals).InfoContext(ctx, "Goal marked done",
		log.FieldUserID, userID,
		log.FieldGoalID, id)
	redirectAfterPost(w, r, "/ideas", NewHTMXResponse().
		TriggerIdeaChanged(id, string(core.StatusDone)).
		Notify(NotificationSuccess, "Marked as done"))
}

func (s *Server) handleDeleteIdeaConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	view, err := s.goals.Get(r.Context(), auth.UserIDFromContext(r.Context()), id)
	if err != nil {
		s.handleServiceError(w, r, err, log.OpRead)
		return
	}
	s.render(w, r, http.StatusOK, "page_idea_delete.html", pageData{
		Title: "Delete idea",
		Data:  view,
	})
}

func (s *Server) handleDeleteIdea(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	userID := auth.UserIDFromContext(ctx)
	if err := s.goals.Delete(ctx, userID, id); err != nil {
		s.handleServiceError(w, r, err, log.OpDelete)
		return
	}
	s.appMetrics.goalsDeleted.Add(1)
	s.logger.WithComponent(log.ComponentGoals).InfoContext(ctx, "Goal deleted",
		log.FieldUserID, userID,
		log.FieldGoalID, id,
		log.FieldOperation, log.OpDelete)
	redirectAfterPost(w, r, "/ideas", NewHTMXResponse().
		TriggerIdeaDeleted(id).
		Notify(NotificationSuccess, "Idea deleted"))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		NotFoundError("Not found").Write(w)
		return
	}
	s.renderError(w, r, http.StatusNotFound, "That page does not exist or is not yours.")
}

// goalForm prefills the edit form from a stored goal.
func goalForm(g core.Goal) url.Values {
	return url.Values{
		"id":          {strconv.FormatInt(g.ID, 10)},
		"title":       {g.Title},
		"objective":   {g.Objective},
		"category":    {g.Category},
		"priority":    {string(g.Priority)},
		"status":      {string(g.Status)},
		"target_date": {g.TargetDate.String()},
	}
}
