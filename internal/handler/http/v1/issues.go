package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/sirupsen/logrus"
)

// @Summary Report a new issue
// @Description Create a civic issue. Citizens only, limited per day. Empty category is detected from the text.
// @Tags Issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param issue body CreateIssueRequest true "Issue creation request"
// @Success 201 {object} IssueResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Citizen role required"
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /issues [post]
func (h *Handler) createIssue(c *gin.Context) {
	var input CreateIssueRequest
	identity, _ := currentIdentity(c)
	log := h.logger.WithField("method", "createIssue").WithField("user_id", identity.UserID)
	if !h.bindJSON(c, log, &input) {
		return
	}

	model := DTOToIssueModel(input, identity.UserID)
	if model.Category == "" {
		model.Category, _ = h.issueService.Classify(input.Title + " " + input.Description)
		log.WithField("category", model.Category).Debug("Category detected from text")
	}

	if err := h.issueService.CreateIssue(c.Request.Context(), model); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToIssueResponse(model))
}

// @Summary Get a list of issues
// @Description Get a filtered, sorted and paginated list of issues
// @Tags Issues
// @Produce json
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param priority query string false "Priority filter"
// @Param department query string false "Department filter"
// @Param city query string false "City filter, case-insensitive"
// @Param state query string false "State filter, case-insensitive"
// @Param lat query number false "Latitude of the search center"
// @Param lng query number false "Longitude of the search center"
// @Param radius query number false "Search radius in meters" default(5000)
// @Param from query string false "Created on or after, YYYY-MM-DD"
// @Param to query string false "Created on or before, YYYY-MM-DD"
// @Param sort_by query string false "created_at, updated_at or votes" default(created_at)
// @Param order query string false "asc or desc" default(desc)
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Number of items per page" default(10)
// @Success 200 {object} IssueListResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /issues [get]
func (h *Handler) listIssues(c *gin.Context) {
	log := h.logger.WithField("method", "listIssues")
	var query IssueListQuery
	if !h.bindQuery(c, log, &query) {
		return
	}
	if (query.Latitude == nil) != (query.Longitude == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng must be provided together"})
		return
	}
	h.respondIssuePage(c, log, QueryToIssueFilter(query))
}

// @Summary Find issues nearby
// @Description Get issues within a radius of a point. Accepts the same filters as the issue list.
// @Tags Issues
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius query number false "Search radius in meters" default(5000)
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Number of items per page" default(10)
// @Success 200 {object} IssueListResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /issues/nearby [get]
func (h *Handler) nearbyIssues(c *gin.Context) {
	log := h.logger.WithField("method", "nearbyIssues")
	var query IssueListQuery
	if !h.bindQuery(c, log, &query) {
		return
	}
	if query.Latitude == nil || query.Longitude == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
		return
	}
	h.respondIssuePage(c, log, QueryToIssueFilter(query))
}

func (h *Handler) respondIssuePage(c *gin.Context, log *logrus.Entry, filter models.IssueFilter) {
	page, err := h.issueService.ListIssues(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, IssueListResponse{
		Issues:     ModelsToIssueResponses(page.Issues),
		Pagination: page.Pagination,
	})
}

// @Summary List my issues
// @Description Get issues reported by the current user with per-status counts
// @Tags Issues
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Number of items per page" default(10)
// @Success 200 {object} MyIssuesResponse
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /issues/mine [get]
func (h *Handler) myIssues(c *gin.Context) {
	identity, _ := currentIdentity(c)
	log := h.logger.WithField("method", "myIssues").WithField("user_id", identity.UserID)
	page, pageSize := pageParams(c)

	result, err := h.issueService.ListReporterIssues(c.Request.Context(), identity.UserID,
		models.IssueStatus(c.Query("status")), page, pageSize)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToMyIssuesResponse(result))
}

// @Summary Suggest category and priority
// @Description Detect the issue category and estimate priority from free text
// @Tags Issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param text body ClassifyRequest true "Text to classify"
// @Success 200 {object} ClassifyResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /issues/classify [post]
func (h *Handler) classifyIssue(c *gin.Context) {
	var input ClassifyRequest
	log := h.logger.WithField("method", "classifyIssue")
	if !h.bindJSON(c, log, &input) {
		return
	}

	category, priority := h.issueService.Classify(input.Text)
	c.JSON(http.StatusOK, ClassifyResponse{Category: string(category), Priority: string(priority)})
}

// @Summary Get issue by ID
// @Description Get a single issue with its status history
// @Tags Issues
// @Produce json
// @Param id path string true "Issue ID"
// @Success 200 {object} IssueResponse
// @Failure 400 {object} map[string]string "Invalid issue ID"
// @Failure 404 {object} map[string]string "Issue not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /issues/{id} [get]
func (h *Handler) getIssue(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getIssue").WithField("id", id)

	issue, err := h.issueService.GetIssue(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIssueResponse(issue))
}

// @Summary Change issue status
// @Description Move an issue through its lifecycle. Government only.
// @Tags Issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Issue ID"
// @Param status body UpdateStatusRequest true "New status"
// @Success 200 {object} IssueResponse
// @Failure 400 {object} map[string]string "Invalid issue ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Government role required"
// @Failure 404 {object} map[string]string "Issue not found"
// @Failure 422 {object} map[string]string "Transition not permitted"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /issues/{id}/status [put]
func (h *Handler) updateIssueStatus(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}
	identity, _ := currentIdentity(c)
	log := h.logger.WithField("method", "updateIssueStatus").WithField("id", id)

	var input UpdateStatusRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	issue, err := h.issueService.TransitionStatus(c.Request.Context(), id, models.IssueStatus(input.Status), identity.UserID, input.Comment)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIssueResponse(issue))
}

// @Summary Assign an issue
// @Description Assign an issue to a department and optionally an official. Government only.
// @Tags Issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Issue ID"
// @Param assignment body AssignIssueRequest true "Assignment"
// @Success 200 {object} IssueResponse
// @Failure 400 {object} map[string]string "Invalid issue ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Government role required"
// @Failure 404 {object} map[string]string "Issue or official not found"
// @Failure 422 {object} map[string]string "Issue is closed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /issues/{id}/assign [put]
func (h *Handler) assignIssue(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}
	identity, _ := currentIdentity(c)
	log := h.logger.WithField("method", "assignIssue").WithField("id", id)

	var input AssignIssueRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	var official *uuid.UUID
	if input.OfficialID != "" {
		officialID := uuid.MustParse(input.OfficialID)
		official = &officialID
	}

	issue, err := h.issueService.AssignIssue(c.Request.Context(), id, input.Department, official, identity.UserID)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIssueResponse(issue))
}

// @Summary Upvote an issue
// @Description Add the current citizen's vote. Each citizen votes once per issue.
// @Tags Issues
// @Produce json
// @Security BearerAuth
// @Param id path string true "Issue ID"
// @Success 200 {object} VoteResponse
// @Failure 400 {object} map[string]string "Invalid issue ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Citizen role required"
// @Failure 404 {object} map[string]string "Issue not found"
// @Failure 409 {object} map[string]string "Already upvoted"
// @Failure 422 {object} map[string]string "Issue is closed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /issues/{id}/upvote [post]
func (h *Handler) upvoteIssue(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}
	identity, _ := currentIdentity(c)
	log := h.logger.WithField("method", "upvoteIssue").WithField("id", id)

	result, err := h.issueService.Upvote(c.Request.Context(), id, identity.UserID)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToVoteResponse(result))
}

// @Summary Add resolution proof
// @Description Attach resolution media and description. Resolves an in-progress issue. Government only.
// @Tags Issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Issue ID"
// @Param proof body ResolutionRequest true "Resolution proof"
// @Success 200 {object} IssueResponse
// @Failure 400 {object} map[string]string "Invalid issue ID, request body or missing media"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Government role required"
// @Failure 404 {object} map[string]string "Issue not found"
// @Failure 422 {object} map[string]string "Proof not permitted in current status"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /issues/{id}/resolution [post]
func (h *Handler) addResolution(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}
	identity, _ := currentIdentity(c)
	log := h.logger.WithField("method", "addResolution").WithField("id", id)

	var input ResolutionRequest
	if !h.bindJSON(c, log, &input) {
		return
	}

	issue, err := h.issueService.AddResolutionProof(c.Request.Context(), id, identity.UserID, input.Description, input.Images)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIssueResponse(issue))
}
