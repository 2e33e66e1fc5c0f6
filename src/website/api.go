package website

import (
	"errors"
	"net/http"
	"time"

	"github.com/newsdeskhq/newsdesk/src/db"
	"github.com/newsdeskhq/newsdesk/src/deskdata"
	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/newsdeskhq/newsdesk/src/perms"
	"github.com/newsdeskhq/newsdesk/src/workflow"
	"github.com/google/uuid"
)

func WhoAmI(c *RequestContext) ResponseData {
	var res ResponseData
	res.WriteJson(map[string]any{
		"id":       c.CurrentUser.ID,
		"username": c.CurrentUser.Username,
		"name":     c.CurrentUser.BestName(),
		"role":     c.CurrentUser.Role.String(),
	})
	return res
}

type createArticleInput struct {
	Category        string   `json:"category"`
	Title           string   `json:"title"`
	Body            string   `json:"body"`
	Tags            []string `json:"tags"`
	FeaturedImageID *string  `json:"featured_image_id"`
	Excerpt         string   `json:"excerpt"`
	MetaDescription string   `json:"meta_description"`
}

func CreateArticle(c *RequestContext) ResponseData {
	var input createArticleInput
	err := c.DecodeJson(&input)
	if err != nil {
		return BadRequest("invalid request body: " + err.Error())
	}

	category := models.Category(input.Category)
	if !category.Valid() {
		return BadRequest("unknown category: " + input.Category)
	}
	if input.Title == "" {
		return BadRequest("title is required")
	}

	var imageID *uuid.UUID
	if input.FeaturedImageID != nil {
		parsed, err := uuid.Parse(*input.FeaturedImageID)
		if err != nil {
			return BadRequest("featured_image_id is not a valid uuid")
		}
		imageID = &parsed
	}

	article, err := deskdata.CreateArticle(c, c.Conn, deskdata.CreateArticleInput{
		AuthorID:        c.CurrentUser.ID,
		Category:        category,
		Title:           input.Title,
		Body:            input.Body,
		Tags:            input.Tags,
		FeaturedImageID: imageID,
		Excerpt:         input.Excerpt,
		MetaDescription: input.MetaDescription,
	})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	var res ResponseData
	res.StatusCode = http.StatusCreated
	res.WriteJson(articleJson(article))
	return res
}

func GetArticle(c *RequestContext) ResponseData {
	articleID, err := c.PathParamInt("id")
	if err != nil {
		return FourOhFour(c)
	}

	article, err := deskdata.FetchArticle(c, c.Conn, articleID)
	if errors.Is(err, db.NotFound) {
		return FourOhFour(c)
	} else if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	var res ResponseData
	res.WriteJson(articleJson(article))
	return res
}

func ListArticles(c *RequestContext) ResponseData {
	q := deskdata.ArticlesQuery{}
	query := c.URL().Query()
	if category := query.Get("category"); category != "" {
		q.Categories = []models.Category{models.Category(category)}
	}
	if statusName := query.Get("status"); statusName != "" {
		status, ok := models.ParseArticleStatus(statusName)
		if !ok {
			return BadRequest("unknown status: " + statusName)
		}
		q.Statuses = []models.ArticleStatus{status}
	}
	if query.Get("mine") != "" {
		q.AuthorIDs = []int{c.CurrentUser.ID}
	}

	articles, err := deskdata.FetchArticles(c, c.Conn, q)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	result := make([]map[string]any, 0, len(articles))
	for _, article := range articles {
		result = append(result, articleJson(article))
	}
	var res ResponseData
	res.WriteJson(map[string]any{"articles": result})
	return res
}

type actionInput struct {
	Action           string  `json:"action"`
	Feedback         string  `json:"feedback"`
	FeedbackInternal bool    `json:"feedback_internal"`
	Priority         *string `json:"priority"`
	ScheduledAt      *string `json:"scheduled_at"`
	AddToHomepage    bool    `json:"add_to_homepage"`
	SocialShare      bool    `json:"social_share"`
}

// The single mutation endpoint for an article's editorial life. All state
// changes flow through here into the workflow engine; nothing else writes
// article status.
func ArticleAction(c *RequestContext) ResponseData {
	articleID, err := c.PathParamInt("id")
	if err != nil {
		return FourOhFour(c)
	}

	var input actionInput
	err = c.DecodeJson(&input)
	if err != nil {
		return BadRequest("invalid request body: " + err.Error())
	}

	action, ok := workflow.ParseAction(input.Action)
	if !ok {
		return BadRequest("unknown action: " + input.Action)
	}

	req := workflow.Request{
		Action:           action,
		Feedback:         input.Feedback,
		FeedbackInternal: input.FeedbackInternal,
		AddToHomepage:    input.AddToHomepage,
		SocialShare:      input.SocialShare,
	}
	if input.Priority != nil {
		priority, ok := models.ParseReviewPriority(*input.Priority)
		if !ok {
			return BadRequest("unknown priority: " + *input.Priority)
		}
		req.Priority = &priority
	}
	if input.ScheduledAt != nil {
		scheduledAt, err := time.Parse(time.RFC3339, *input.ScheduledAt)
		if err != nil {
			return BadRequest("scheduled_at must be RFC 3339")
		}
		req.ScheduledAt = &scheduledAt
	}

	newStatus, err := workflow.PerformAction(c, c.Conn, c.CurrentUser.ID, articleID, req)
	if err != nil {
		return workflowErrorResponse(c, err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{"status": newStatus.String()})
	return res
}

func GetChecklist(c *RequestContext) ResponseData {
	articleID, err := c.PathParamInt("id")
	if err != nil {
		return FourOhFour(c)
	}

	checklist, err := workflow.Checklist(c, c.Conn, articleID)
	if err != nil {
		return workflowErrorResponse(c, err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{"checklist": checklist})
	return res
}

func GetActivity(c *RequestContext) ResponseData {
	articleID, err := c.PathParamInt("id")
	if err != nil {
		return FourOhFour(c)
	}

	entries, err := deskdata.FetchActivity(c, c.Conn, articleID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	result := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		result = append(result, map[string]any{
			"actor_id":   entry.ActorID,
			"action":     entry.Action,
			"details":    entry.Details,
			"created_at": entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	var res ResponseData
	res.WriteJson(map[string]any{"activity": result})
	return res
}

func GetFeedback(c *RequestContext) ResponseData {
	articleID, err := c.PathParamInt("id")
	if err != nil {
		return FourOhFour(c)
	}

	review, err := deskdata.FetchReviewForArticle(c, c.Conn, articleID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}
	if review == nil {
		var res ResponseData
		res.WriteJson(map[string]any{"feedback": []any{}})
		return res
	}

	// Internal feedback is for desk eyes only. Authors and other
	// contributors see the public thread.
	includeInternal := perms.HasPermission(c.CurrentUser.Role, models.RoleEditor)
	feedback, err := deskdata.FetchFeedback(c, c.Conn, review.ID, includeInternal)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	result := make([]map[string]any, 0, len(feedback))
	for _, entry := range feedback {
		result = append(result, feedbackJson(entry))
	}
	var res ResponseData
	res.WriteJson(map[string]any{"feedback": result})
	return res
}

type feedbackInput struct {
	Content    string `json:"content"`
	IsInternal bool   `json:"is_internal"`
}

// Adds standalone feedback to an article's review, outside of any state
// change. State-changing feedback (revision requests, rejections) goes
// through the action endpoint instead.
func PostFeedback(c *RequestContext) ResponseData {
	articleID, err := c.PathParamInt("id")
	if err != nil {
		return FourOhFour(c)
	}

	var input feedbackInput
	err = c.DecodeJson(&input)
	if err != nil {
		return BadRequest("invalid request body: " + err.Error())
	}
	if input.Content == "" {
		return BadRequest("content is required")
	}
	if input.IsInternal && !perms.HasPermission(c.CurrentUser.Role, models.RoleEditor) {
		return errJson(http.StatusForbidden, "internal feedback requires editor role")
	}

	review, err := deskdata.FetchReviewForArticle(c, c.Conn, articleID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}
	if review == nil {
		return errJson(http.StatusConflict, "article has never been submitted for review")
	}

	feedbackType := models.FeedbackTypeGeneral
	if perms.HasPermission(c.CurrentUser.Role, models.RoleEditor) && !input.IsInternal {
		feedbackType = models.FeedbackTypeSuggestion
	}

	feedback, err := deskdata.AddFeedback(c, c.Conn, review.ID, c.CurrentUser.ID, feedbackType, input.Content, input.IsInternal)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	var res ResponseData
	res.StatusCode = http.StatusCreated
	res.WriteJson(feedbackJson(feedback))
	return res
}

func GetReviewQueue(c *RequestContext) ResponseData {
	queue, err := deskdata.FetchReviewQueue(c, c.Conn)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	result := make([]map[string]any, 0, len(queue))
	for _, entry := range queue {
		result = append(result, map[string]any{
			"article":      articleJson(&entry.Article),
			"priority":     entry.Review.Priority.String(),
			"reviewer_id":  entry.Review.ReviewerID,
			"submitted_at": entry.Review.SubmittedAt.UTC().Format(time.RFC3339),
		})
	}
	var res ResponseData
	res.WriteJson(map[string]any{"queue": result})
	return res
}

func Unpublish(c *RequestContext) ResponseData {
	articleID, err := c.PathParamInt("id")
	if err != nil {
		return FourOhFour(c)
	}

	err = deskdata.UnpublishArticle(c, c.Conn, c.CurrentUser, articleID)
	if errors.Is(err, db.NotFound) {
		return FourOhFour(c)
	} else if errors.Is(err, deskdata.ErrForbidden) {
		return errJson(http.StatusForbidden, "unpublishing requires admin role")
	} else if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{"ok": true})
	return res
}

type assignmentInput struct {
	EditorID   int    `json:"editor_id"`
	Category   string `json:"category"`
	CanApprove bool   `json:"can_approve"`
	CanPublish bool   `json:"can_publish"`
}

func SetAssignment(c *RequestContext) ResponseData {
	var input assignmentInput
	err := c.DecodeJson(&input)
	if err != nil {
		return BadRequest("invalid request body: " + err.Error())
	}
	category := models.Category(input.Category)
	if !category.Valid() {
		return BadRequest("unknown category: " + input.Category)
	}

	editor, err := deskdata.FetchAccount(c, c.Conn, input.EditorID)
	if errors.Is(err, db.NotFound) {
		return FourOhFour(c)
	} else if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}
	if !perms.HasPermission(editor.Role, models.RoleEditor) {
		return BadRequest("assignments can only be granted to editors")
	}

	assignment, err := deskdata.SetAssignment(c, c.Conn, input.EditorID, category, input.CanApprove, input.CanPublish)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"editor_id":   assignment.EditorID,
		"category":    assignment.Category,
		"can_approve": assignment.CanApprove,
		"can_publish": assignment.CanPublish,
	})
	return res
}

func DeleteAssignment(c *RequestContext) ResponseData {
	editorID, err := c.PathParamInt("editor")
	if err != nil {
		return FourOhFour(c)
	}
	category := models.Category(c.PathParams["category"])
	if !category.Valid() {
		return FourOhFour(c)
	}

	err = deskdata.DeleteAssignment(c, c.Conn, editorID, category)
	if errors.Is(err, db.NotFound) {
		return FourOhFour(c)
	} else if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	var res ResponseData
	res.WriteJson(map[string]any{"ok": true})
	return res
}

type publishingRuleInput struct {
	Category     string `json:"category"`
	MinWordCount int    `json:"min_word_count"`
	MaxWordCount *int   `json:"max_word_count"`
	RequiredTags int    `json:"required_tags"`

	RequiresFeaturedImage   bool `json:"requires_featured_image"`
	RequiresExcerpt         bool `json:"requires_excerpt"`
	RequiresMetaDescription bool `json:"requires_meta_description"`

	RequiresReview     bool `json:"requires_review"`
	AutoPublishTrusted bool `json:"auto_publish_trusted"`
}

func SetPublishingRule(c *RequestContext) ResponseData {
	var input publishingRuleInput
	err := c.DecodeJson(&input)
	if err != nil {
		return BadRequest("invalid request body: " + err.Error())
	}
	category := models.Category(input.Category)
	if !category.Valid() {
		return BadRequest("unknown category: " + input.Category)
	}
	if input.MaxWordCount != nil && *input.MaxWordCount < input.MinWordCount {
		return BadRequest("max_word_count must be at least min_word_count")
	}

	rule, err := deskdata.UpsertPublishingRule(c, c.Conn, category, deskdata.PublishingRuleInput{
		MinWordCount:            input.MinWordCount,
		MaxWordCount:            input.MaxWordCount,
		RequiredTags:            input.RequiredTags,
		RequiresFeaturedImage:   input.RequiresFeaturedImage,
		RequiresExcerpt:         input.RequiresExcerpt,
		RequiresMetaDescription: input.RequiresMetaDescription,
		RequiresReview:          input.RequiresReview,
		AutoPublishTrusted:      input.AutoPublishTrusted,
	})
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	var res ResponseData
	res.WriteJson(publishingRuleJson(rule))
	return res
}

// Answers whether the current account may open an admin path. The UI asks
// this when building its navigation; the answer mirrors the server-side
// route gate exactly.
func CheckNav(c *RequestContext) ResponseData {
	path := c.URL().Query().Get("path")
	if path == "" {
		return BadRequest("path query parameter is required")
	}

	allowed := perms.NewsdeskRouteTable().CanAccessRoute(c.CurrentUser.Role, path)

	var res ResponseData
	res.WriteJson(map[string]any{"path": path, "allowed": allowed})
	return res
}

func articleJson(article *models.Article) map[string]any {
	result := map[string]any{
		"id":        article.ID,
		"author_id": article.AuthorID,
		"category":  article.Category,
		"title":     article.Title,
		"status":    article.Status.String(),
		"tags":      article.Tags,
		"excerpt":   article.Excerpt,
	}
	if article.PublishedAt != nil {
		result["published_at"] = article.PublishedAt.UTC().Format(time.RFC3339)
	}
	if article.ScheduledAt != nil {
		result["scheduled_at"] = article.ScheduledAt.UTC().Format(time.RFC3339)
	}
	return result
}

func feedbackJson(feedback *models.Feedback) map[string]any {
	return map[string]any{
		"id":          feedback.ID,
		"review_id":   feedback.ReviewID,
		"author_id":   feedback.AuthorID,
		"type":        feedback.Type.String(),
		"content":     feedback.Content,
		"is_internal": feedback.IsInternal,
		"created_at":  feedback.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func publishingRuleJson(rule *models.PublishingRule) map[string]any {
	return map[string]any{
		"id":                        rule.ID,
		"category":                  rule.Category,
		"min_word_count":            rule.MinWordCount,
		"max_word_count":            rule.MaxWordCount,
		"required_tags":             rule.RequiredTags,
		"requires_featured_image":   rule.RequiresFeaturedImage,
		"requires_excerpt":          rule.RequiresExcerpt,
		"requires_meta_description": rule.RequiresMetaDescription,
		"requires_review":           rule.RequiresReview,
		"auto_publish_trusted":      rule.AutoPublishTrusted,
	}
}
