package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"balcvetov/api/internal/models"
	"balcvetov/api/internal/repository"
)

const defaultAuthor = "Бал цветов"

type postRequest struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Excerpt   string  `json:"excerpt"`
	ImageURL  *string `json:"image_url"`
	Author    *string `json:"author"`
	Published bool    `json:"published"`
}

type postResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Excerpt   string    `json:"excerpt"`
	ImageURL  string    `json:"image_url"`
	Author    string    `json:"author"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
}

func newPostResponse(p models.BlogPost) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Excerpt:   p.Excerpt,
		ImageURL:  p.ImageURL,
		Author:    p.Author,
		Published: p.Published,
		CreatedAt: p.CreatedAt,
	}
}

func (r postRequest) toModel() (models.BlogPost, bool) {
	post := models.BlogPost{
		Title:     strings.TrimSpace(r.Title),
		Content:   r.Content,
		Excerpt:   r.Excerpt,
		ImageURL:  defaultImageURL,
		Author:    defaultAuthor,
		Published: r.Published,
	}
	if r.ImageURL != nil && *r.ImageURL != "" {
		post.ImageURL = *r.ImageURL
	}
	if r.Author != nil && *r.Author != "" {
		post.Author = *r.Author
	}
	return post, post.Title != "" && strings.TrimSpace(post.Content) != ""
}

func (h HandlerSet) Blog(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodGet:
		h.getPosts(c)
	case http.MethodPost:
		h.createPost(c)
	case http.MethodPut:
		h.updatePost(c)
	default:
		errorJSON(c, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}
}

func (h HandlerSet) getPosts(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := queryID(c, "id")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid post ID")
		return
	}
	if id != 0 {
		post, err := h.blog.GetPublished(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrPostNotFound) {
				errorJSON(c, http.StatusNotFound, "Post not found")
				return
			}
			internalError(c, err, "get post failed")
			return
		}
		c.JSON(http.StatusOK, newPostResponse(post))
		return
	}

	posts, err := h.blog.ListPublished(ctx)
	if err != nil {
		internalError(c, err, "list posts failed")
		return
	}
	resp := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, newPostResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) createPost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	post, ok := req.toModel()
	if !ok {
		errorJSON(c, http.StatusBadRequest, "Title and content are required")
		return
	}

	id, err := h.blog.Create(c.Request.Context(), post)
	if err != nil {
		internalError(c, err, "create post failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Post created"})
}

func (h HandlerSet) updatePost(c *gin.Context) {
	id, err := queryID(c, "id")
	if err != nil || id == 0 {
		errorJSON(c, http.StatusBadRequest, "Post ID required")
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	post, ok := req.toModel()
	if !ok {
		errorJSON(c, http.StatusBadRequest, "Title and content are required")
		return
	}
	post.ID = id

	if err := h.blog.Update(c.Request.Context(), post); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			errorJSON(c, http.StatusNotFound, "Post not found")
			return
		}
		internalError(c, err, "update post failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post updated"})
}
