package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"balcvetov/api/internal/database"
	"balcvetov/api/internal/models"
)

type BlogRepository struct {
	db database.DBTX
}

func NewBlogRepository(db database.DBTX) *BlogRepository {
	return &BlogRepository{db: db}
}

func (r *BlogRepository) ListPublished(ctx context.Context) ([]models.BlogPost, error) {
	const query = `
		SELECT id, title, excerpt, image_url, author, created_at
		FROM blog_posts
		WHERE published = true
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]models.BlogPost, 0)
	for rows.Next() {
		post := models.BlogPost{Published: true}
		if err := rows.Scan(&post.ID, &post.Title, &post.Excerpt, &post.ImageURL, &post.Author, &post.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// GetPublished hides drafts: an unpublished post is reported as not found.
func (r *BlogRepository) GetPublished(ctx context.Context, id int64) (models.BlogPost, error) {
	const query = `
		SELECT id, title, content, excerpt, image_url, author, published, created_at
		FROM blog_posts
		WHERE id = $1 AND published = true
	`

	var post models.BlogPost
	err := r.db.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Excerpt,
		&post.ImageURL,
		&post.Author,
		&post.Published,
		&post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.BlogPost{}, ErrPostNotFound
		}
		return models.BlogPost{}, err
	}
	return post, nil
}

func (r *BlogRepository) Create(ctx context.Context, post models.BlogPost) (int64, error) {
	const query = `
		INSERT INTO blog_posts (title, content, excerpt, image_url, author, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		post.Title,
		post.Content,
		post.Excerpt,
		post.ImageURL,
		post.Author,
		post.Published,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *BlogRepository) Update(ctx context.Context, post models.BlogPost) error {
	const query = `
		UPDATE blog_posts
		SET title = $2, content = $3, excerpt = $4, image_url = $5,
		    author = $6, published = $7, updated_at = NOW()
		WHERE id = $1
	`

	cmd, err := r.db.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		post.Excerpt,
		post.ImageURL,
		post.Author,
		post.Published,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}
