package mysql

import (
	"context"

	"yatube/internal/model"
	"yatube/internal/repository"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return translate(r.DB.WithContext(ctx).Omit("Author", "Group").Create(post).Error)
}

// Update writes the editable columns only; author and created_at never change.
func (r *PostRepository) Update(ctx context.Context, post *model.Post) error {
	tx := r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", post.ID).
		Select("text", "group_id").
		Updates(map[string]any{"text": post.Text, "group_id": post.GroupID})
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected > 0 {
		return nil
	}
	// MySQL reports changed rows, so an unchanged post also affects none.
	var n int64
	if err := r.DB.WithContext(ctx).Model(&model.Post{}).Where("id = ?", post.ID).Count(&n).Error; err != nil {
		return translate(err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *PostRepository) Count(ctx context.Context, filter model.PostFilter) (int64, error) {
	var n int64
	err := r.filtered(ctx, filter).Model(&model.Post{}).Count(&n).Error
	return n, translate(err)
}

// List returns one page of posts, newest first.
func (r *PostRepository) List(ctx context.Context, filter model.PostFilter, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.filtered(ctx, filter).
		Preload("Author").
		Preload("Group").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, translate(err)
}

func (r *PostRepository) filtered(ctx context.Context, filter model.PostFilter) *gorm.DB {
	q := r.DB.WithContext(ctx)
	if filter.AuthorID != 0 {
		q = q.Where("author_id = ?", filter.AuthorID)
	}
	if filter.GroupID != 0 {
		q = q.Where("group_id = ?", filter.GroupID)
	}
	return q
}
