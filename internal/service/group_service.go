package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"yatube/internal/model"
	"yatube/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// GroupService manages groups. Groups are created and removed out of band,
// never through the public HTTP surface.
type GroupService struct {
	repo GroupRepository
}

func NewGroupService(repo GroupRepository) *GroupService {
	return &GroupService{repo: repo}
}

func (s *GroupService) Get(ctx context.Context, slug string) (*model.Group, error) {
	g, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, lookupErr("group", err)
	}
	return g, nil
}

func (s *GroupService) List(ctx context.Context) ([]model.Group, error) {
	return s.repo.List(ctx)
}

func (s *GroupService) Create(ctx context.Context, title, slug, description string) (*model.Group, error) {
	title = strings.TrimSpace(title)
	slug = strings.TrimSpace(slug)
	switch {
	case title == "":
		return nil, fmt.Errorf("title required: %w", ErrValidation)
	case len([]rune(title)) > 200:
		return nil, fmt.Errorf("title longer than 200 characters: %w", ErrValidation)
	case !slugPattern.MatchString(slug) || len(slug) > 50:
		return nil, fmt.Errorf("slug %q must be letters, digits, hyphens or underscores: %w", slug, ErrValidation)
	}

	g := &model.Group{Title: title, Slug: slug, Description: description}
	if err := s.repo.Create(ctx, g); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("group %q: %w", slug, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create group: %w", err)
	}
	return g, nil
}

// Delete removes the group; its posts stay and lose their group.
func (s *GroupService) Delete(ctx context.Context, slug string) error {
	g, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return lookupErr("group", err)
	}
	if err := s.repo.Delete(ctx, g.ID); err != nil {
		return lookupErr("group", err)
	}
	return nil
}
