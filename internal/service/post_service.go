package service

import (
	"context"
	"errors"
	"fmt"

	"yatube/internal/form"
	"yatube/internal/model"
	"yatube/internal/pagination"
	"yatube/internal/repository"
)

const (
	DefaultPostsPerPage        = 10
	DefaultProfilePostsPerPage = 2
)

type PostOptions struct {
	PostsPerPage        int
	ProfilePostsPerPage int
}

type PostService struct {
	posts  PostRepository
	groups GroupRepository
	users  UserRepository
	events *EventPublisher
	opts   PostOptions
}

type ListingPage = pagination.Page[model.Post]

type GroupListing struct {
	Group *model.Group `json:"group"`
	Page  ListingPage  `json:"page"`
}

type ProfileListing struct {
	Author    *model.User `json:"author"`
	PostCount int64       `json:"post_count"`
	Page      ListingPage `json:"page"`
}

type PostDetail struct {
	Post            *model.Post `json:"post"`
	AuthorPostCount int64       `json:"author_post_count"`
	Editable        bool        `json:"editable"`
}

func NewPostService(posts PostRepository, groups GroupRepository, users UserRepository, events *EventPublisher, opts PostOptions) *PostService {
	if opts.PostsPerPage <= 0 {
		opts.PostsPerPage = DefaultPostsPerPage
	}
	if opts.ProfilePostsPerPage <= 0 {
		opts.ProfilePostsPerPage = DefaultProfilePostsPerPage
	}
	return &PostService{
		posts:  posts,
		groups: groups,
		users:  users,
		events: events,
		opts:   opts,
	}
}

// CanEdit is the only transition from view-only to editable: the requester
// must be the post's author.
func CanEdit(id model.Identity, post *model.Post) bool {
	return id.Owns(post)
}

func (s *PostService) page(ctx context.Context, filter model.PostFilter, perPage int, rawPage string) (ListingPage, error) {
	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return ListingPage{}, fmt.Errorf("count posts: %w", err)
	}
	w := pagination.NewWindow(int(total), perPage, rawPage)
	items, err := s.posts.List(ctx, filter, w.Offset, w.Limit)
	if err != nil {
		return ListingPage{}, fmt.Errorf("list posts: %w", err)
	}
	return pagination.NewPage(items, w), nil
}

// Index lists every post, newest first.
func (s *PostService) Index(ctx context.Context, rawPage string) (ListingPage, error) {
	return s.page(ctx, model.PostFilter{}, s.opts.PostsPerPage, rawPage)
}

func (s *PostService) GroupPosts(ctx context.Context, slug, rawPage string) (*GroupListing, error) {
	g, err := s.groups.FindBySlug(ctx, slug)
	if err != nil {
		return nil, lookupErr("group", err)
	}
	page, err := s.page(ctx, model.PostFilter{GroupID: g.ID}, s.opts.PostsPerPage, rawPage)
	if err != nil {
		return nil, err
	}
	return &GroupListing{Group: g, Page: page}, nil
}

// Profile lists an author's posts. An unknown username is ErrNotFound.
func (s *PostService) Profile(ctx context.Context, username, rawPage string) (*ProfileListing, error) {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, lookupErr("user", err)
	}
	page, err := s.page(ctx, model.PostFilter{AuthorID: author.ID}, s.opts.ProfilePostsPerPage, rawPage)
	if err != nil {
		return nil, err
	}
	return &ProfileListing{
		Author:    author,
		PostCount: int64(page.TotalItems),
		Page:      page,
	}, nil
}

func (s *PostService) Detail(ctx context.Context, id model.Identity, postID uint64) (*PostDetail, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, lookupErr("post", err)
	}
	n, err := s.posts.Count(ctx, model.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, fmt.Errorf("count author posts: %w", err)
	}
	return &PostDetail{
		Post:            post,
		AuthorPostCount: n,
		Editable:        CanEdit(id, post),
	}, nil
}

// Groups returns the choices offered by the post form.
func (s *PostService) Groups(ctx context.Context) ([]model.Group, error) {
	list, err := s.groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return list, nil
}

// NewForm returns an empty post form for an authenticated requester.
func (s *PostService) NewForm(_ context.Context, id model.Identity) (*form.PostForm, error) {
	if !id.Authenticated() {
		return nil, ErrUnauthenticated
	}
	return form.NewPostForm(form.PostData{}, s.groups), nil
}

// Create validates data and saves a post authored by id. On ErrValidation
// the returned form carries the submitted values and field errors.
func (s *PostService) Create(ctx context.Context, id model.Identity, data form.PostData) (*model.Post, *form.PostForm, error) {
	if !id.Authenticated() {
		return nil, nil, ErrUnauthenticated
	}

	f := form.NewPostForm(data, s.groups)
	ok, err := f.Validate(ctx)
	if err != nil {
		return nil, f, fmt.Errorf("validate post: %w", err)
	}
	if !ok {
		return nil, f, ErrValidation
	}

	post := &model.Post{AuthorID: id.UserID}
	f.Bind(post)
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, f, fmt.Errorf("create post: %w", err)
	}

	s.events.PostSaved(ctx, EventPostCreated, post)
	return post, f, nil
}

// EditForm loads the post and its pre-filled form for its author.
func (s *PostService) EditForm(ctx context.Context, id model.Identity, postID uint64) (*model.Post, *form.PostForm, error) {
	post, err := s.editable(ctx, id, postID)
	if err != nil {
		return post, nil, err
	}
	return post, form.InitialPostForm(post, s.groups), nil
}

// Update applies data to the post. Only text and group change; concurrent
// updates are last-write-wins.
func (s *PostService) Update(ctx context.Context, id model.Identity, postID uint64, data form.PostData) (*model.Post, *form.PostForm, error) {
	post, err := s.editable(ctx, id, postID)
	if err != nil {
		return post, nil, err
	}

	f := form.NewPostForm(data, s.groups)
	ok, err := f.Validate(ctx)
	if err != nil {
		return post, f, fmt.Errorf("validate post: %w", err)
	}
	if !ok {
		return post, f, ErrValidation
	}

	f.Bind(post)
	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, f, fmt.Errorf("post %d: %w", postID, ErrNotFound)
		}
		return post, f, fmt.Errorf("update post: %w", err)
	}

	s.events.PostSaved(ctx, EventPostUpdated, post)
	return post, f, nil
}

func (s *PostService) editable(ctx context.Context, id model.Identity, postID uint64) (*model.Post, error) {
	if !id.Authenticated() {
		return nil, ErrUnauthenticated
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, lookupErr("post", err)
	}
	if !CanEdit(id, post) {
		return post, ErrForbidden
	}
	return post, nil
}
