// Package memory is an in-process store with the same semantics as the
// MySQL repositories. It backs the "memory" database driver and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"yatube/internal/model"
	"yatube/internal/repository"
)

type Store struct {
	mu     sync.RWMutex
	seq    uint64
	now    func() time.Time
	users  map[uint64]model.User
	groups map[uint64]model.Group
	posts  map[uint64]model.Post

	Users  *UserRepository
	Groups *GroupRepository
	Posts  *PostRepository
}

func NewStore() *Store {
	s := &Store{
		now:    time.Now,
		users:  make(map[uint64]model.User),
		groups: make(map[uint64]model.Group),
		posts:  make(map[uint64]model.Post),
	}
	s.Users = &UserRepository{s: s}
	s.Groups = &GroupRepository{s: s}
	s.Posts = &PostRepository{s: s}
	return s
}

// SetClock replaces the time source used for post creation stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) nextID() uint64 {
	s.seq++
	return s.seq
}

// hydrate fills the Author and Group associations. Callers hold the lock.
func (s *Store) hydrate(p model.Post) model.Post {
	if u, ok := s.users[p.AuthorID]; ok {
		p.Author = &u
	}
	p.Group = nil
	if p.GroupID != nil {
		if g, ok := s.groups[*p.GroupID]; ok {
			p.Group = &g
		}
	}
	return p
}

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	user.ID = s.nextID()
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id uint64) (*model.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

// Delete cascades to the user's posts.
func (r *UserRepository) Delete(_ context.Context, id uint64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	for pid, p := range s.posts {
		if p.AuthorID == id {
			delete(s.posts, pid)
		}
	}
	delete(s.users, id)
	return nil
}

type GroupRepository struct{ s *Store }

func (r *GroupRepository) Create(_ context.Context, g *model.Group) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.groups {
		if existing.Slug == g.Slug {
			return repository.ErrDuplicate
		}
	}
	g.ID = s.nextID()
	s.groups[g.ID] = *g
	return nil
}

func (r *GroupRepository) FindByID(_ context.Context, id uint64) (*model.Group, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (r *GroupRepository) FindBySlug(_ context.Context, slug string) (*model.Group, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.groups {
		if g.Slug == slug {
			return &g, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *GroupRepository) List(_ context.Context) ([]model.Group, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]model.Group, 0, len(s.groups))
	for _, g := range s.groups {
		list = append(list, g)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Title != list[j].Title {
			return list[i].Title < list[j].Title
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// Delete detaches the group's posts before removing it.
func (r *GroupRepository) Delete(_ context.Context, id uint64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[id]; !ok {
		return repository.ErrNotFound
	}
	for pid, p := range s.posts {
		if p.GroupID != nil && *p.GroupID == id {
			p.GroupID = nil
			s.posts[pid] = p
		}
	}
	delete(s.groups, id)
	return nil
}

type PostRepository struct{ s *Store }

func (r *PostRepository) Create(_ context.Context, post *model.Post) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[post.AuthorID]; !ok {
		return repository.ErrNotFound
	}
	if post.GroupID != nil {
		if _, ok := s.groups[*post.GroupID]; !ok {
			return repository.ErrNotFound
		}
	}
	post.ID = s.nextID()
	post.CreatedAt = s.now()

	stored := *post
	stored.Author, stored.Group = nil, nil
	stored.GroupID = copyID(post.GroupID)
	s.posts[post.ID] = stored
	return nil
}

func (r *PostRepository) Update(_ context.Context, post *model.Post) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.posts[post.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if post.GroupID != nil {
		if _, ok := s.groups[*post.GroupID]; !ok {
			return repository.ErrNotFound
		}
	}
	stored.Text = post.Text
	stored.GroupID = copyID(post.GroupID)
	s.posts[post.ID] = stored
	return nil
}

func (r *PostRepository) FindByID(_ context.Context, id uint64) (*model.Post, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = s.hydrate(p)
	return &p, nil
}

func (r *PostRepository) Count(_ context.Context, filter model.PostFilter) (int64, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, p := range s.posts {
		if matches(p, filter) {
			n++
		}
	}
	return n, nil
}

func (r *PostRepository) List(_ context.Context, filter model.PostFilter, offset, limit int) ([]model.Post, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []model.Post
	for _, p := range s.posts {
		if matches(p, filter) {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].NewerThan(list[j]) })

	if offset >= len(list) || limit <= 0 {
		return []model.Post{}, nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	out := make([]model.Post, 0, end-offset)
	for _, p := range list[offset:end] {
		out = append(out, s.hydrate(p))
	}
	return out, nil
}

func matches(p model.Post, f model.PostFilter) bool {
	if f.AuthorID != 0 && p.AuthorID != f.AuthorID {
		return false
	}
	if f.GroupID != 0 && (p.GroupID == nil || *p.GroupID != f.GroupID) {
		return false
	}
	return true
}

func copyID(id *uint64) *uint64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
