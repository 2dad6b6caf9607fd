package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"yatube/internal/form"
	"yatube/internal/model"
	"yatube/internal/repository"
	"yatube/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type postFixture struct {
	store  *memory.Store
	svc    *PostService
	sender *MockEventSender
	author *model.User
	other  *model.User
	group  *model.Group
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})

	author := &model.User{Username: "auth"}
	require.NoError(t, store.Users.Create(ctx, author))
	other := &model.User{Username: "other"}
	require.NoError(t, store.Users.Create(ctx, other))
	group := &model.Group{Title: "Тестовая группа", Slug: "test-slug", Description: "Тестовое описание"}
	require.NoError(t, store.Groups.Create(ctx, group))

	sender := &MockEventSender{}
	svc := NewPostService(store.Posts, store.Groups, store.Users, NewEventPublisher(sender), PostOptions{})
	return &postFixture{store: store, svc: svc, sender: sender, author: author, other: other, group: group}
}

func (f *postFixture) seedPosts(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, f.store.Posts.Create(context.Background(), &model.Post{
			Text:     fmt.Sprintf("Тестовый пост № %d", i),
			AuthorID: f.author.ID,
			GroupID:  &f.group.ID,
		}))
	}
}

func (f *postFixture) as(u *model.User) model.Identity {
	return model.Identity{UserID: u.ID, Username: u.Username}
}

func TestPostService_Listings(t *testing.T) {
	f := newPostFixture(t)
	f.seedPosts(t, 13)
	ctx := context.Background()

	index, err := f.svc.Index(ctx, "")
	require.NoError(t, err)
	assert.Len(t, index.Items, 10)
	assert.Equal(t, "Тестовый пост № 12", index.Items[0].Text)

	index, err = f.svc.Index(ctx, "2")
	require.NoError(t, err)
	assert.Len(t, index.Items, 3)

	grp, err := f.svc.GroupPosts(ctx, "test-slug", "2")
	require.NoError(t, err)
	assert.Equal(t, f.group.ID, grp.Group.ID)
	assert.Len(t, grp.Page.Items, 3)

	prof, err := f.svc.Profile(ctx, "auth", "")
	require.NoError(t, err)
	assert.Len(t, prof.Page.Items, 2)
	assert.EqualValues(t, 13, prof.PostCount)

	prof, err = f.svc.Profile(ctx, "auth", "7")
	require.NoError(t, err)
	assert.Len(t, prof.Page.Items, 1)

	prof, err = f.svc.Profile(ctx, "auth", "100")
	require.NoError(t, err)
	assert.Equal(t, 7, prof.Page.Number)
}

func TestPostService_NotFound(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	_, err := f.svc.GroupPosts(ctx, "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Profile(ctx, "nobody", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Detail(ctx, model.Identity{}, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_Detail(t *testing.T) {
	f := newPostFixture(t)
	f.seedPosts(t, 3)
	ctx := context.Background()

	list, err := f.svc.Index(ctx, "1")
	require.NoError(t, err)
	postID := list.Items[0].ID

	d, err := f.svc.Detail(ctx, f.as(f.author), postID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, d.AuthorPostCount)
	assert.True(t, d.Editable)
	assert.Equal(t, "auth", d.Post.Author.Username)

	d, err = f.svc.Detail(ctx, f.as(f.other), postID)
	require.NoError(t, err)
	assert.False(t, d.Editable)

	d, err = f.svc.Detail(ctx, model.Identity{}, postID)
	require.NoError(t, err)
	assert.False(t, d.Editable)
}

func TestPostService_CreateAppearsFirst(t *testing.T) {
	f := newPostFixture(t)
	f.seedPosts(t, 4)
	ctx := context.Background()

	f.sender.On("Send", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil).Once()

	post, _, err := f.svc.Create(ctx, f.as(f.other), form.PostData{Text: "fresh"})
	require.NoError(t, err)
	assert.Equal(t, f.other.ID, post.AuthorID)
	assert.Nil(t, post.GroupID)

	index, err := f.svc.Index(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, post.ID, index.Items[0].ID)
	assert.EqualValues(t, 5, index.TotalItems)

	f.sender.AssertExpectations(t)
	call := f.sender.Calls[0]
	assert.Equal(t, strconv.FormatUint(post.ID, 10), call.Arguments.String(1))
	var ev PostEvent
	require.NoError(t, json.Unmarshal(call.Arguments.Get(2).([]byte), &ev))
	assert.Equal(t, EventPostCreated, ev.Type)
	assert.Equal(t, "fresh", ev.Text)
}

func TestPostService_CreateWithGroup(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	f.sender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	post, _, err := f.svc.Create(ctx, f.as(f.author), form.PostData{
		Text:  "Тестовое описание №1",
		Group: form.Choice(strconv.FormatUint(f.group.ID, 10)),
	})
	require.NoError(t, err)

	grp, err := f.svc.GroupPosts(ctx, "test-slug", "")
	require.NoError(t, err)
	require.Len(t, grp.Page.Items, 1)
	assert.Equal(t, post.ID, grp.Page.Items[0].ID)
}

func TestPostService_CreateInvalidLeavesCountUnchanged(t *testing.T) {
	f := newPostFixture(t)
	f.seedPosts(t, 2)
	ctx := context.Background()

	_, pf, err := f.svc.Create(ctx, f.as(f.author), form.PostData{Text: "", Group: "999"})
	assert.ErrorIs(t, err, ErrValidation)
	require.NotNil(t, pf)
	assert.Equal(t, []string{form.MsgRequired}, pf.Errors["text"])
	assert.Equal(t, []string{form.MsgInvalidChoice}, pf.Errors["group"])
	assert.Equal(t, form.Choice("999"), pf.Data.Group)

	n, err := f.store.Posts.Count(ctx, model.PostFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostService_CreateRequiresIdentity(t *testing.T) {
	f := newPostFixture(t)
	_, _, err := f.svc.Create(context.Background(), model.Identity{}, form.PostData{Text: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.svc.NewForm(context.Background(), model.Identity{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestPostService_UpdateByAuthor(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	f.sender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	post, _, err := f.svc.Create(ctx, f.as(f.author), form.PostData{Text: "Тестовый пост"})
	require.NoError(t, err)
	orig, err := f.store.Posts.FindByID(ctx, post.ID)
	require.NoError(t, err)

	_, pf, err := f.svc.EditForm(ctx, f.as(f.author), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Тестовый пост", pf.Data.Text)

	gid := strconv.FormatUint(f.group.ID, 10)
	_, _, err = f.svc.Update(ctx, f.as(f.author), post.ID, form.PostData{Text: "Тестовое описание №1", Group: form.Choice(gid)})
	require.NoError(t, err)

	got, err := f.store.Posts.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Тестовое описание №1", got.Text)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, f.group.ID, *got.GroupID)
	assert.Equal(t, orig.AuthorID, got.AuthorID)
	assert.Equal(t, orig.CreatedAt, got.CreatedAt)

	n, err := f.store.Posts.Count(ctx, model.PostFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPostService_UpdateByNonAuthor(t *testing.T) {
	f := newPostFixture(t)
	f.seedPosts(t, 1)
	ctx := context.Background()
	list, err := f.svc.Index(ctx, "")
	require.NoError(t, err)
	postID := list.Items[0].ID

	_, _, err = f.svc.EditForm(ctx, f.as(f.other), postID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = f.svc.Update(ctx, f.as(f.other), postID, form.PostData{Text: "hijacked"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = f.svc.Update(ctx, model.Identity{}, postID, form.PostData{Text: "hijacked"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	got, err := f.store.Posts.FindByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, "Тестовый пост № 0", got.Text)
}

func TestPostService_UpdateInvalid(t *testing.T) {
	f := newPostFixture(t)
	f.seedPosts(t, 1)
	ctx := context.Background()
	list, err := f.svc.Index(ctx, "")
	require.NoError(t, err)
	postID := list.Items[0].ID

	_, pf, err := f.svc.Update(ctx, f.as(f.author), postID, form.PostData{Text: "  "})
	assert.ErrorIs(t, err, ErrValidation)
	assert.True(t, pf.Errors.Has("text"))

	got, err := f.store.Posts.FindByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, "Тестовый пост № 0", got.Text)
}

func TestPostService_EventFailureDoesNotFailCreate(t *testing.T) {
	f := newPostFixture(t)
	f.sender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	_, _, err := f.svc.Create(context.Background(), f.as(f.author), form.PostData{Text: "still saved"})
	require.NoError(t, err)
	f.sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestPostService_GroupDeletionKeepsPosts(t *testing.T) {
	f := newPostFixture(t)
	f.seedPosts(t, 3)
	ctx := context.Background()

	groups := NewGroupService(f.store.Groups)
	require.NoError(t, groups.Delete(ctx, "test-slug"))

	index, err := f.svc.Index(ctx, "")
	require.NoError(t, err)
	require.Len(t, index.Items, 3)
	for _, p := range index.Items {
		assert.Nil(t, p.GroupID)
		assert.Nil(t, p.Group)
	}

	_, err = f.svc.GroupPosts(ctx, "test-slug", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_NilPublisher(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	u := &model.User{Username: "solo"}
	require.NoError(t, store.Users.Create(ctx, u))

	svc := NewPostService(store.Posts, store.Groups, store.Users, nil, PostOptions{PostsPerPage: 1})
	_, _, err := svc.Create(ctx, model.Identity{UserID: u.ID, Username: u.Username}, form.PostData{Text: "a"})
	require.NoError(t, err)
	_, _, err = svc.Create(ctx, model.Identity{UserID: u.ID, Username: u.Username}, form.PostData{Text: "b"})
	require.NoError(t, err)

	page, err := svc.Index(ctx, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.TotalPages)
}

func TestPostService_ListingsFilterByAuthorAndGroup(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	second := &model.Group{Title: "Другая группа", Slug: "other-slug"}
	require.NoError(t, f.store.Groups.Create(ctx, second))

	create := func(text string, author *model.User, group *model.Group) *model.Post {
		p := &model.Post{Text: text, AuthorID: author.ID}
		if group != nil {
			p.GroupID = &group.ID
		}
		require.NoError(t, f.store.Posts.Create(ctx, p))
		return p
	}
	for i := 0; i < 3; i++ {
		create(fmt.Sprintf("в группе %d", i), f.author, f.group)
	}
	create("без группы", f.author, nil)
	create("чужой без группы 1", f.other, nil)
	create("чужой без группы 2", f.other, nil)
	otherPost := create("чужой в другой группе", f.other, second)

	svc := NewPostService(f.store.Posts, f.store.Groups, f.store.Users, nil,
		PostOptions{PostsPerPage: 20, ProfilePostsPerPage: 20})

	index, err := svc.Index(ctx, "")
	require.NoError(t, err)
	assert.Len(t, index.Items, 7)

	prof, err := svc.Profile(ctx, "auth", "")
	require.NoError(t, err)
	assert.EqualValues(t, 4, prof.PostCount)
	require.Len(t, prof.Page.Items, 4)
	for _, p := range prof.Page.Items {
		assert.Equal(t, f.author.ID, p.AuthorID, p.Text)
	}

	prof, err = svc.Profile(ctx, "other", "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, prof.PostCount)
	for _, p := range prof.Page.Items {
		assert.Equal(t, f.other.ID, p.AuthorID, p.Text)
	}

	grp, err := svc.GroupPosts(ctx, "test-slug", "")
	require.NoError(t, err)
	require.Len(t, grp.Page.Items, 3)
	for _, p := range grp.Page.Items {
		require.NotNil(t, p.GroupID, p.Text)
		assert.Equal(t, f.group.ID, *p.GroupID)
	}

	grp, err = svc.GroupPosts(ctx, "other-slug", "")
	require.NoError(t, err)
	require.Len(t, grp.Page.Items, 1)
	assert.Equal(t, otherPost.ID, grp.Page.Items[0].ID)

	d, err := svc.Detail(ctx, f.as(f.author), otherPost.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, d.AuthorPostCount)
	assert.False(t, d.Editable)
}

// vanishingPosts behaves as if the post was deleted right before the write.
type vanishingPosts struct {
	PostRepository
}

func (vanishingPosts) Update(context.Context, *model.Post) error {
	return repository.ErrNotFound
}

func TestPostService_UpdateOfDeletedPost(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	post := &model.Post{Text: "скоро исчезнет", AuthorID: f.author.ID}
	require.NoError(t, f.store.Posts.Create(ctx, post))

	svc := NewPostService(vanishingPosts{f.store.Posts}, f.store.Groups, f.store.Users, NewEventPublisher(f.sender), PostOptions{})
	_, _, err := svc.Update(ctx, f.as(f.author), post.ID, form.PostData{Text: "правка"})
	assert.ErrorIs(t, err, ErrNotFound)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}
