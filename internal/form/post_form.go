package form

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"yatube/internal/model"
	"yatube/internal/repository"
)

// GroupLookup resolves the group choice of a post form.
type GroupLookup interface {
	FindByID(ctx context.Context, id uint64) (*model.Group, error)
}

// PostData is the raw submission of the post form.
type PostData struct {
	Text  string `form:"text" json:"text"`
	Group Choice `form:"group" json:"group"`
}

// PostForm validates PostData and binds it onto a Post.
type PostForm struct {
	Data   PostData `json:"values"`
	Errors Errors   `json:"errors"`

	groups GroupLookup
	valid  bool
	text   string
	group  *model.Group
}

// postField declares one form field: whether it must be present, how it is
// cleaned and where the cleaned value is stored on the post.
type postField struct {
	name     string
	required bool
	value    func(d PostData) string
	clean    func(ctx context.Context, f *PostForm, raw string) error
	bind     func(f *PostForm, p *model.Post)
}

var errInvalidField = errors.New("invalid field")

var postFields = []postField{
	{
		name:     "text",
		required: true,
		value:    func(d PostData) string { return d.Text },
		clean: func(_ context.Context, f *PostForm, raw string) error {
			f.text = raw
			return nil
		},
		bind: func(f *PostForm, p *model.Post) { p.Text = f.text },
	},
	{
		name:     "group",
		required: false,
		value:    func(d PostData) string { return string(d.Group) },
		clean: func(ctx context.Context, f *PostForm, raw string) error {
			if raw == "" {
				f.group = nil
				return nil
			}
			id, ok := Choice(raw).ID()
			if !ok {
				f.Errors.Add("group", MsgInvalidChoice)
				return errInvalidField
			}
			g, err := f.groups.FindByID(ctx, id)
			if errors.Is(err, repository.ErrNotFound) {
				f.Errors.Add("group", MsgInvalidChoice)
				return errInvalidField
			}
			if err != nil {
				return err
			}
			f.group = g
			return nil
		},
		bind: func(f *PostForm, p *model.Post) {
			p.Group = f.group
			if f.group == nil {
				p.GroupID = nil
				return
			}
			id := f.group.ID
			p.GroupID = &id
		},
	},
}

// NewPostForm wraps a submission.
func NewPostForm(data PostData, groups GroupLookup) *PostForm {
	return &PostForm{Data: data, Errors: Errors{}, groups: groups}
}

// InitialPostForm returns an unbound form pre-filled from an existing post.
func InitialPostForm(p *model.Post, groups GroupLookup) *PostForm {
	data := PostData{}
	if p != nil {
		data.Text = p.Text
		if p.GroupID != nil {
			data.Group = Choice(strconv.FormatUint(*p.GroupID, 10))
		}
	}
	return NewPostForm(data, groups)
}

// Validate runs every field. The returned error is reserved for lookup
// failures; invalid input is reported through Errors.
func (f *PostForm) Validate(ctx context.Context) (bool, error) {
	f.Errors = Errors{}
	for _, fld := range postFields {
		raw := strings.TrimSpace(fld.value(f.Data))
		if raw == "" && fld.required {
			f.Errors.Add(fld.name, MsgRequired)
			continue
		}
		if err := fld.clean(ctx, f, raw); err != nil && !errors.Is(err, errInvalidField) {
			return false, err
		}
	}
	f.valid = len(f.Errors) == 0
	return f.valid, nil
}

func (f *PostForm) Valid() bool { return f.valid }

// Bind copies the cleaned values onto p. It never touches the author or
// the creation time.
func (f *PostForm) Bind(p *model.Post) {
	for _, fld := range postFields {
		fld.bind(f, p)
	}
}
