package model

import "time"

const postPreviewLen = 15

// Post is listed newest first: created_at DESC, id DESC.
type Post struct {
	ID        uint64    `gorm:"primaryKey;index:idx_post_created_id,priority:2,sort:desc" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_post_created_id,priority:1,sort:desc" json:"pub_date"`
	AuthorID  uint64    `gorm:"not null;index" json:"author_id"`
	Author    *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
	GroupID   *uint64   `gorm:"index" json:"group_id"`
	Group     *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
}

func (p Post) String() string {
	r := []rune(p.Text)
	if len(r) > postPreviewLen {
		r = r[:postPreviewLen]
	}
	return string(r)
}

// PostFilter narrows a post listing. Zero fields do not filter.
type PostFilter struct {
	AuthorID uint64
	GroupID  uint64
}

// NewerThan orders posts for listings.
func (p Post) NewerThan(o Post) bool {
	if !p.CreatedAt.Equal(o.CreatedAt) {
		return p.CreatedAt.After(o.CreatedAt)
	}
	return p.ID > o.ID
}
