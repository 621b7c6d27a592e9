package models

import "time"

// previewLen is how much of the text a post shows when printed.
const previewLen = 15

type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"column:pub_date;<-:create;autoCreateTime;not null;index" json:"pubDate"`
	AuthorID uint      `gorm:"not null;index" json:"authorId"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID  *uint     `gorm:"index" json:"groupId,omitempty"`
	Group    *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image    string    `gorm:"type:varchar(255)" json:"image,omitempty"`
}

func (p Post) String() string {
	r := []rune(p.Text)
	if len(r) > previewLen {
		return string(r[:previewLen])
	}
	return p.Text
}
