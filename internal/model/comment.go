package model

import "time"

// Comment 帖子评论，创建后不可修改
type Comment struct {
	ID        uint64    `gorm:"primaryKey"`
	Text      string    `gorm:"type:text;not null"`
	AuthorID  uint64    `gorm:"not null;index"`
	PostID    uint64    `gorm:"not null;index:idx_post_time"`
	CreatedAt time.Time `gorm:"index:idx_post_time"`

	Author User `gorm:"foreignKey:AuthorID"`
}
