package model

import "time"

type Post struct {
	ID       uint64  `gorm:"primaryKey"`
	Text     string  `gorm:"type:text;not null"`
	AuthorID uint64  `gorm:"not null;index:idx_author_time"`
	GroupID  *uint64 `gorm:"index:idx_group_time"`
	// Image 存对象存储里的 key，空串表示无图
	Image     string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"index:idx_author_time;index:idx_group_time"` // 发布时间，建后不变
	UpdatedAt time.Time

	Author User   `gorm:"foreignKey:AuthorID"`
	Group  *Group `gorm:"foreignKey:GroupID"`
}
