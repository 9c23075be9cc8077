package db

import "time"

// User 定义了用户模型。注册与资料编辑由外部协作方负责，这里只保留
// 登录校验与文章归属需要的字段。
type User struct {
	ID        uint   `gorm:"primarykey"`
	Username  string `gorm:"size:150;uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	CreatedAt time.Time
}
