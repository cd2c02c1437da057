package models

// Forum is a board holding threads
type Forum struct {
	ID                    string  `gorm:"primaryKey;size:64"`
	Name                  string  `gorm:"size:255;not null;uniqueIndex"`
	Description           string  `gorm:"type:text;not null"`
	CreatorID             string  `gorm:"size:64;not null"`
	CreatorName           string  `gorm:"size:255;not null"`
	ThreadCount           int     `gorm:"not null;default:0"`
	LatestCommentDate     *string `gorm:"size:64"`
	ProtectionLevel       int     `gorm:"not null;default:0"`
	CreationDate          string  `gorm:"size:64;not null"`
	DialogThingID         *string `gorm:"size:64"`
	DialogColor           *string `gorm:"size:64"`
	LatestCommentText     *string `gorm:"type:text"`
	LatestCommentUserID   *string `gorm:"size:64"`
	LatestCommentUserName *string `gorm:"size:255"`
}

// ForumThread is a thread within a forum
type ForumThread struct {
	ID                    string  `gorm:"primaryKey;size:64"`
	ForumID               string  `gorm:"size:64;not null;index"`
	Title                 string  `gorm:"size:255;not null"`
	TitleClarification    *string `gorm:"size:255"`
	CreatorID             string  `gorm:"size:64;not null"`
	CreatorName           string  `gorm:"size:255;not null"`
	LatestCommentDate     *string `gorm:"size:64"`
	CommentCount          int     `gorm:"not null;default:0"`
	IsLocked              bool    `gorm:"not null;default:false"`
	IsSticky              bool    `gorm:"not null;default:false"`
	CreationDate          string  `gorm:"size:64;not null"`
	LatestCommentText     *string `gorm:"type:text"`
	LatestCommentUserID   *string `gorm:"size:64"`
	LatestCommentUserName *string `gorm:"size:255"`
}

// ForumComment is a single post in a thread. The id is <threadId>-<index>.
type ForumComment struct {
	ID             string  `gorm:"primaryKey;size:96"`
	ThreadID       string  `gorm:"size:64;not null;index"`
	Position       int     `gorm:"not null;default:0"`
	Date           string  `gorm:"size:64;not null"`
	UserID         string  `gorm:"size:64;not null"`
	UserName       string  `gorm:"size:255;not null"`
	Text           string  `gorm:"type:text;not null"`
	LastEditedDate *string `gorm:"size:64"`
	TotalLikes     int     `gorm:"not null;default:0"`
	ThingID        *string `gorm:"size:64"`
}

// ForumCommentLike records one user liking a comment
type ForumCommentLike struct {
	CommentID string `gorm:"primaryKey;size:96;index"`
	UserID    string `gorm:"primaryKey;size:64"`
	UserName  string `gorm:"size:255;not null"`
	Position  int    `gorm:"not null;default:0"`
}

// TableName overrides the table name for Forum
func (Forum) TableName() string {
	return "forum_metadata"
}

// TableName overrides the table name for ForumThread
func (ForumThread) TableName() string {
	return "forum_threads"
}

// TableName overrides the table name for ForumComment
func (ForumComment) TableName() string {
	return "forum_comments"
}

// TableName overrides the table name for ForumCommentLike
func (ForumCommentLike) TableName() string {
	return "forum_comment_likes"
}
