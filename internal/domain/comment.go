package domain

// Comment is user-written text attached to a mediafile.
type Comment struct {
	Base

	UserID      int64  `json:"user_id"`
	MediafileID int64  `json:"mediafile_id"`
	Content     string `json:"comment_content"`
}

func NewComment(userID, mediafileID int64, content string) *Comment {
	return &Comment{UserID: userID, MediafileID: mediafileID, Content: content}
}

func (c *Comment) Table() string { return "comments" }

func (c *Comment) Columns() []string {
	return append(baseColumns(), "user_id", "mediafile_id", "comment_content")
}

func (c *Comment) Values() []any {
	return []any{c.ID, c.CreatedAt, c.UpdatedAt, c.UserID, c.MediafileID, c.Content}
}

func (c *Comment) Pointers() []any {
	return []any{&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.UserID, &c.MediafileID, &c.Content}
}
