package domain

// Favorite marks a mediafile as favorited by a user. No further state.
type Favorite struct {
	Base

	UserID      int64 `json:"user_id"`
	MediafileID int64 `json:"mediafile_id"`
}

func NewFavorite(userID, mediafileID int64) *Favorite {
	return &Favorite{UserID: userID, MediafileID: mediafileID}
}

func (f *Favorite) Table() string { return "favorites" }

func (f *Favorite) Columns() []string {
	return append(baseColumns(), "user_id", "mediafile_id")
}

func (f *Favorite) Values() []any {
	return []any{f.ID, f.CreatedAt, f.UpdatedAt, f.UserID, f.MediafileID}
}

func (f *Favorite) Pointers() []any {
	return []any{&f.ID, &f.CreatedAt, &f.UpdatedAt, &f.UserID, &f.MediafileID}
}
