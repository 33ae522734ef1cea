package domain

// Tag is a unique lowercase label shared between mediafiles. A tag exists
// only while at least one MediafileTag references it.
type Tag struct {
	Base

	Value string `json:"tag_value"`
}

func NewTag(value string) *Tag { return &Tag{Value: value} }

func (t *Tag) Table() string { return "tags" }

func (t *Tag) Columns() []string { return append(baseColumns(), "tag_value") }

func (t *Tag) Values() []any {
	return []any{t.ID, t.CreatedAt, t.UpdatedAt, t.Value}
}

func (t *Tag) Pointers() []any {
	return []any{&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.Value}
}

// MediafileTag joins a mediafile to a tag.
type MediafileTag struct {
	Base

	MediafileID int64 `json:"mediafile_id"`
	TagID       int64 `json:"tag_id"`
}

func NewMediafileTag(mediafileID, tagID int64) *MediafileTag {
	return &MediafileTag{MediafileID: mediafileID, TagID: tagID}
}

func (mt *MediafileTag) Table() string { return "mediafiles_tags" }

func (mt *MediafileTag) Columns() []string {
	return append(baseColumns(), "mediafile_id", "tag_id")
}

func (mt *MediafileTag) Values() []any {
	return []any{mt.ID, mt.CreatedAt, mt.UpdatedAt, mt.MediafileID, mt.TagID}
}

func (mt *MediafileTag) Pointers() []any {
	return []any{&mt.ID, &mt.CreatedAt, &mt.UpdatedAt, &mt.MediafileID, &mt.TagID}
}
