package domain

// Metadata is one key/value pair extracted from an image, attached to a
// mediafile. Pure derived data; it is recreated, never edited.
type Metadata struct {
	Base

	MediafileID int64  `json:"mediafile_id"`
	Key         string `json:"meta_key"`
	Value       string `json:"meta_value"`
}

func NewMetadata(mediafileID int64, key, value string) *Metadata {
	return &Metadata{MediafileID: mediafileID, Key: key, Value: value}
}

func (m *Metadata) Table() string { return "mediafiles_metadata" }

func (m *Metadata) Columns() []string {
	return append(baseColumns(), "mediafile_id", "meta_key", "meta_value")
}

func (m *Metadata) Values() []any {
	return []any{m.ID, m.CreatedAt, m.UpdatedAt, m.MediafileID, m.Key, m.Value}
}

func (m *Metadata) Pointers() []any {
	return []any{&m.ID, &m.CreatedAt, &m.UpdatedAt, &m.MediafileID, &m.Key, &m.Value}
}
