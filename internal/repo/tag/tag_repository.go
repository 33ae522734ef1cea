// Package tag manages the hashtag vocabulary. Tags are shared, reference
// counted rows; a tag exists exactly as long as at least one mediafile
// references it.
package tag

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mkrupp/homegallery/internal/domain"
	"github.com/mkrupp/homegallery/internal/infra/logging"
	"github.com/mkrupp/homegallery/internal/store"
)

var tagPattern = regexp.MustCompile(`#(\w+)`)

// Parse extracts hashtag tokens from a description. Tokens are case-folded
// and de-duplicated; the result is sorted. A description without hashtags
// yields no tags.
func Parse(description string) []string {
	seen := make(map[string]struct{})

	for _, match := range tagPattern.FindAllStringSubmatch(description, -1) {
		seen[strings.ToLower(match[1])] = struct{}{}
	}

	values := make([]string, 0, len(seen))
	for value := range seen {
		values = append(values, value)
	}

	sort.Strings(values)

	return values
}

// Repository maintains tag rows and their mediafile join rows.
type Repository struct {
	log logging.Logger
}

func NewRepository() *Repository {
	return &Repository{
		log: logging.GetLogger("repo.tag.tag_repository"),
	}
}

// Apply parses the description and attaches the resulting tags to the
// mediafile, creating tag rows that do not exist yet.
func (r *Repository) Apply(ctx context.Context, q store.Querier, mediafileID int64, description string) error {
	for _, value := range Parse(description) {
		t, err := store.SelectBy[domain.Tag](ctx, q, store.Where("tag_value", store.OpEq, value))
		if err != nil {
			return fmt.Errorf("select tag: %w", err)
		}

		if t == nil {
			t = domain.NewTag(value)
			if err := store.Insert(ctx, q, t); err != nil {
				return fmt.Errorf("insert tag: %w", err)
			}

			r.log.DebugContext(ctx, "tag created", "value", value, "id", t.ID)
		}

		if err := store.Insert(ctx, q, domain.NewMediafileTag(mediafileID, t.ID)); err != nil {
			return fmt.Errorf("insert mediafile tag: %w", err)
		}
	}

	return nil
}

// DeleteFor detaches every tag from the mediafile and removes tag rows that
// no other mediafile references anymore.
func (r *Repository) DeleteFor(ctx context.Context, q store.Querier, mediafileID int64) error {
	joins, err := store.SelectAll[domain.MediafileTag](ctx, q, store.ListOptions{},
		store.Where("mediafile_id", store.OpEq, mediafileID))
	if err != nil {
		return fmt.Errorf("select mediafile tags: %w", err)
	}

	for _, join := range joins {
		if err := store.Delete(ctx, q, join); err != nil {
			return fmt.Errorf("delete mediafile tag: %w", err)
		}

		used, err := store.CountAll(ctx, q, &domain.MediafileTag{},
			store.Where("tag_id", store.OpEq, join.TagID))
		if err != nil {
			return fmt.Errorf("count tag references: %w", err)
		}

		if used > 0 {
			continue
		}

		if err := store.Delete(ctx, q, &domain.Tag{Base: domain.Base{ID: join.TagID}}); err != nil {
			return fmt.Errorf("delete orphaned tag: %w", err)
		}

		r.log.DebugContext(ctx, "orphaned tag deleted", "id", join.TagID)
	}

	return nil
}

// Sync replaces the mediafile's tag set with the tags parsed from the given
// description.
func (r *Repository) Sync(ctx context.Context, q store.Querier, mediafileID int64, description string) error {
	if err := r.DeleteFor(ctx, q, mediafileID); err != nil {
		return err
	}

	return r.Apply(ctx, q, mediafileID, description)
}

// ValuesFor returns the sorted tag values attached to the mediafile.
func (r *Repository) ValuesFor(ctx context.Context, q store.Querier, mediafileID int64) ([]string, error) {
	joins, err := store.SelectAll[domain.MediafileTag](ctx, q, store.ListOptions{},
		store.Where("mediafile_id", store.OpEq, mediafileID))
	if err != nil {
		return nil, fmt.Errorf("select mediafile tags: %w", err)
	}

	values := make([]string, 0, len(joins))

	for _, join := range joins {
		t, err := store.SelectByID[domain.Tag](ctx, q, join.TagID)
		if err != nil {
			return nil, fmt.Errorf("select tag: %w", err)
		}

		if t != nil {
			values = append(values, t.Value)
		}
	}

	sort.Strings(values)

	return values, nil
}
