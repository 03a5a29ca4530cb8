package services

import (
	"regexp"
	"strings"

	"github.com/farellandr/fastfriends/internal/models"
)

// hashTagPattern matches '#word' tokens: a letter, then letters, digits or
// underscores, capped at 128 characters. Matching is case-insensitive and
// names are stored lowercase.
var hashTagPattern = regexp.MustCompile(`(?i)#([a-z][a-z0-9_]{0,127})`)

// ExtractHashTags pulls unique lowercase tag names out of free text,
// preserving first-occurrence order.
func ExtractHashTags(texts ...string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, text := range texts {
		for _, match := range hashTagPattern.FindAllStringSubmatch(text, -1) {
			name := strings.ToLower(match[1])
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// TagService resolves extracted names to HashTag rows and attaches them to
// tagged models.
type TagService struct {
	tags TagStore
}

func NewTagService(tags TagStore) *TagService {
	return &TagService{tags: tags}
}

// Apply replaces the model's tag associations with the tags found in the
// given texts. An empty extraction clears the association.
func (s *TagService) Apply(model interface{}, texts ...string) ([]models.HashTag, error) {
	names := ExtractHashTags(texts...)
	tags, err := s.tags.GetOrCreate(names)
	if err != nil {
		return nil, err
	}
	if err := s.tags.ReplaceFor(model, tags); err != nil {
		return nil, err
	}
	return tags, nil
}
