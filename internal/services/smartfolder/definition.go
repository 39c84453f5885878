package smartfolderservice

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"docvault/internal/models"
)

// folderDefinition is the stored JSON rule shape. Fields that logically hold
// lists also accept a single scalar, since hand-written definitions often
// use one.
type folderDefinition struct {
	Query         string     `json:"query"`
	DocumentTypes stringList `json:"documentTypes"`
	Departments   stringList `json:"departments"`
	UploadedBy    stringList `json:"uploadedBy"`
	Tags          stringList `json:"tags"`
	IsActive      *bool      `json:"isActive"`
	CreatedFrom   string     `json:"createdFrom"`
	CreatedTo     string     `json:"createdTo"`
	MinConfidence *float64   `json:"minConfidence"`
}

type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}

	if single == "" {
		*s = nil
		return nil
	}

	*s = []string{single}
	return nil
}

// ParseDefinition converts a stored folder definition into a search query.
// Any malformed input fails with ErrBadDefinition; a folder with a broken
// definition matches nothing rather than everything.
func ParseDefinition(definition string) (models.SearchQuery, error) {
	var def folderDefinition

	dec := json.NewDecoder(strings.NewReader(definition))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&def); err != nil {
		return models.SearchQuery{}, fmt.Errorf("%w: %s", models.ErrBadDefinition, err)
	}

	query := models.SearchQuery{
		Text:          strings.TrimSpace(def.Query),
		Types:         def.DocumentTypes,
		Departments:   def.Departments,
		Uploaders:     def.UploadedBy,
		Tags:          def.Tags,
		Active:        def.IsActive,
		MinConfidence: def.MinConfidence,
	}

	if def.CreatedFrom != "" {
		from, err := parseRuleTime(def.CreatedFrom)
		if err != nil {
			return models.SearchQuery{}, fmt.Errorf("%w: createdFrom: %s", models.ErrBadDefinition, err)
		}
		query.CreatedFrom = &from
	}

	if def.CreatedTo != "" {
		to, err := parseRuleTime(def.CreatedTo)
		if err != nil {
			return models.SearchQuery{}, fmt.Errorf("%w: createdTo: %s", models.ErrBadDefinition, err)
		}
		query.CreatedTo = &to
	}

	if query.CreatedFrom != nil && query.CreatedTo != nil && query.CreatedTo.Before(*query.CreatedFrom) {
		return models.SearchQuery{}, fmt.Errorf("%w: createdTo before createdFrom", models.ErrBadDefinition)
	}

	return query, nil
}

// parseRuleTime accepts full timestamps and bare dates.
func parseRuleTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}
