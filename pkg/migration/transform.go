package migration

import (
	"fmt"

	"catalog-migrate/pkg/bigcommerce"
)

// CategoryIDToName builds the id -> name lookup for the source categories.
// Duplicate names are an error: the name is the join key between trees, so a
// duplicate would make the remap ambiguous.
func CategoryIDToName(cats []bigcommerce.Category) (map[int]string, error) {
	byName := make(map[string]int, len(cats))
	idToName := make(map[int]string, len(cats))
	for _, c := range cats {
		if prev, ok := byName[c.Name]; ok {
			return nil, fmt.Errorf("duplicate category name %q (ids %d and %d)", c.Name, prev, c.ID)
		}
		byName[c.Name] = c.ID
		idToName[c.ID] = c.Name
	}
	return idToName, nil
}

// CategoryNameToID builds the name -> id lookup for the created categories,
// with the same duplicate-name check.
func CategoryNameToID(cats []bigcommerce.Category) (map[string]int, error) {
	nameToID := make(map[string]int, len(cats))
	for _, c := range cats {
		if prev, ok := nameToID[c.Name]; ok {
			return nil, fmt.Errorf("duplicate category name %q (ids %d and %d)", c.Name, prev, c.ID)
		}
		nameToID[c.Name] = c.ID
	}
	return nameToID, nil
}

// BuildCategoriesForNewTree projects the source categories onto newTreeID.
// The old category id is dropped; the API assigns a new one on creation.
func BuildCategoriesForNewTree(cats []bigcommerce.Category, newTreeID int) []bigcommerce.NewCategory {
	out := make([]bigcommerce.NewCategory, len(cats))
	for i, c := range cats {
		out[i] = bigcommerce.NewCategory{
			Name:      c.Name,
			SortOrder: c.SortOrder,
			TreeID:    newTreeID,
		}
	}
	return out
}

// BuildProductCategoryAssignments remaps each assignment's category through
// old id -> name -> new id. Any assignment that cannot be translated aborts
// the migration; nothing is skipped or substituted.
func BuildProductCategoryAssignments(assignments []bigcommerce.ProductCategoryAssignment, oldIDToName map[int]string, nameToNewID map[string]int) ([]bigcommerce.ProductCategoryAssignment, error) {
	out := make([]bigcommerce.ProductCategoryAssignment, len(assignments))
	for i, a := range assignments {
		name, ok := oldIDToName[a.CategoryID]
		if !ok {
			return nil, fmt.Errorf("assignment for product %d references unknown category id %d", a.ProductID, a.CategoryID)
		}
		newID, ok := nameToNewID[name]
		if !ok {
			return nil, fmt.Errorf("no created category named %q for category id %d", name, a.CategoryID)
		}
		out[i] = bigcommerce.ProductCategoryAssignment{
			ProductID:  a.ProductID,
			CategoryID: newID,
		}
	}
	return out, nil
}

// FilterAssignmentsByChannel keeps only assignments on the given channel.
func FilterAssignmentsByChannel(assignments []bigcommerce.ProductChannelAssignment, channelID int) []bigcommerce.ProductChannelAssignment {
	out := make([]bigcommerce.ProductChannelAssignment, 0, len(assignments))
	for _, a := range assignments {
		if a.ChannelID == channelID {
			out = append(out, a)
		}
	}
	return out
}

// BuildProductChannelAssignments rewrites every assignment to channelID,
// discarding the original channel.
func BuildProductChannelAssignments(assignments []bigcommerce.ProductChannelAssignment, channelID int) []bigcommerce.ProductChannelAssignment {
	out := make([]bigcommerce.ProductChannelAssignment, len(assignments))
	for i, a := range assignments {
		out[i] = bigcommerce.ProductChannelAssignment{
			ProductID: a.ProductID,
			ChannelID: channelID,
		}
	}
	return out
}
