package migration

import (
	"context"
	"fmt"

	"catalog-migrate/pkg/bigcommerce"
	"catalog-migrate/pkg/config"
	"catalog-migrate/pkg/logging"
)

// CatalogAPI is the slice of the store API the pipeline needs.
type CatalogAPI interface {
	CreateCategoryTree(ctx context.Context, name string, channelID int) (int, error)
	ListCategories(ctx context.Context, treeIDs []int) ([]bigcommerce.Category, error)
	CreateCategories(ctx context.Context, cats []bigcommerce.NewCategory) ([]bigcommerce.Category, error)
	ListProductCategoryAssignments(ctx context.Context, categoryIDs []int) ([]bigcommerce.ProductCategoryAssignment, error)
	AssignProductsToCategories(ctx context.Context, assignments []bigcommerce.ProductCategoryAssignment) error
	ListProductChannelAssignments(ctx context.Context) ([]bigcommerce.ProductChannelAssignment, error)
	AssignProductsToChannels(ctx context.Context, assignments []bigcommerce.ProductChannelAssignment) error
}

// Service runs the channel migration pipeline: category tree, then
// product-category assignments, then product-channel assignments. Stages run
// strictly in order and the first error aborts the run; remote side effects
// of completed stages are left in place.
type Service struct {
	API CatalogAPI
	Log *logging.Logger

	ChannelID       int
	SourceTreeID    int
	SourceChannelID int
	TreeName        string
}

func NewService(api CatalogAPI, log *logging.Logger, cfg *config.Config) *Service {
	return &Service{
		API:             api,
		Log:             log,
		ChannelID:       cfg.ChannelID,
		SourceTreeID:    cfg.SourceTreeID,
		SourceChannelID: cfg.SourceChannelID,
		TreeName:        cfg.TreeName,
	}
}

// Run executes the full migration once.
func (s *Service) Run(ctx context.Context) error {
	s.Log.Infof("Creating category tree %q for channel %d...", s.TreeName, s.ChannelID)
	treeID, err := s.API.CreateCategoryTree(ctx, s.TreeName, s.ChannelID)
	if err != nil {
		return fmt.Errorf("failed to create category tree: %w", err)
	}
	s.Log.Successf("Created category tree %d", treeID)

	s.Log.Infof("Fetching categories from tree %d...", s.SourceTreeID)
	sourceCategories, err := s.API.ListCategories(ctx, []int{s.SourceTreeID})
	if err != nil {
		return fmt.Errorf("failed to fetch source categories: %w", err)
	}
	s.Log.Infof("Fetched %d categories", len(sourceCategories))

	oldIDToName, err := CategoryIDToName(sourceCategories)
	if err != nil {
		return err
	}

	s.Log.Infof("Creating %d categories on tree %d...", len(sourceCategories), treeID)
	created, err := s.API.CreateCategories(ctx, BuildCategoriesForNewTree(sourceCategories, treeID))
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	s.Log.Successf("Created %d categories", len(created))

	nameToNewID, err := CategoryNameToID(created)
	if err != nil {
		return err
	}

	s.Log.Infof("Fetching product-category assignments...")
	assignments, err := s.API.ListProductCategoryAssignments(ctx, categoryIDs(sourceCategories))
	if err != nil {
		return fmt.Errorf("failed to fetch product-category assignments: %w", err)
	}
	s.Log.Infof("Fetched %d product-category assignments", len(assignments))

	remapped, err := BuildProductCategoryAssignments(assignments, oldIDToName, nameToNewID)
	if err != nil {
		return err
	}
	if err := s.API.AssignProductsToCategories(ctx, remapped); err != nil {
		return fmt.Errorf("failed to write product-category assignments: %w", err)
	}
	s.Log.Successf("Migrated %d product-category assignments", len(remapped))

	s.Log.Infof("Fetching product-channel assignments...")
	channelAssignments, err := s.API.ListProductChannelAssignments(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch product-channel assignments: %w", err)
	}
	s.Log.Infof("Fetched %d product-channel assignments", len(channelAssignments))

	if s.SourceChannelID != 0 {
		channelAssignments = FilterAssignmentsByChannel(channelAssignments, s.SourceChannelID)
		s.Log.Infof("Migrating %d assignments on channel %d", len(channelAssignments), s.SourceChannelID)
	}

	rewritten := BuildProductChannelAssignments(channelAssignments, s.ChannelID)
	if err := s.API.AssignProductsToChannels(ctx, rewritten); err != nil {
		return fmt.Errorf("failed to write product-channel assignments: %w", err)
	}
	s.Log.Successf("Migrated %d product-channel assignments", len(rewritten))

	s.Log.Successf("Migration complete")
	return nil
}

func categoryIDs(cats []bigcommerce.Category) []int {
	ids := make([]int, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	return ids
}
