package migration

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-migrate/pkg/bigcommerce"
	"catalog-migrate/pkg/config"
	"catalog-migrate/pkg/logging"
)

// -- Mocks --

type MockAPI struct {
	TreeID             int
	Categories         []bigcommerce.Category
	Created            []bigcommerce.Category
	Assignments        []bigcommerce.ProductCategoryAssignment
	ChannelAssignments []bigcommerce.ProductChannelAssignment
	Err                error

	CreatedTreeName    string
	CreatedTreeChannel int
	CreateCategoriesIn []bigcommerce.NewCategory
	WroteCategories    []bigcommerce.ProductCategoryAssignment
	WroteChannels      []bigcommerce.ProductChannelAssignment
}

func (m *MockAPI) CreateCategoryTree(ctx context.Context, name string, channelID int) (int, error) {
	m.CreatedTreeName = name
	m.CreatedTreeChannel = channelID
	return m.TreeID, m.Err
}

func (m *MockAPI) ListCategories(ctx context.Context, treeIDs []int) ([]bigcommerce.Category, error) {
	return m.Categories, m.Err
}

func (m *MockAPI) CreateCategories(ctx context.Context, cats []bigcommerce.NewCategory) ([]bigcommerce.Category, error) {
	m.CreateCategoriesIn = cats
	return m.Created, m.Err
}

func (m *MockAPI) ListProductCategoryAssignments(ctx context.Context, categoryIDs []int) ([]bigcommerce.ProductCategoryAssignment, error) {
	return m.Assignments, m.Err
}

func (m *MockAPI) AssignProductsToCategories(ctx context.Context, assignments []bigcommerce.ProductCategoryAssignment) error {
	m.WroteCategories = assignments
	return m.Err
}

func (m *MockAPI) ListProductChannelAssignments(ctx context.Context) ([]bigcommerce.ProductChannelAssignment, error) {
	return m.ChannelAssignments, m.Err
}

func (m *MockAPI) AssignProductsToChannels(ctx context.Context, assignments []bigcommerce.ProductChannelAssignment) error {
	m.WroteChannels = assignments
	return m.Err
}

func testConfig() *config.Config {
	return &config.Config{
		ChannelID:    3,
		SourceTreeID: 1,
		TreeName:     "Migrated category tree",
	}
}

// -- Tests --

func TestRun(t *testing.T) {
	api := &MockAPI{
		TreeID: 9,
		Categories: []bigcommerce.Category{
			{ID: 1, Name: "A", SortOrder: 0, TreeID: 1},
			{ID: 2, Name: "B", SortOrder: 1, TreeID: 1},
		},
		Created: []bigcommerce.Category{
			{ID: 10, Name: "A", SortOrder: 0, TreeID: 9},
			{ID: 11, Name: "B", SortOrder: 1, TreeID: 9},
		},
		Assignments: []bigcommerce.ProductCategoryAssignment{
			{ProductID: 7, CategoryID: 2},
		},
		ChannelAssignments: []bigcommerce.ProductChannelAssignment{
			{ProductID: 7, ChannelID: 1},
			{ProductID: 8, ChannelID: 2},
		},
	}

	var out bytes.Buffer
	svc := NewService(api, logging.New(&out), testConfig())

	err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Migrated category tree", api.CreatedTreeName)
	assert.Equal(t, 3, api.CreatedTreeChannel)

	require.Len(t, api.CreateCategoriesIn, 2)
	assert.Equal(t, bigcommerce.NewCategory{Name: "A", SortOrder: 0, TreeID: 9}, api.CreateCategoriesIn[0])
	assert.Equal(t, bigcommerce.NewCategory{Name: "B", SortOrder: 1, TreeID: 9}, api.CreateCategoriesIn[1])

	assert.Equal(t, []bigcommerce.ProductCategoryAssignment{{ProductID: 7, CategoryID: 11}}, api.WroteCategories)

	assert.Equal(t, []bigcommerce.ProductChannelAssignment{
		{ProductID: 7, ChannelID: 3},
		{ProductID: 8, ChannelID: 3},
	}, api.WroteChannels)

	assert.Contains(t, out.String(), "[INFO] ")
	assert.Contains(t, out.String(), "[SUCCESS] Migration complete")
}

func TestRunSourceChannelFilter(t *testing.T) {
	api := &MockAPI{
		TreeID: 9,
		ChannelAssignments: []bigcommerce.ProductChannelAssignment{
			{ProductID: 7, ChannelID: 1},
			{ProductID: 8, ChannelID: 2},
		},
	}

	cfg := testConfig()
	cfg.SourceChannelID = 1
	svc := NewService(api, logging.New(&bytes.Buffer{}), cfg)

	err := svc.Run(context.Background())
	require.NoError(t, err)

	// Only the channel-1 assignment moves.
	assert.Equal(t, []bigcommerce.ProductChannelAssignment{
		{ProductID: 7, ChannelID: 3},
	}, api.WroteChannels)
}

func TestRunUntranslatableAssignment(t *testing.T) {
	api := &MockAPI{
		TreeID: 9,
		Categories: []bigcommerce.Category{
			{ID: 1, Name: "A", SortOrder: 0, TreeID: 1},
		},
		Created: []bigcommerce.Category{
			{ID: 10, Name: "A", SortOrder: 0, TreeID: 9},
		},
		Assignments: []bigcommerce.ProductCategoryAssignment{
			{ProductID: 100, CategoryID: 999},
		},
	}

	svc := NewService(api, logging.New(&bytes.Buffer{}), testConfig())

	err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "999")

	// Nothing past the failing stage runs.
	assert.Nil(t, api.WroteCategories)
	assert.Nil(t, api.WroteChannels)
}

func TestRunCreateTreeFails(t *testing.T) {
	api := &MockAPI{Err: fmt.Errorf("boom")}
	svc := NewService(api, logging.New(&bytes.Buffer{}), testConfig())

	err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category tree")
	assert.Nil(t, api.WroteChannels)
}
