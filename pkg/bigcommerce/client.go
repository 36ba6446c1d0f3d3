package bigcommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the BigCommerce v3 API for a single store.
type Client struct {
	origin      string
	storeHash   string
	accessToken string
	httpClient  *http.Client
}

func NewClient(origin, storeHash, accessToken string) *Client {
	return &Client{
		origin:      strings.TrimSuffix(origin, "/"),
		storeHash:   storeHash,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}
}

// -- Models --

type Category struct {
	ID        int    `json:"category_id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
	TreeID    int    `json:"tree_id"`
}

// NewCategory is the creation payload; the API assigns the category id.
type NewCategory struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
	TreeID    int    `json:"tree_id"`
}

type CategoryTree struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Channels []int  `json:"channels"`
}

type ProductCategoryAssignment struct {
	ProductID  int `json:"product_id"`
	CategoryID int `json:"category_id"`
}

type ProductChannelAssignment struct {
	ProductID int `json:"product_id"`
	ChannelID int `json:"channel_id"`
}

// envelope is the v3 response wrapper.
type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta struct {
		Pagination struct {
			TotalPages  int `json:"total_pages"`
			CurrentPage int `json:"current_page"`
		} `json:"pagination"`
	} `json:"meta"`
}

// do issues one request to {origin}/stores/{storeHash}{path}. Default headers
// are accept, content-type and x-auth-token; caller headers win on collision.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, headers map[string]string) (*envelope, error) {
	u := c.origin + "/stores/" + c.storeHash + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-auth-token", c.accessToken)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s returned status %d: %s", method, path, resp.StatusCode, snippet(raw))
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("failed to parse %s %s response: %w", method, path, err)
		}
	}
	return &env, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

// -- Pagination --

// ErrDone signals an exhausted pager.
var ErrDone = errors.New("no more pages")

// Pager iterates the pages of a list endpoint. It is finite and not
// restartable: call Next until it returns ErrDone.
type Pager[T any] struct {
	client *Client
	path   string
	query  url.Values
	page   int
	done   bool
}

func newPager[T any](c *Client, path string, query url.Values) *Pager[T] {
	return &Pager[T]{client: c, path: path, query: query}
}

// Next fetches the next page. It returns ErrDone once every page has been
// returned.
func (p *Pager[T]) Next(ctx context.Context) ([]T, error) {
	if p.done {
		return nil, ErrDone
	}
	p.page++

	q := url.Values{}
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(p.page))

	env, err := p.client.do(ctx, http.MethodGet, p.path, q, nil, nil)
	if err != nil {
		p.done = true
		return nil, err
	}

	var items []T
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &items); err != nil {
			p.done = true
			return nil, fmt.Errorf("failed to parse page %d of %s: %w", p.page, p.path, err)
		}
	}

	pg := env.Meta.Pagination
	if pg.TotalPages == 0 || pg.CurrentPage >= pg.TotalPages {
		p.done = true
	}
	if len(items) == 0 {
		p.done = true
		return nil, ErrDone
	}
	return items, nil
}

func drain[T any](ctx context.Context, p *Pager[T]) ([]T, error) {
	var all []T
	for {
		items, err := p.Next(ctx)
		if errors.Is(err, ErrDone) {
			return all, nil
		}
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}
}

// -- Operations --

type treeRequest struct {
	Name     string `json:"name"`
	Channels []int  `json:"channels"`
}

// CreateCategoryTree creates one category tree scoped to channelID and
// returns its id. Every call creates a fresh tree: runs are not idempotent.
func (c *Client) CreateCategoryTree(ctx context.Context, name string, channelID int) (int, error) {
	body := []treeRequest{{Name: name, Channels: []int{channelID}}}
	env, err := c.do(ctx, http.MethodPut, "/v3/catalog/trees", nil, body, nil)
	if err != nil {
		return 0, err
	}
	var trees []CategoryTree
	if err := json.Unmarshal(env.Data, &trees); err != nil {
		return 0, fmt.Errorf("failed to parse created tree: %w", err)
	}
	if len(trees) == 0 {
		return 0, fmt.Errorf("create tree returned no data")
	}
	return trees[0].ID, nil
}

// ListCategoryTrees returns every category tree in the store.
func (c *Client) ListCategoryTrees(ctx context.Context) ([]CategoryTree, error) {
	return drain(ctx, newPager[CategoryTree](c, "/v3/catalog/trees", nil))
}

// PageCategories returns a pager over the categories of the given trees.
func (c *Client) PageCategories(treeIDs []int) *Pager[Category] {
	q := url.Values{}
	q.Set("tree_id:in", joinInts(treeIDs))
	return newPager[Category](c, "/v3/catalog/trees/categories", q)
}

// ListCategories drains every category page for the given trees.
func (c *Client) ListCategories(ctx context.Context, treeIDs []int) ([]Category, error) {
	return drain(ctx, c.PageCategories(treeIDs))
}

// CreateCategories creates the given categories and returns them with their
// newly assigned ids.
func (c *Client) CreateCategories(ctx context.Context, cats []NewCategory) ([]Category, error) {
	env, err := c.do(ctx, http.MethodPost, "/v3/catalog/trees/categories", nil, cats, nil)
	if err != nil {
		return nil, err
	}
	var created []Category
	if err := json.Unmarshal(env.Data, &created); err != nil {
		return nil, fmt.Errorf("failed to parse created categories: %w", err)
	}
	return created, nil
}

// PageProductCategoryAssignments returns a pager over the product-category
// assignments of the given categories.
func (c *Client) PageProductCategoryAssignments(categoryIDs []int) *Pager[ProductCategoryAssignment] {
	q := url.Values{}
	q.Set("category_id:in", joinInts(categoryIDs))
	return newPager[ProductCategoryAssignment](c, "/v3/catalog/products/category-assignments", q)
}

// ListProductCategoryAssignments drains every assignment page for the given
// categories.
func (c *Client) ListProductCategoryAssignments(ctx context.Context, categoryIDs []int) ([]ProductCategoryAssignment, error) {
	return drain(ctx, c.PageProductCategoryAssignments(categoryIDs))
}

// AssignProductsToCategories writes the given product-category assignments.
func (c *Client) AssignProductsToCategories(ctx context.Context, assignments []ProductCategoryAssignment) error {
	_, err := c.do(ctx, http.MethodPut, "/v3/catalog/products/category-assignments", nil, assignments, nil)
	return err
}

// PageProductChannelAssignments returns a pager over every product-channel
// assignment in the store.
func (c *Client) PageProductChannelAssignments() *Pager[ProductChannelAssignment] {
	return newPager[ProductChannelAssignment](c, "/v3/catalog/products/channel-assignments", nil)
}

// ListProductChannelAssignments drains every product-channel assignment page.
func (c *Client) ListProductChannelAssignments(ctx context.Context) ([]ProductChannelAssignment, error) {
	return drain(ctx, c.PageProductChannelAssignments())
}

// AssignProductsToChannels writes the given product-channel assignments.
func (c *Client) AssignProductsToChannels(ctx context.Context, assignments []ProductChannelAssignment) error {
	_, err := c.do(ctx, http.MethodPut, "/v3/catalog/products/channel-assignments", nil, assignments, nil)
	return err
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
