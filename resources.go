package edukit

import (
	"context"
	"strconv"

	"github.com/edukit/edukit/pkg/envelope"
	"github.com/edukit/edukit/pkg/query"
)

// Page is one decoded list result. Warnings report envelope shapes the
// decoder had to work around; callers may surface them to diagnostics.
type Page[T any] struct {
	envelope.List[T]
	Warnings []envelope.Warning
}

// Collection is the typed binding for one backend resource. All reads
// go through the shared query cache; all writes invalidate through the
// dependency graph.
type Collection[T any] struct {
	client   *Client
	resource query.Resource
	path     string
	id       func(T) string
}

func newCollection[T any](c *Client, resource query.Resource, path string, id func(T) string) *Collection[T] {
	return &Collection[T]{client: c, resource: resource, path: path, id: id}
}

// List fetches a filtered page through the cache. Params follow the
// paginate.Snapshot convention: "page" and "limit" plus free-form
// filters. Identical params in quick succession share one request.
func (c *Collection[T]) List(ctx context.Context, params map[string]string, opts ...query.FetchOption) (Page[T], error) {
	page := atoiDefault(params["page"], 1)
	limit := atoiDefault(params["limit"], 10)

	key := query.NewKey(c.resource, params)
	return query.Fetch(ctx, c.client.queries, key, func(ctx context.Context) (Page[T], error) {
		raw, err := c.client.api.Get(ctx, c.path, key.Values())
		if err != nil {
			return Page[T]{}, err
		}
		list, warnings := envelope.DecodeList[T](raw, page, limit)
		c.client.logWarnings(ctx, c.resource, warnings)
		return Page[T]{List: list, Warnings: warnings}, nil
	}, opts...)
}

// Get fetches one entity by id through the cache.
func (c *Collection[T]) Get(ctx context.Context, id string, opts ...query.FetchOption) (T, error) {
	if id == "" {
		opts = append(opts, query.WithEnabled(false))
	}

	key := query.DetailKey(c.resource, id)
	return query.Fetch(ctx, c.client.queries, key, func(ctx context.Context) (T, error) {
		var zero T
		raw, err := c.client.api.Get(ctx, c.path+"/"+id, nil)
		if err != nil {
			return zero, err
		}
		val, warnings := envelope.DecodeOne[T](raw)
		c.client.logWarnings(ctx, c.resource, warnings)
		return val, nil
	}, opts...)
}

// Create posts a new entity. On success the resource and its graph
// dependents are invalidated, and the returned entity is primed into
// the detail cache so an immediate Get needs no round trip.
func (c *Collection[T]) Create(ctx context.Context, payload any) (T, error) {
	val, err := query.Mutate(ctx, c.client.queries, c.resource, func(ctx context.Context) (T, error) {
		var zero T
		raw, err := c.client.api.Post(ctx, c.path, payload)
		if err != nil {
			return zero, err
		}
		entity, warnings := envelope.DecodeOne[T](raw)
		c.client.logWarnings(ctx, c.resource, warnings)
		return entity, nil
	})
	if err != nil {
		return val, err
	}
	c.prime(val)
	return val, nil
}

// Update puts changed fields for one entity. The entity's detail key is
// invalidated along with the resource lists.
func (c *Collection[T]) Update(ctx context.Context, id string, payload any) (T, error) {
	val, err := query.Mutate(ctx, c.client.queries, c.resource, func(ctx context.Context) (T, error) {
		var zero T
		raw, err := c.client.api.Put(ctx, c.path+"/"+id, payload)
		if err != nil {
			return zero, err
		}
		entity, warnings := envelope.DecodeOne[T](raw)
		c.client.logWarnings(ctx, c.resource, warnings)
		return entity, nil
	}, query.WithDetailID(id))
	if err != nil {
		return val, err
	}
	c.prime(val)
	return val, nil
}

// Delete removes one entity and invalidates its cached state.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	_, err := query.Mutate(ctx, c.client.queries, c.resource, func(ctx context.Context) (struct{}, error) {
		_, err := c.client.api.Delete(ctx, c.path+"/"+id)
		return struct{}{}, err
	}, query.WithDetailID(id))
	return err
}

// Invalidate marks every cached entry of the resource stale,
// transitively through the dependency graph.
func (c *Collection[T]) Invalidate() {
	c.client.queries.InvalidateTree(c.resource)
}

func (c *Collection[T]) prime(val T) {
	if c.id == nil {
		return
	}
	if id := c.id(val); id != "" {
		query.Prime(c.client.queries, query.DetailKey(c.resource, id), val, 0)
	}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
