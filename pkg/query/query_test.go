package query_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edukit/edukit/pkg/query"
)

// --- Keys ---

func TestKey(t *testing.T) {
	t.Parallel()

	t.Run("params are sorted", func(t *testing.T) {
		t.Parallel()

		k := query.NewKey("courses", map[string]string{"page": "1", "category": "go"})
		require.Equal(t, "courses?category=go&page=1", k.String())
	})

	t.Run("empty values do not fragment the key", func(t *testing.T) {
		t.Parallel()

		with := query.NewKey("vouchers", map[string]string{"code": "SALE10", "status": ""})
		without := query.NewKey("vouchers", map[string]string{"code": "SALE10"})
		require.Equal(t, without.String(), with.String())
	})

	t.Run("no params renders bare prefix", func(t *testing.T) {
		t.Parallel()

		k := query.NewKey("orders", nil)
		require.Equal(t, "orders?", k.String())
	})

	t.Run("resource names cannot prefix-collide", func(t *testing.T) {
		t.Parallel()

		course := query.NewKey("course", nil)
		courses := query.NewKey("courses", nil)
		require.False(t, course.String() == courses.String())

		// "course?" is not a prefix of "courses?...".
		s := query.New()
		defer s.Close()

		ctx := context.Background()
		_, err := query.Fetch(ctx, s, courses, staticFetch(1))
		require.NoError(t, err)

		require.Zero(t, s.Invalidate("course"))
		require.Equal(t, 1, s.Invalidate("courses"))
	})
}

func staticFetch[T any](v T) query.FetchFunc[T] {
	return func(context.Context) (T, error) { return v, nil }
}

func staticMutate[T any](v T) query.MutateFunc[T] {
	return func(context.Context) (T, error) { return v, nil }
}

// --- Fetch ---

func TestFetch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("fresh hit skips the network", func(t *testing.T) {
		t.Parallel()

		s := query.New()
		defer s.Close()

		key := query.NewKey("courses", nil)
		var calls atomic.Int64
		fn := func(context.Context) (string, error) {
			calls.Add(1)
			return "payload", nil
		}

		v, err := query.Fetch(ctx, s, key, fn)
		require.NoError(t, err)
		require.Equal(t, "payload", v)

		v, err = query.Fetch(ctx, s, key, fn)
		require.NoError(t, err)
		require.Equal(t, "payload", v)
		require.Equal(t, int64(1), calls.Load(), "second read must be served from cache")
	})

	t.Run("identical filters issue exactly one request", func(t *testing.T) {
		t.Parallel()

		s := query.New()
		defer s.Close()

		key := query.NewKey("vouchers", map[string]string{"code": "SALE10"})
		var calls atomic.Int64
		fn := func(context.Context) (string, error) {
			calls.Add(1)
			time.Sleep(20 * time.Millisecond)
			return "SALE10", nil
		}

		var wg sync.WaitGroup
		for range 2 {
			wg.Go(func() {
				v, err := query.Fetch(ctx, s, key, fn)
				require.NoError(t, err)
				require.Equal(t, "SALE10", v)
			})
		}
		wg.Wait()

		require.Equal(t, int64(1), calls.Load(), "concurrent identical reads must share one request")
	})

	t.Run("disabled fetch issues no request", func(t *testing.T) {
		t.Parallel()

		s := query.New()
		defer s.Close()

		_, err := query.Fetch(ctx, s, query.DetailKey("courses", ""), func(context.Context) (string, error) {
			t.Error("fetch must not fire when disabled")
			return "", nil
		}, query.WithEnabled(false))
		require.ErrorIs(t, err, query.ErrDisabled)
	})

	t.Run("read retries once then surfaces the error", func(t *testing.T) {
		t.Parallel()

		s := query.New(query.WithRetryDelay(time.Millisecond))
		defer s.Close()

		wantErr := errors.New("backend down")
		var calls atomic.Int64
		_, err := query.Fetch(ctx, s, query.NewKey("orders", nil), func(context.Context) (int, error) {
			calls.Add(1)
			return 0, wantErr
		})
		require.ErrorIs(t, err, wantErr)
		require.Equal(t, int64(2), calls.Load(), "default policy is a single retry")
	})

	t.Run("stale hit serves cached value and revalidates", func(t *testing.T) {
		t.Parallel()

		s := query.New(query.WithDefaultStaleTime(time.Minute))
		defer s.Close()

		key := query.NewKey("comments", nil)
		var calls atomic.Int64
		fn := func(context.Context) (int, error) {
			return int(calls.Add(1)), nil
		}

		v, err := query.Fetch(ctx, s, key, fn, query.WithStaleTime(5*time.Millisecond))
		require.NoError(t, err)
		require.Equal(t, 1, v)

		time.Sleep(10 * time.Millisecond)

		// Stale read returns the cached value immediately.
		v, err = query.Fetch(ctx, s, key, fn)
		require.NoError(t, err)
		require.Equal(t, 1, v)

		// The background revalidation lands shortly after.
		require.Eventually(t, func() bool {
			v, err := query.Fetch(ctx, s, key, fn)
			return err == nil && v >= 2
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("fetch after close fails", func(t *testing.T) {
		t.Parallel()

		s := query.New()
		require.NoError(t, s.Close())

		_, err := query.Fetch(ctx, s, query.NewKey("courses", nil), staticFetch(1))
		require.ErrorIs(t, err, query.ErrClosed)
	})
}

// --- Ordering ---

func TestFetch_LastInitiatedWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	s := query.New()
	defer s.Close()

	key := query.NewKey("courses", nil)

	// First request: slow. It is forgotten by the invalidation below,
	// so a second, later-initiated request starts while it is still in
	// flight and settles first.
	firstStarted := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Go(func() {
		_, _ = query.Fetch(ctx, s, key, func(context.Context) (string, error) {
			close(firstStarted)
			<-release
			return "old", nil
		})
	})

	<-firstStarted
	s.Invalidate("courses")

	v, err := query.Fetch(ctx, s, key, staticFetch("new"))
	require.NoError(t, err)
	require.Equal(t, "new", v)

	// Let the slow first request settle after the newer one committed.
	close(release)
	wg.Wait()

	v, err = query.Fetch(ctx, s, key, func(context.Context) (string, error) {
		t.Error("cache should hold the newer value, no refetch expected")
		return "", nil
	})
	require.NoError(t, err)
	require.Equal(t, "new", v, "earlier-initiated response must not overwrite the newer result")
}

// --- Invalidation ---

func TestInvalidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("covers every filter variant of the resource", func(t *testing.T) {
		t.Parallel()

		s := query.New()
		defer s.Close()

		keys := []query.Key{
			query.NewKey("courses", nil),
			query.NewKey("courses", map[string]string{"page": "2"}),
			query.NewKey("courses", map[string]string{"category": "go", "page": "1"}),
		}
		for _, k := range keys {
			_, err := query.Fetch(ctx, s, k, staticFetch("x"))
			require.NoError(t, err)
		}
		_, err := query.Fetch(ctx, s, query.NewKey("orders", nil), staticFetch("y"))
		require.NoError(t, err)

		require.Equal(t, 3, s.Invalidate("courses"))

		for _, k := range keys {
			info, ok := s.Info(k)
			require.True(t, ok)
			require.Equal(t, query.StatusStale, info.Status)
		}

		info, ok := s.Info(query.NewKey("orders", nil))
		require.True(t, ok)
		require.Equal(t, query.StatusFresh, info.Status, "unrelated resources stay fresh")
	})

	t.Run("invalidated entry refetches on next read", func(t *testing.T) {
		t.Parallel()

		s := query.New()
		defer s.Close()

		key := query.NewKey("quizzes", nil)
		var calls atomic.Int64
		fn := func(context.Context) (int, error) {
			return int(calls.Add(1)), nil
		}

		_, err := query.Fetch(ctx, s, key, fn)
		require.NoError(t, err)

		s.Invalidate("quizzes")

		v, err := query.Fetch(ctx, s, key, fn)
		require.NoError(t, err)
		require.Equal(t, 2, v, "read after invalidation must block on the refetch")
	})

	t.Run("invalidated value is never served stale", func(t *testing.T) {
		t.Parallel()

		s := query.New()
		defer s.Close()

		key := query.NewKey("lectures", nil)
		_, err := query.Fetch(ctx, s, key, staticFetch("before"))
		require.NoError(t, err)

		s.Invalidate("lectures")

		v, err := query.Fetch(ctx, s, key, staticFetch("after"))
		require.NoError(t, err)
		require.Equal(t, "after", v)
	})

	t.Run("in-flight fetch from before the invalidation cannot commit", func(t *testing.T) {
		t.Parallel()

		s := query.New()
		defer s.Close()

		key := query.NewKey("orders", nil)
		started := make(chan struct{})
		release := make(chan struct{})

		var wg sync.WaitGroup
		wg.Go(func() {
			_, _ = query.Fetch(ctx, s, key, func(context.Context) (string, error) {
				close(started)
				<-release
				return "pre-mutation", nil
			})
		})

		<-started
		s.Invalidate("orders")
		close(release)
		wg.Wait()

		v, err := query.Fetch(ctx, s, key, staticFetch("post-mutation"))
		require.NoError(t, err)
		require.Equal(t, "post-mutation", v,
			"a response initiated before the invalidation must not be served")
	})

	t.Run("tree follows the dependency graph", func(t *testing.T) {
		t.Parallel()

		s := query.New(query.WithDependencies(map[query.Resource][]query.Resource{
			"courses":  {"chapters"},
			"chapters": {"lectures"},
			"lectures": nil,
		}))
		defer s.Close()

		for _, r := range []query.Resource{"courses", "chapters", "lectures"} {
			_, err := query.Fetch(ctx, s, query.NewKey(r, nil), staticFetch(1))
			require.NoError(t, err)
		}

		require.Equal(t, 3, s.InvalidateTree("courses"))
	})

	t.Run("tree tolerates cycles", func(t *testing.T) {
		t.Parallel()

		s := query.New(query.WithDependencies(map[query.Resource][]query.Resource{
			"orders":   {"vouchers"},
			"vouchers": {"orders"},
		}))
		defer s.Close()

		_, err := query.Fetch(ctx, s, query.NewKey("orders", nil), staticFetch(1))
		require.NoError(t, err)

		require.Equal(t, 1, s.InvalidateTree("orders"))
	})

	t.Run("remove drops entries entirely", func(t *testing.T) {
		t.Parallel()

		s := query.New()
		defer s.Close()

		key := query.NewKey("orders", nil)
		_, err := query.Fetch(ctx, s, key, staticFetch("mine"))
		require.NoError(t, err)

		s.Remove("orders")

		_, ok := s.Info(key)
		require.False(t, ok)
	})

	t.Run("subscribers are notified with the resource", func(t *testing.T) {
		t.Parallel()

		s := query.New()
		defer s.Close()

		notified := make(chan query.Resource, 1)
		unsubscribe := s.Subscribe(func(r query.Resource) {
			select {
			case notified <- r:
			default:
			}
		})
		defer unsubscribe()

		s.Invalidate("courses")

		select {
		case r := <-notified:
			require.Equal(t, query.Resource("courses"), r)
		case <-time.After(time.Second):
			t.Fatal("expected invalidation notification")
		}
	})
}

// --- Mutate ---

func TestMutate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create then list sees the new entity", func(t *testing.T) {
		t.Parallel()

		s := query.New()
		defer s.Close()

		// Backend state the fetch reads from.
		var mu sync.Mutex
		courses := []string{"Go Basics"}

		listKey := query.NewKey("courses", nil)
		listFn := func(context.Context) ([]string, error) {
			mu.Lock()
			defer mu.Unlock()
			out := make([]string, len(courses))
			copy(out, courses)
			return out, nil
		}

		first, err := query.Fetch(ctx, s, listKey, listFn)
		require.NoError(t, err)
		require.Equal(t, []string{"Go Basics"}, first)

		_, err = query.Mutate(ctx, s, "courses", func(context.Context) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			courses = append(courses, "Advanced Go")
			return "Advanced Go", nil
		})
		require.NoError(t, err)

		// The very next read must include the new course: invalidation
		// discards the cached list, so this read blocks on a fresh
		// request instead of serving the pre-mutation value.
		second, err := query.Fetch(ctx, s, listKey, listFn)
		require.NoError(t, err)
		require.Equal(t, []string{"Go Basics", "Advanced Go"}, second)
	})

	t.Run("failed mutation invalidates nothing", func(t *testing.T) {
		t.Parallel()

		s := query.New()
		defer s.Close()

		key := query.NewKey("vouchers", nil)
		_, err := query.Fetch(ctx, s, key, staticFetch("v"))
		require.NoError(t, err)

		wantErr := errors.New("rejected")
		_, err = query.Mutate(ctx, s, "vouchers", func(context.Context) (string, error) {
			return "", wantErr
		})
		require.ErrorIs(t, err, wantErr)

		info, ok := s.Info(key)
		require.True(t, ok)
		require.Equal(t, query.StatusFresh, info.Status)
	})

	t.Run("mutation is never retried", func(t *testing.T) {
		t.Parallel()

		s := query.New(query.WithRetries(3))
		defer s.Close()

		var calls atomic.Int64
		_, err := query.Mutate(ctx, s, "orders", func(context.Context) (int, error) {
			calls.Add(1)
			return 0, errors.New("payment failed")
		})
		require.Error(t, err)
		require.Equal(t, int64(1), calls.Load())
	})

	t.Run("detail key of the mutated entity goes stale", func(t *testing.T) {
		t.Parallel()

		s := query.New()
		defer s.Close()

		detail := query.DetailKey("courses", "c1")
		_, err := query.Fetch(ctx, s, detail, staticFetch("v1"))
		require.NoError(t, err)

		_, err = query.Mutate(ctx, s, "courses", staticMutate("v2"), query.WithDetailID("c1"))
		require.NoError(t, err)

		info, ok := s.Info(detail)
		require.True(t, ok)
		require.Equal(t, query.StatusStale, info.Status)
	})
}

// --- Prime ---

func TestPrime(t *testing.T) {
	t.Parallel()

	s := query.New()
	defer s.Close()

	key := query.DetailKey("courses", "c9")
	query.Prime(s, key, "seeded", 0)

	v, err := query.Fetch(context.Background(), s, key, func(context.Context) (string, error) {
		t.Error("primed entry must be served without a fetch")
		return "", nil
	})
	require.NoError(t, err)
	require.Equal(t, "seeded", v)
}

// --- LRU bound ---

func TestStore_MaxEntries(t *testing.T) {
	t.Parallel()

	s := query.New(query.WithMaxEntries(2))
	defer s.Close()

	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		_, err := query.Fetch(ctx, s, query.DetailKey("courses", id), staticFetch(id))
		require.NoError(t, err)
	}

	_, ok := s.Info(query.DetailKey("courses", "a"))
	require.False(t, ok, "oldest entry should have been evicted")

	_, ok = s.Info(query.DetailKey("courses", "c"))
	require.True(t, ok)
}

// --- Dependency graph validation ---

func TestValidateDependencies(t *testing.T) {
	t.Parallel()

	resources := []query.Resource{"courses", "chapters"}

	t.Run("complete graph passes", func(t *testing.T) {
		t.Parallel()

		err := query.ValidateDependencies(map[query.Resource][]query.Resource{
			"courses":  {"chapters"},
			"chapters": nil,
		}, resources)
		require.NoError(t, err)
	})

	t.Run("missing resource fails", func(t *testing.T) {
		t.Parallel()

		err := query.ValidateDependencies(map[query.Resource][]query.Resource{
			"courses": nil,
		}, resources)
		require.ErrorIs(t, err, query.ErrUnknownResource)
	})

	t.Run("undeclared target fails", func(t *testing.T) {
		t.Parallel()

		err := query.ValidateDependencies(map[query.Resource][]query.Resource{
			"courses":  {"ghosts"},
			"chapters": nil,
		}, resources)
		require.ErrorIs(t, err, query.ErrUnknownResource)
	})
}
