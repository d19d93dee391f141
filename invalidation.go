package edukit

import "github.com/edukit/edukit/pkg/query"

// Resource names, one per backend collection.
const (
	ResourceCourses  query.Resource = "courses"
	ResourceChapters query.Resource = "chapters"
	ResourceLectures query.Resource = "lectures"
	ResourceQuizzes  query.Resource = "quizzes"
	ResourceOrders   query.Resource = "orders"
	ResourceVouchers query.Resource = "vouchers"
	ResourceComments query.Resource = "comments"
	ResourceUsers    query.Resource = "users"
)

// Resources lists every declared resource. The invalidation graph is
// validated against this list at client construction, so adding a
// resource without deciding its invalidation edges fails fast.
func Resources() []query.Resource {
	return []query.Resource{
		ResourceCourses,
		ResourceChapters,
		ResourceLectures,
		ResourceQuizzes,
		ResourceOrders,
		ResourceVouchers,
		ResourceComments,
		ResourceUsers,
	}
}

// DefaultDependencies is the invalidation graph: mutating a key
// resource also invalidates the listed resources, transitively. Course
// edits reorder chapters, chapter edits reorder lectures, and orders
// consume voucher usage counts.
func DefaultDependencies() map[query.Resource][]query.Resource {
	return map[query.Resource][]query.Resource{
		ResourceCourses:  {ResourceChapters},
		ResourceChapters: {ResourceLectures},
		ResourceLectures: {},
		ResourceQuizzes:  {},
		ResourceOrders:   {ResourceVouchers},
		ResourceVouchers: {},
		ResourceComments: {},
		ResourceUsers:    {},
	}
}
