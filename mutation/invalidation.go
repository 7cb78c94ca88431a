package mutation

import "github.com/HananelSabag/SpendWise-sub004/cache"

// EntityKind identifies which entity a mutation targets.
type EntityKind string

const (
	EntityTransaction EntityKind = "transaction"
	EntityTemplate    EntityKind = "template"
	EntityCategory    EntityKind = "category"
)

// OpKind identifies the mutation operation.
type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// invalidationTable maps every (entity, operation) pair to the query
// caches it makes stale. The mapping is static: deciding it at runtime
// is how caches drift out of sync.
var invalidationTable = map[EntityKind]map[OpKind][]string{
	EntityTransaction: {
		OpCreate: {cache.QueryTransactions, cache.QueryDashboard, cache.QueryTransactionsSummary, cache.QueryCategories},
		OpUpdate: {cache.QueryTransactions, cache.QueryDashboard, cache.QueryTransactionsSummary, cache.QueryCategories},
		OpDelete: {cache.QueryTransactions, cache.QueryDashboard, cache.QueryTransactionsSummary, cache.QueryCategories},
	},
	EntityTemplate: {
		OpUpdate: {cache.QueryTemplates, cache.QueryTransactions, cache.QueryDashboard},
		OpDelete: {cache.QueryTemplates, cache.QueryTransactions, cache.QueryDashboard},
	},
	EntityCategory: {
		OpCreate: {cache.QueryCategories, cache.QueryDashboard},
		OpUpdate: {cache.QueryCategories, cache.QueryDashboard},
		OpDelete: {cache.QueryCategories, cache.QueryDashboard},
	},
}

// QueriesFor returns the query names invalidated by the given
// mutation. Unknown pairs invalidate nothing.
func QueriesFor(entity EntityKind, op OpKind) []string {
	return invalidationTable[entity][op]
}

// primaryQuery is the list cache a mutation writes optimistically.
func primaryQuery(entity EntityKind) string {
	switch entity {
	case EntityTransaction:
		return cache.QueryTransactions
	case EntityTemplate:
		return cache.QueryTemplates
	case EntityCategory:
		return cache.QueryCategories
	}
	return ""
}
