// Package paging implements page/limit pagination for list endpoints.
//
//	params := paging.ParseParams(c.Query("page"), c.Query("limit"))
//	items, total, err := repo.List(ctx, filter, params)
//	result := paging.NewResult(items, total, params)
//
// A missing or non-numeric page is 1 and a missing limit is 10. Limit is
// clamped to 1..100.
package paging
