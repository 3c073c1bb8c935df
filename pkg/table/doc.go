// Package table implements a remote-backed data table controller: local
// pagination, column-filter, sort and visibility state reconciled with a
// server that performs the actual filtering, sorting and pagination.
//
// The controller never re-derives rows locally. Its row model is exactly
// what the server last returned, in server order. State changes schedule a
// debounced fetch; every fetch carries a monotonic ticket and only the
// response for the highest ticket issued so far is applied, so a slow stale
// response can never overwrite fresher data.
//
// The package is generic over the row type. Consumers declare filterable
// fields (Fields), column definitions (Column) and a Source that executes
// the server query, then drive everything through the State setters.
package table
