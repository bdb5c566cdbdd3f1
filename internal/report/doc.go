// Package report renders integrity check results and baseline metadata as
// text, bordered tables or JSON.
package report
