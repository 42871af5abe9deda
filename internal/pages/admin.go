package pages

import (
	"context"
	"slices"

	"github.com/aussiebroadwan/campus/pkg/optimistic"
)

// remove drops the elements matching match from cell while del runs, and puts
// them back if del fails.
func remove[T any](ctx context.Context, cell *optimistic.Cell[[]T], match func(T) bool, del func(context.Context) error) error {
	return cell.Mutate(ctx,
		func(list []T) []T {
			return slices.DeleteFunc(optimistic.Clone(list), match)
		},
		del,
	)
}

// insert adds v to the list in cell and re-sorts it with cmp.
func insert[T any](cell *optimistic.Cell[[]T], v T, cmp func(a, b T) int) {
	cell.Update(func(list []T) []T {
		list = append(optimistic.Clone(list), v)
		slices.SortStableFunc(list, cmp)
		return list
	})
}
