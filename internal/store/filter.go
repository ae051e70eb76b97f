package store

// RecipeFilter narrows a recipe listing. Zero values disable a criterion.
type RecipeFilter struct {
	AuthorID         int64
	TagSlugs         []string // any-of
	FavoritedBy      int64
	InShoppingCartOf int64
}

// IsEmpty reports whether the filter selects every recipe.
func (f RecipeFilter) IsEmpty() bool {
	return f.AuthorID == 0 && len(f.TagSlugs) == 0 && f.FavoritedBy == 0 && f.InShoppingCartOf == 0
}
