package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stories-v13/internal/managers"
	"stories-v13/internal/schemas"
	"stories-v13/internal/utils"
)

// TaxonomyHdl outlines the taxonomy operations.
type TaxonomyHdl interface {
	GetTaxonomy(ctx *gin.Context)
}

// TaxonomyHandler serves the genre and category taxonomy used by story
// submission and browsing forms.
type TaxonomyHandler struct {
	DatabaseManager managers.DatabaseMgr
}

// NewTaxonomyHandler returns a new TaxonomyHandler using the given managers.
func NewTaxonomyHandler(databaseManager managers.DatabaseMgr) TaxonomyHdl {
	return &TaxonomyHandler{DatabaseManager: databaseManager}
}

// GetTaxonomy returns every genre and every category group with its
// categories, ordered for display.
func (handler *TaxonomyHandler) GetTaxonomy(ctx *gin.Context) {
	pool := handler.DatabaseManager.GetPool()

	genres := make([]schemas.GenreDTO, 0)
	queryString := "SELECT genre_id, name FROM genres ORDER BY name"
	rows, err := pool.Query(ctx, queryString)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var genre schemas.GenreDTO
		if err = rows.Scan(&genre.ID, &genre.Name); err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		genres = append(genres, genre)
	}
	rows.Close()

	groups := make([]schemas.CategoryGroupDTO, 0)
	queryString = "SELECT g.group_id, g.name, g.sort_order, c.category_id, c.name FROM category_groups g " +
		"LEFT JOIN categories c ON c.group_id = g.group_id ORDER BY g.sort_order, c.name"
	rows, err = pool.Query(ctx, queryString)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var groupId, groupName string
		var sortOrder int
		var categoryId, categoryName *string
		if err = rows.Scan(&groupId, &groupName, &sortOrder, &categoryId, &categoryName); err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		if len(groups) == 0 || groups[len(groups)-1].ID != groupId {
			groups = append(groups, schemas.CategoryGroupDTO{
				ID:         groupId,
				Name:       groupName,
				Order:      sortOrder,
				Categories: make([]schemas.CategoryDTO, 0),
			})
		}

		// A group without categories yields a row with null category columns.
		if categoryId != nil && categoryName != nil {
			group := &groups[len(groups)-1]
			group.Categories = append(group.Categories, schemas.CategoryDTO{ID: *categoryId, Name: *categoryName})
		}
	}

	utils.WriteAndLogResponse(ctx, &schemas.TaxonomyDTO{Genres: genres, Groups: groups}, http.StatusOK)
}
