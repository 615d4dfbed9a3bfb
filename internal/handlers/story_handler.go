package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stories-v13/internal/managers"
	"stories-v13/internal/schemas"
	"stories-v13/internal/utils"
)

// StoryHdl outlines the story browsing operations.
type StoryHdl interface {
	ListStories(ctx *gin.Context)
}

// StoryHandler serves the public story listings.
type StoryHandler struct {
	DatabaseManager managers.DatabaseMgr
}

// NewStoryHandler returns a new StoryHandler using the given managers.
func NewStoryHandler(databaseManager managers.DatabaseMgr) StoryHdl {
	return &StoryHandler{DatabaseManager: databaseManager}
}

// ListStories returns a paginated window over the published stories, newest
// first, optionally filtered by genre name.
func (handler *StoryHandler) ListStories(ctx *gin.Context) {
	offset, limit := utils.ParsePaginationParams(ctx)
	genre := ctx.Query(utils.GenreParamKey)
	pool := handler.DatabaseManager.GetPool()

	countQuery := "SELECT COUNT(*) FROM stories s LEFT JOIN genres g ON g.genre_id = s.genre_id " +
		"WHERE s.published_at IS NOT NULL AND ($1 = '' OR g.name = $1)"
	var totalRecords int
	if err := pool.QueryRow(ctx, countQuery, genre).Scan(&totalRecords); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString := "SELECT s.story_id, s.title, s.summary, u.username, u.display_name, g.name, s.published_at " +
		"FROM stories s JOIN users u ON u.user_id = s.author_id LEFT JOIN genres g ON g.genre_id = s.genre_id " +
		"WHERE s.published_at IS NOT NULL AND ($1 = '' OR g.name = $1) " +
		"ORDER BY s.published_at DESC OFFSET $2 LIMIT $3"
	rows, err := pool.Query(ctx, queryString, genre, offset, limit)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	stories := make([]schemas.StoryDTO, 0)
	for rows.Next() {
		var story schemas.StoryDTO
		var publishedAt time.Time
		if err = rows.Scan(&story.StoryID, &story.Title, &story.Summary, &story.Author.Username,
			&story.Author.DisplayName, &story.Genre, &publishedAt); err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		story.CreatedAt = publishedAt.Format(time.RFC3339)
		stories = append(stories, story)
	}

	utils.SendPaginatedResponse(ctx, stories, offset, limit, totalRecords)
}
