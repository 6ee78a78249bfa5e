package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// maxPerPage caps the page size a client may request.
const maxPerPage = 100

// pageParams holds normalized pagination inputs. Page is 1-based.
type pageParams struct {
	Page    int
	PerPage int
}

func (p pageParams) limit() int  { return p.PerPage }
func (p pageParams) offset() int { return (p.Page - 1) * p.PerPage }

// parsePageParams reads ?page= and ?per_page=, clamping garbage to sane
// values instead of erroring.
func parsePageParams(c *gin.Context, defaultPerPage int) pageParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return pageParams{Page: page, PerPage: perPage}
}

// pageEnvelope builds the standard paginated response body. The item list
// is keyed by resource name; prev_url and next_url are null at the edges.
func pageEnvelope(path, itemsKey string, items interface{}, params pageParams, total int64) gin.H {
	var prevURL, nextURL interface{}

	if params.Page > 1 {
		prevURL = pageURL(path, params.Page-1, params.PerPage)
	}
	if int64(params.Page*params.PerPage) < total {
		nextURL = pageURL(path, params.Page+1, params.PerPage)
	}

	return gin.H{
		itemsKey:   items,
		"prev_url": prevURL,
		"next_url": nextURL,
		"count":    total,
	}
}

func pageURL(path string, page, perPage int) string {
	return fmt.Sprintf("%s?page=%d&per_page=%d", path, page, perPage)
}
