package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/casework-hq/casework/internal/shared/constants"
)

// LimitOffset holds parsed limit/offset paging parameters.
type LimitOffset struct {
	Limit  int
	Offset int
}

// NormalizeLimitOffset applies defaults and caps. A limit below 1 becomes
// defaultLimit; a negative offset becomes 0.
func NormalizeLimitOffset(limit, offset, defaultLimit, maxLimit int) LimitOffset {
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return LimitOffset{Limit: limit, Offset: offset}
}

// ParseLimitOffset reads "limit" and "offset" from the query string.
func ParseLimitOffset(c *gin.Context, maxLimit int) LimitOffset {
	limit := parseQueryInt(c, "limit", constants.DefaultLimit)
	offset := parseQueryInt(c, "offset", 0)
	return NormalizeLimitOffset(limit, offset, constants.DefaultLimit, maxLimit)
}

// parseQueryInt parses an integer query parameter with a default value.
func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			return n
		}
	}
	return defaultVal
}
