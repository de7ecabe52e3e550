package rest

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/qualens/qualens/infrastructure/cache"
	"github.com/qualens/qualens/infrastructure/state"
	"github.com/qualens/qualens/pkg/utils"
)

// Cache exposes the response cache and the request history for the
// gateway's diagnostics panel.
type Cache struct {
	Store   *cache.ResponseCache
	History *state.Store
}

func InitRestCache(app fiber.Router, store *cache.ResponseCache, history *state.Store) Cache {
	rest := Cache{Store: store, History: history}
	app.Get("/cache/stats", rest.Stats)
	app.Post("/cache/clear", rest.Clear)
	app.Get("/history", rest.RecentHistory)

	return rest
}

func (handler *Cache) Stats(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache stats retrieved",
		Results: handler.Store.Stats(),
	})
}

func (handler *Cache) Clear(c *fiber.Ctx) error {
	if prefix := c.Query("prefix"); prefix != "" {
		handler.Store.InvalidatePrefix(prefix)
	} else {
		handler.Store.Flush()
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache cleared",
	})
}

func (handler *Cache) RecentHistory(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	entries, err := handler.History.RecentHistory(limit)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Request history retrieved",
		Results: entries,
	})
}
