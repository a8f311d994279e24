package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"etix/src/config"
	"etix/src/db"
	"etix/src/lib"
	"etix/src/middlewares"
	"etix/src/models"
	"etix/src/types"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const eventsCacheKey = "events:index"

func invalidateEventsCache(ctx *gin.Context) {
	rd := lib.GetRedisClient()
	if err := rd.Del(ctx, eventsCacheKey).Err(); err != nil {
		log.Printf("[redis] Error invalidating events cache: %s\n", err.Error())
	}
}

func publicEventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			rd := lib.GetRedisClient()
			if val := rd.Get(ctx, eventsCacheKey).Val(); val != "" {
				var events []models.Event
				if err := json.Unmarshal([]byte(val), &events); err == nil {
					ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
					return
				}
			}
			var events []models.Event
			db := db.GetDb()
			if err := db.
				Where("date > ?", time.Now()).
				Order("date asc").
				Preload("Tickets").
				Find(&events).
				Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if b, err := json.Marshal(events); err == nil {
				if err := rd.SetEx(ctx, eventsCacheKey, string(b), config.EVENTS_CACHE_TTL).Err(); err != nil {
					log.Printf("[redis] Error caching events: %s\n", err.Error())
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var event models.Event
			db := db.GetDb()
			if err := db.
				Where("id = ?", params.ID).
				Preload("Tickets").
				First(&event).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": types.ErrEventNotFound.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		})
	return g
}

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events/create", middlewares.RequireRole(types.ROLE_POSTER), func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			date, err := time.Parse(config.TIME_PARSE_FORMAT, body.Date)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			tickets := make([]models.Ticket, 0, len(body.Tickets))
			for _, t := range body.Tickets {
				tickets = append(tickets, models.Ticket{
					Name:     t.Name,
					Price:    t.Price,
					Quantity: t.Quantity,
				})
			}
			event := models.Event{
				Title:       body.Title,
				Slug:        slug.Make(body.Title),
				Description: body.Description,
				Date:        date,
				Location:    body.Location,
				Duration:    body.Duration,
				PosterID:    userId,
				Tickets:     tickets,
			}
			db := db.GetDb()
			if err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(&event).Error; err != nil {
					log.Printf("Error creating event: %s\n", err.Error())
					return err
				}
				return nil
			}); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			invalidateEventsCache(ctx)
			ctx.JSON(http.StatusCreated, gin.H{"id": event.ID})
		}).
		GET("/events/mine", middlewares.RequireRole(types.ROLE_POSTER), func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var events []models.Event
			db := db.GetDb()
			if err := db.
				Where(&models.Event{PosterID: userId}).
				Order("date asc").
				Preload("Tickets").
				Find(&events).
				Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		PUT("/events/:id/edit", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			var event models.Event
			db := db.GetDb()
			if err := db.Where("id = ?", params.ID).First(&event).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": types.ErrEventNotFound.Error()})
				return
			}
			if event.PosterID != userId {
				ctx.JSON(http.StatusForbidden, gin.H{"error": types.ErrForbidden.Error()})
				return
			}
			if err := db.Transaction(func(tx *gorm.DB) error {
				updates := map[string]interface{}{}
				if body.Title != "" {
					updates["title"] = body.Title
					updates["slug"] = slug.Make(body.Title)
				}
				if body.Description != "" {
					updates["description"] = body.Description
				}
				if body.Date != "" {
					date, err := time.Parse(config.TIME_PARSE_FORMAT, body.Date)
					if err != nil {
						return err
					}
					updates["date"] = date
				}
				if body.Location != "" {
					updates["location"] = body.Location
				}
				if body.Duration > 0 {
					updates["duration"] = body.Duration
				}
				if len(updates) > 0 {
					if err := tx.
						Model(&models.Event{}).
						Where("id = ?", event.ID).
						Updates(updates).
						Error; err != nil {
						return err
					}
				}
				if len(body.Tickets) > 0 {
					// Replace the whole set. Old rows are soft deleted so
					// existing bookings keep their references.
					if err := tx.
						Where("event_id = ?", event.ID).
						Delete(&models.Ticket{}).
						Error; err != nil {
						return err
					}
					for _, t := range body.Tickets {
						ticket := models.Ticket{
							EventID:  event.ID,
							Name:     t.Name,
							Price:    t.Price,
							Quantity: t.Quantity,
						}
						if err := tx.Create(&ticket).Error; err != nil {
							return err
						}
					}
				}
				return nil
			}); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			invalidateEventsCache(ctx)
			var updated models.Event
			if err := db.
				Where("id = ?", event.ID).
				Preload("Tickets").
				First(&updated).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": types.ErrEventNotFound.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": updated})
		}).
		DELETE("/events/:id/delete", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			var event models.Event
			db := db.GetDb()
			if err := db.Where("id = ?", params.ID).First(&event).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": types.ErrEventNotFound.Error()})
				return
			}
			if event.PosterID != userId {
				ctx.JSON(http.StatusForbidden, gin.H{"error": types.ErrForbidden.Error()})
				return
			}
			if err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Where("event_id = ?", event.ID).
					Delete(&models.Ticket{}).
					Error; err != nil {
					return err
				}
				if err := tx.Delete(&event).Error; err != nil {
					return err
				}
				return nil
			}); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			invalidateEventsCache(ctx)
			ctx.Status(http.StatusNoContent)
		})
	return g
}
