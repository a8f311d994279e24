package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path"

	"etix/src/db"
	"etix/src/middlewares"
	"etix/src/models"
	"etix/src/types"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings/mine", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var bookings []models.Booking
			db := db.GetDb()
			if err := db.
				Where(&models.Booking{UserID: userId}).
				Order("created_at desc").
				Preload("Event").
				Preload("Ticket").
				Find(&bookings).
				Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/events/my-bookings", middlewares.RequireRole(types.ROLE_POSTER), func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var eventIds []uint
			if err := db.
				Model(&models.Event{}).
				Where("poster_id = ?", userId).
				Pluck("id", &eventIds).
				Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var bookings []models.Booking
			if len(eventIds) > 0 {
				if err := db.
					Where("event_id IN ?", eventIds).
					Order("created_at desc").
					Preload("User").
					Preload("Event").
					Preload("Ticket").
					Find(&bookings).
					Error; err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id/code", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			var booking models.Booking
			db := db.GetDb()
			if err := db.
				Where(&models.Booking{ID: params.ID, UserID: userId}).
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": types.ErrBookingNotFound.Error()})
				return
			}
			qrc, err := qrcode.New(booking.TicketNumber)
			if err != nil {
				log.Printf("Error generating code for booking [%d]: %s\n", booking.ID, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			filename := fmt.Sprintf("%s.jpeg", booking.TicketNumber)
			filepath := path.Join(os.TempDir(), filename)
			if err := qrc.Save(filepath); err != nil {
				log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.FileAttachment(filepath, filename)
		})
	return g
}
