package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/dkovalenko/railgo/internal/domain"
	redisrepo "github.com/dkovalenko/railgo/internal/repository/redis"
	"github.com/dkovalenko/railgo/internal/service"
	"github.com/dkovalenko/railgo/internal/service/catalog"
	"github.com/dkovalenko/railgo/internal/service/journeys"
	"github.com/dkovalenko/railgo/internal/service/orders"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		LoggingMiddleware(logger),
		RequestIDMiddleware(),
		CORS(),
		AuditMiddleware(svcs.Audit, logger),
	)
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		stations := api.Group("/stations")
		{
			stations.POST("", handleCreateStation(svcs))
			stations.GET("", handleListStations(svcs))
			stations.GET("/:id", handleGetStation(svcs))
			stations.PUT("/:id", handleUpdateStation(svcs))
			stations.DELETE("/:id", handleDeleteStation(svcs))
		}

		routes := api.Group("/routes")
		{
			routes.POST("", handleCreateRoute(svcs))
			routes.GET("", handleListRoutes(svcs))
			routes.GET("/:id", handleGetRoute(svcs))
			routes.PUT("/:id", handleUpdateRoute(svcs))
			routes.DELETE("/:id", handleDeleteRoute(svcs))
		}

		trainTypes := api.Group("/train-types")
		{
			trainTypes.POST("", handleCreateTrainType(svcs))
			trainTypes.GET("", handleListTrainTypes(svcs))
			trainTypes.GET("/:id", handleGetTrainType(svcs))
			trainTypes.PUT("/:id", handleUpdateTrainType(svcs))
			trainTypes.DELETE("/:id", handleDeleteTrainType(svcs))
		}

		trains := api.Group("/trains")
		{
			trains.POST("", handleCreateTrain(svcs))
			trains.GET("", handleListTrains(svcs))
			trains.GET("/:id", handleGetTrain(svcs))
			trains.PUT("/:id", handleUpdateTrain(svcs))
			trains.POST("/:id/image", handleSetTrainImage(svcs))
			trains.DELETE("/:id", handleDeleteTrain(svcs))
		}

		crew := api.Group("/crew")
		{
			crew.POST("", handleCreateCrew(svcs))
			crew.GET("", handleListCrew(svcs))
			crew.GET("/:id", handleGetCrew(svcs))
			crew.PUT("/:id", handleUpdateCrew(svcs))
			crew.DELETE("/:id", handleDeleteCrew(svcs))
		}

		jr := api.Group("/journeys")
		{
			jr.POST("", handleCreateJourney(svcs))
			jr.GET("", handleListJourneys(svcs))
			jr.GET("/:id", handleGetJourney(svcs))
			jr.GET("/:id/availability", handleJourneyAvailability(svcs))
			jr.PUT("/:id", handleUpdateJourney(svcs))
			jr.DELETE("/:id", handleDeleteJourney(svcs))
		}

		ordersGroup := api.Group("/orders")
		{
			ordersGroup.POST("", handleCreateOrder(svcs, idem))
			ordersGroup.GET("", handleListOrders(svcs))
			ordersGroup.GET("/:id", handleGetOrder(svcs))
		}

		api.GET("/api-usage", handleListAPIUsage(svcs))
	}

	return r
}

// --- station handlers ---

// @Summary  Create station
// @Param    req body  StationRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Router   /api/v1/stations [post]
func handleCreateStation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Catalog.CreateStation(c.Request.Context(), domain.Station{
			Name:      req.Name,
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreatedResponse{ID: id})
	}
}

// @Summary  List stations
// @Param    name   query  string  false "name substring"
// @Success  200  {array}  domain.Station
// @Router   /api/v1/stations [get]
func handleListStations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 0)
		offset := parseIntDefault(c.Query("offset"), 0)
		out, err := svcs.Catalog.ListStations(c.Request.Context(), c.Query("name"), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, emptyList(out))
	}
}

// @Summary  Get station
// @Param    id  path  int  true  "Station ID"
// @Success  200  {object}  domain.Station
// @Router   /api/v1/stations/{id} [get]
func handleGetStation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		st, err := svcs.Catalog.GetStation(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

// @Summary  Update station
// @Param    id  path  int  true  "Station ID"
// @Param    req body  StationRequest true "payload"
// @Success  200  {object}  domain.Station
// @Router   /api/v1/stations/{id} [put]
func handleUpdateStation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req StationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		st := domain.Station{ID: id, Name: req.Name, Latitude: *req.Latitude, Longitude: *req.Longitude}
		if err := svcs.Catalog.UpdateStation(c.Request.Context(), st); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

// @Summary  Delete station
// @Param    id  path  int  true  "Station ID"
// @Success  204
// @Router   /api/v1/stations/{id} [delete]
func handleDeleteStation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.DeleteStation(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// --- route handlers ---

// @Summary  Create route
// @Param    req body  RouteRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Router   /api/v1/routes [post]
func handleCreateRoute(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RouteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Catalog.CreateRoute(c.Request.Context(), domain.Route{
			SourceID:      req.Source,
			DestinationID: req.Destination,
			DistanceKM:    req.DistanceKM,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreatedResponse{ID: id})
	}
}

// @Summary  List routes
// @Param    source      query  int  false "source station id"
// @Param    destination query  int  false "destination station id"
// @Success  200  {array}  domain.Route
// @Router   /api/v1/routes [get]
func handleListRoutes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		source := int64(parseIntDefault(c.Query("source"), 0))
		destination := int64(parseIntDefault(c.Query("destination"), 0))
		limit := parseIntDefault(c.Query("limit"), 0)
		offset := parseIntDefault(c.Query("offset"), 0)
		out, err := svcs.Catalog.ListRoutes(c.Request.Context(), source, destination, limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, emptyList(out))
	}
}

// @Summary  Get route with embedded stations
// @Param    id  path  int  true  "Route ID"
// @Success  200  {object}  domain.RouteDetail
// @Router   /api/v1/routes/{id} [get]
func handleGetRoute(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		rd, err := svcs.Catalog.GetRoute(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, rd)
	}
}

// @Summary  Update route
// @Param    id  path  int  true  "Route ID"
// @Param    req body  RouteRequest true "payload"
// @Success  200  {object}  domain.Route
// @Router   /api/v1/routes/{id} [put]
func handleUpdateRoute(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req RouteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		rt := domain.Route{ID: id, SourceID: req.Source, DestinationID: req.Destination, DistanceKM: req.DistanceKM}
		if err := svcs.Catalog.UpdateRoute(c.Request.Context(), rt); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, rt)
	}
}

// @Summary  Delete route
// @Param    id  path  int  true  "Route ID"
// @Success  204
// @Router   /api/v1/routes/{id} [delete]
func handleDeleteRoute(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.DeleteRoute(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// --- train type handlers ---

// @Summary  Create train type
// @Param    req body  TrainTypeRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Router   /api/v1/train-types [post]
func handleCreateTrainType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TrainTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Catalog.CreateTrainType(c.Request.Context(), domain.TrainType{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreatedResponse{ID: id})
	}
}

// @Summary  List train types
// @Param    name  query  string  false "name substring"
// @Success  200  {array}  domain.TrainType
// @Router   /api/v1/train-types [get]
func handleListTrainTypes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 0)
		offset := parseIntDefault(c.Query("offset"), 0)
		out, err := svcs.Catalog.ListTrainTypes(c.Request.Context(), c.Query("name"), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, emptyList(out))
	}
}

// @Summary  Get train type
// @Param    id  path  int  true  "Train type ID"
// @Success  200  {object}  domain.TrainType
// @Router   /api/v1/train-types/{id} [get]
func handleGetTrainType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		tt, err := svcs.Catalog.GetTrainType(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, tt)
	}
}

// @Summary  Update train type
// @Param    id  path  int  true  "Train type ID"
// @Param    req body  TrainTypeRequest true "payload"
// @Success  200  {object}  domain.TrainType
// @Router   /api/v1/train-types/{id} [put]
func handleUpdateTrainType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req TrainTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		tt := domain.TrainType{ID: id, Name: req.Name, Description: req.Description}
		if err := svcs.Catalog.UpdateTrainType(c.Request.Context(), tt); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, tt)
	}
}

// @Summary  Delete train type
// @Param    id  path  int  true  "Train type ID"
// @Success  204
// @Router   /api/v1/train-types/{id} [delete]
func handleDeleteTrainType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.DeleteTrainType(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// --- train handlers ---

// @Summary  Create train
// @Param    req body  TrainRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Router   /api/v1/trains [post]
func handleCreateTrain(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TrainRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Catalog.CreateTrain(c.Request.Context(), domain.Train{
			Name:          req.Name,
			CargoNum:      req.CargoNum,
			PlacesInCargo: req.PlacesInCargo,
			TrainTypeID:   req.TrainType,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreatedResponse{ID: id})
	}
}

// @Summary  List trains with computed capacity
// @Param    train_types  query  string  false "comma-separated type ids"
// @Param    name         query  string  false "name substring"
// @Success  200  {array}  domain.TrainSummary
// @Router   /api/v1/trains [get]
func handleListTrains(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		typeIDs := parseIDList(c.Query("train_types"))
		limit := parseIntDefault(c.Query("limit"), 0)
		offset := parseIntDefault(c.Query("offset"), 0)
		out, err := svcs.Catalog.ListTrains(c.Request.Context(), typeIDs, c.Query("name"), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, emptyList(out), "public, max-age=60", true)
	}
}

// @Summary  Get train with embedded type
// @Param    id  path  int  true  "Train ID"
// @Success  200  {object}  domain.TrainDetail
// @Router   /api/v1/trains/{id} [get]
func handleGetTrain(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		td, err := svcs.Catalog.GetTrain(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, td)
	}
}

// @Summary  Update train
// @Param    id  path  int  true  "Train ID"
// @Param    req body  TrainRequest true "payload"
// @Success  200  {object}  domain.Train
// @Router   /api/v1/trains/{id} [put]
func handleUpdateTrain(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req TrainRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		t := domain.Train{
			ID:            id,
			Name:          req.Name,
			CargoNum:      req.CargoNum,
			PlacesInCargo: req.PlacesInCargo,
			TrainTypeID:   req.TrainType,
		}
		if err := svcs.Catalog.UpdateTrain(c.Request.Context(), t); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Set train image URL
// @Param    id  path  int  true  "Train ID"
// @Param    req body  TrainImageRequest true "payload"
// @Success  200
// @Router   /api/v1/trains/{id}/image [post]
func handleSetTrainImage(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req TrainImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Catalog.SetTrainImage(c.Request.Context(), id, req.Image); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "image": req.Image})
	}
}

// @Summary  Delete train
// @Param    id  path  int  true  "Train ID"
// @Success  204
// @Router   /api/v1/trains/{id} [delete]
func handleDeleteTrain(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.DeleteTrain(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// --- crew handlers ---

// @Summary  Create crew member
// @Param    req body  CrewRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Router   /api/v1/crew [post]
func handleCreateCrew(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CrewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Catalog.CreateCrew(c.Request.Context(), domain.Crew{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Position:  req.Position,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreatedResponse{ID: id})
	}
}

// @Summary  List crew
// @Param    name  query  string  false "first or last name substring"
// @Success  200  {array}  domain.Crew
// @Router   /api/v1/crew [get]
func handleListCrew(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 0)
		offset := parseIntDefault(c.Query("offset"), 0)
		out, err := svcs.Catalog.ListCrew(c.Request.Context(), c.Query("name"), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, emptyList(out))
	}
}

// @Summary  Get crew member
// @Param    id  path  int  true  "Crew ID"
// @Success  200  {object}  domain.Crew
// @Router   /api/v1/crew/{id} [get]
func handleGetCrew(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		cr, err := svcs.Catalog.GetCrew(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, cr)
	}
}

// @Summary  Update crew member
// @Param    id  path  int  true  "Crew ID"
// @Param    req body  CrewRequest true "payload"
// @Success  200  {object}  domain.Crew
// @Router   /api/v1/crew/{id} [put]
func handleUpdateCrew(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req CrewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		cr := domain.Crew{ID: id, FirstName: req.FirstName, LastName: req.LastName, Position: req.Position}
		if err := svcs.Catalog.UpdateCrew(c.Request.Context(), cr); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, cr)
	}
}

// @Summary  Delete crew member
// @Param    id  path  int  true  "Crew ID"
// @Success  204
// @Router   /api/v1/crew/{id} [delete]
func handleDeleteCrew(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.DeleteCrew(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// --- journey handlers ---

// @Summary  Schedule journey
// @Param    req body  JourneyRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Router   /api/v1/journeys [post]
func handleCreateJourney(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req JourneyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		j, ok := journeyFromRequest(c, 0, req)
		if !ok {
			return
		}
		id, err := svcs.Journeys.Create(c.Request.Context(), j)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreatedResponse{ID: id})
	}
}

// @Summary  List journeys with available places
// @Param    limit  query  int  false "page size"
// @Param    offset query  int  false "offset"
// @Success  200  {array}  domain.JourneySummary
// @Router   /api/v1/journeys [get]
func handleListJourneys(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 0)
		offset := parseIntDefault(c.Query("offset"), 0)
		out, err := svcs.Journeys.List(c.Request.Context(), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		// availability counts go stale quickly, keep the cache short
		writeJSONWithCache(c, http.StatusOK, emptyList(out), "public, max-age=15", true)
	}
}

// @Summary  Get journey with taken places
// @Param    id  path  int  true  "Journey ID"
// @Success  200  {object}  domain.JourneyDetail
// @Router   /api/v1/journeys/{id} [get]
func handleGetJourney(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		jd, err := svcs.Journeys.GetDetail(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, jd, "public, max-age=15", true)
	}
}

// @Summary  Get availability counters
// @Param    id  path  int  true  "Journey ID"
// @Success  200  {object}  domain.JourneyAvailability
// @Router   /api/v1/journeys/{id}/availability [get]
func handleJourneyAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		a, err := svcs.Journeys.Availability(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, a, "public, max-age=15", true)
	}
}

// @Summary  Update journey
// @Param    id  path  int  true  "Journey ID"
// @Param    req body  JourneyRequest true "payload"
// @Success  200
// @Router   /api/v1/journeys/{id} [put]
func handleUpdateJourney(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req JourneyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		j, ok := journeyFromRequest(c, id, req)
		if !ok {
			return
		}
		if err := svcs.Journeys.Update(c.Request.Context(), j); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, j)
	}
}

// @Summary  Delete journey
// @Param    id  path  int  true  "Journey ID"
// @Success  204
// @Router   /api/v1/journeys/{id} [delete]
func handleDeleteJourney(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Journeys.Delete(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// --- order handlers ---

// @Summary  Create order (idempotent)
// @Param    req body  CreateOrderRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} domain.OrderWithTickets
// @Failure  400 {object} ErrorResponse "empty order / seat out of range"
// @Failure  409 {object} ErrorResponse "seat already taken / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /api/v1/orders [post]
func handleCreateOrder(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemOrder(userID, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		tickets := make([]domain.TicketRequest, 0, len(req.Tickets))
		for _, t := range req.Tickets {
			tickets = append(tickets, domain.TicketRequest{
				Cargo:     t.Cargo,
				Place:     t.Place,
				JourneyID: t.Journey,
			})
		}

		rlKey := "ip:" + c.ClientIP()

		order, err := svcs.Orders.CreateOrder(c.Request.Context(), userID, tickets, rlKey)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(order)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, order)
	}
}

// @Summary  List caller's orders
// @Success  200 {array} domain.OrderWithTickets
// @Router   /api/v1/orders [get]
func handleListOrders(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		limit := parseIntDefault(c.Query("limit"), 0)
		offset := parseIntDefault(c.Query("offset"), 0)
		out, err := svcs.Orders.ListOrders(c.Request.Context(), userID, limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, emptyList(out))
	}
}

// @Summary  Get order with tickets
// @Param    id  path  string  true  "Order ID (uuid)"
// @Success  200 {object} domain.OrderWithTickets
// @Router   /api/v1/orders/{id} [get]
func handleGetOrder(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid order id")
			return
		}
		o, err := svcs.Orders.GetOrder(c.Request.Context(), userID, orderID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// --- audit handlers ---

// @Summary  List API usage log
// @Param    method query  string  false "HTTP method substring"
// @Param    status query  string  false "status code substring"
// @Success  200 {array} domain.APIUsage
// @Router   /api/v1/api-usage [get]
func handleListAPIUsage(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 0)
		offset := parseIntDefault(c.Query("offset"), 0)
		out, err := svcs.Audit.List(
			c.Request.Context(),
			c.Query("method"),
			c.Query("status"),
			limit,
			offset,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, emptyList(out))
	}
}

// --- Helpers ---

func journeyFromRequest(c *gin.Context, id int64, req JourneyRequest) (domain.Journey, bool) {
	departure, err := parseRFC3339(req.DepartureTime)
	if err != nil {
		badRequest(c, "invalid departure_time (RFC3339)")
		return domain.Journey{}, false
	}
	arrival, err := parseRFC3339(req.ArrivalTime)
	if err != nil {
		badRequest(c, "invalid arrival_time (RFC3339)")
		return domain.Journey{}, false
	}
	return domain.Journey{
		ID:            id,
		RouteID:       req.Route,
		TrainID:       req.Train,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		CrewIDs:       req.Crew,
	}, true
}

// callerID reads the authenticated user id injected by the auth proxy.
func callerID(c *gin.Context) (int64, bool) {
	v, err := strconv.ParseInt(c.GetHeader("X-User-ID"), 10, 64)
	if err != nil || v <= 0 {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid X-User-ID"})
		return 0, false
	}
	return v, true
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// parseIDList parses "1,2,3" into ids, skipping malformed entries.
func parseIDList(s string) []int64 {
	if s == "" {
		return nil
	}
	var out []int64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err == nil {
			out = append(out, v)
		}
	}
	return out
}

// emptyList keeps empty collections rendering as [] instead of null.
func emptyList[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var seatRange *domain.SeatRangeError
	if errors.As(err, &seatRange) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: seatRange.Error()})
		return
	}

	var seatTaken *orders.SeatTakenError
	if errors.As(err, &seatTaken) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: seatTaken.Error()})
		return
	}

	switch {
	// catalog service
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "record not found"})
		return
	case errors.Is(err, catalog.ErrNameTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "name already exists"})
		return
	case errors.Is(err, catalog.ErrBadReference):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "referenced record does not exist"})
		return
	// journeys service
	case errors.Is(err, journeys.ErrJourneyNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "journey not found"})
		return
	case errors.Is(err, journeys.ErrBadReference):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "route, train or crew member does not exist"})
		return
	// orders service
	case errors.Is(err, orders.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "order must contain at least one ticket"})
		return
	case errors.Is(err, orders.ErrJourneyNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "journey not found"})
		return
	case errors.Is(err, orders.ErrSeatTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "seat already taken"})
		return
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "order not found"})
		return
	case errors.Is(err, orders.ErrRateLimited):
		c.Header("Retry-After", "60")
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited, try again later"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
