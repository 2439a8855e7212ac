package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/nandanugg/walkarea/module/core/domain"
	"github.com/nandanugg/walkarea/module/core/service"
)

type sessionService interface {
	Start(ctx context.Context, distance float64, unit domain.DistanceUnit) (*domain.Session, error)
	Restart(ctx context.Context) error
	SetTracking(ctx context.Context, tracking bool) error
	Stop(ctx context.Context) error
	Observe(ctx context.Context, loc domain.Location) (domain.GeofenceEvent, error)
	Status() (*domain.SessionStatus, error)
	Overlay(segments int) (*geom.Polygon, *geom.Point, error)
	History(ctx context.Context, start, end time.Time) ([]domain.Sample, error)
	LastSample(ctx context.Context) (*domain.Sample, error)
	Sessions(ctx context.Context) ([]string, error)
}

type startRequest struct {
	Distance float64 `json:"distance"`
	Unit     string  `json:"unit"`
}

type sampleRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

type unitResponse struct {
	Unit   domain.DistanceUnit `json:"unit"`
	Name   string              `json:"name"`
	Symbol string              `json:"symbol"`
	Meters float64             `json:"meters"`
}

type sampleResponse struct {
	SessionID string  `json:"session_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Distance  float64 `json:"distance"`
	Status    string  `json:"status"`
	Timestamp int64   `json:"timestamp"`
}

type SessionHandler struct {
	sessionSvc sessionService
}

func NewSessionHandler(sessionSvc sessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

func (h *SessionHandler) Register(r *gin.RouterGroup) {
	r.GET("/units", h.ListUnits)
	r.GET("/sessions", h.ListSessions)

	s := r.Group("/session")
	s.POST("", h.Start)
	s.GET("", h.Status)
	s.DELETE("", h.Stop)
	s.POST("/restart", h.Restart)
	s.POST("/pause", h.Pause)
	s.POST("/resume", h.Resume)
	s.POST("/samples", h.Observe)
	s.GET("/latest", h.LastSample)
	s.GET("/overlay", h.Overlay)
	s.GET("/history", h.History)
}

func (h *SessionHandler) ListUnits(c *gin.Context) {
	units := make([]unitResponse, len(domain.AllUnits))
	for i, u := range domain.AllUnits {
		units[i] = unitResponse{
			Unit:   u,
			Name:   service.UnitDisplayName(u),
			Symbol: service.UnitSymbol(u),
			Meters: service.ToMeters(1, u),
		}
	}
	c.JSON(http.StatusOK, units)
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	ids, err := h.sessionSvc.Sessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch sessions"})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, ids)
}

func (h *SessionHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	unit, err := domain.ParseDistanceUnit(req.Unit)
	if err != nil {
		writeError(c, err)
		return
	}

	sess, err := h.sessionSvc.Start(c.Request.Context(), req.Distance, unit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (h *SessionHandler) Status(c *gin.Context) {
	st, err := h.sessionSvc.Status()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SessionHandler) Stop(c *gin.Context) {
	if err := h.sessionSvc.Stop(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) Restart(c *gin.Context) {
	if err := h.sessionSvc.Restart(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	h.Status(c)
}

func (h *SessionHandler) Pause(c *gin.Context) {
	h.setTracking(c, false)
}

func (h *SessionHandler) Resume(c *gin.Context) {
	h.setTracking(c, true)
}

func (h *SessionHandler) setTracking(c *gin.Context, tracking bool) {
	if err := h.sessionSvc.SetTracking(c.Request.Context(), tracking); err != nil {
		writeError(c, err)
		return
	}
	h.Status(c)
}

func (h *SessionHandler) Observe(c *gin.Context) {
	var req sampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	loc := domain.Location{
		Lat:      req.Latitude,
		Lon:      req.Longitude,
		Accuracy: req.Accuracy,
	}
	if req.Timestamp > 0 {
		loc.Timestamp = time.Unix(req.Timestamp, 0)
	}

	ev, err := h.sessionSvc.Observe(c.Request.Context(), loc)
	if err != nil && ev.Kind == "" {
		writeError(c, err)
		return
	}
	if err != nil {
		// the sample was applied; only the notification could not be delivered
		zap.L().Warn("sample observed with dispatch error", zap.Error(err))
	}
	c.JSON(http.StatusOK, ev)
}

func (h *SessionHandler) LastSample(c *gin.Context) {
	s, err := h.sessionSvc.LastSample(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) || errors.Is(err, domain.ErrNoSamples) {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch latest sample"})
		return
	}
	c.JSON(http.StatusOK, toSampleResponse(s))
}

func (h *SessionHandler) Overlay(c *gin.Context) {
	segments := 0
	if v := c.Query("segments"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 3 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid segments parameter"})
			return
		}
		segments = n
	}

	circle, home, err := h.sessionSvc.Overlay(segments)
	if err != nil {
		writeError(c, err)
		return
	}

	fc := &geojson.FeatureCollection{
		Features: []*geojson.Feature{
			{Geometry: circle, Properties: map[string]interface{}{"kind": "walk_area"}},
			{Geometry: home, Properties: map[string]interface{}{"kind": "home"}},
		},
	}
	c.JSON(http.StatusOK, fc)
}

func (h *SessionHandler) History(c *gin.Context) {
	start, err := strconv.ParseInt(c.Query("start"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start parameter"})
		return
	}

	end, err := strconv.ParseInt(c.Query("end"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end parameter"})
		return
	}

	samples, err := h.sessionSvc.History(c.Request.Context(), time.Unix(start, 0), time.Unix(end, 0))
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	results := make([]sampleResponse, len(samples))
	for i := range samples {
		results[i] = toSampleResponse(&samples[i])
	}
	c.JSON(http.StatusOK, results)
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRadius),
		errors.Is(err, domain.ErrUnknownUnit),
		errors.Is(err, domain.ErrInvalidCoordinate),
		errors.Is(err, domain.ErrDistanceComputationFailed):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNoSession),
		errors.Is(err, domain.ErrHomeNotEstablished),
		errors.Is(err, domain.ErrNoSamples):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrTrackingPaused):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func toSampleResponse(s *domain.Sample) sampleResponse {
	return sampleResponse{
		SessionID: s.SessionID,
		Latitude:  s.Location.Lat,
		Longitude: s.Location.Lon,
		Accuracy:  s.Location.Accuracy,
		Distance:  s.Distance,
		Status:    string(s.Status),
		Timestamp: s.Location.Timestamp.Unix(),
	}
}
