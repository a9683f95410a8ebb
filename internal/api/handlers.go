package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rpgo/fire-engine/internal/calculation"
	"github.com/rpgo/fire-engine/internal/domain"
	"github.com/rpgo/fire-engine/internal/service"
)

const (
	headerRunID   = "X-Run-Id"
	headerCache   = "X-Cache"
	headerElapsed = "X-Elapsed-Ms"
)

type handler struct {
	svc *service.Service
}

func (h *handler) health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if series := h.svc.Engine().Series; series != nil {
		body["firstYear"] = series.FirstYear()
		body["lastYear"] = series.LastYear()
	}
	c.JSON(http.StatusOK, body)
}

func (h *handler) simulate(c *gin.Context) {
	var req domain.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	run, err := h.svc.Simulate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header(headerRunID, run.Metadata.RunID)
	if run.Metadata.CacheHit {
		c.Header(headerCache, "HIT")
	} else {
		c.Header(headerCache, "MISS")
	}
	c.Header(headerElapsed, strconv.FormatInt(run.Metadata.Elapsed.Milliseconds(), 10))
	c.JSON(http.StatusOK, run.Response)
}

func (h *handler) project(c *gin.Context) {
	var req service.ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	bundle, err := h.svc.Project(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

func (h *handler) targets(c *gin.Context) {
	var req service.TargetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.Targets(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) history(c *gin.Context) {
	includeSeries, _ := strconv.ParseBool(c.DefaultQuery("series", "false"))

	resp, err := h.svc.History(c.Request.Context(), includeSeries)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body: " + err.Error()})
}

// writeError maps service errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, calculation.ErrInvalidConfig), errors.Is(err, service.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNoSeries):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusRequestTimeout
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
