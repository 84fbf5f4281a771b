package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/opsdash/internal/apperrors"
	"github.com/rgehrsitz/opsdash/internal/breakeven"
	"github.com/rgehrsitz/opsdash/internal/cockpit"
)

const (
	minYear = 2000
	maxYear = 2100
)

func (s *Server) getParameters(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Engine.Parameters(year))
}

func (s *Server) compute(c *gin.Context) {
	var req ComputeRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, s.Engine.Compute(req.toDomain()))
}

func (s *Server) project(c *gin.Context) {
	var req ProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	projection, alerts := s.Engine.Project(req.toDomain())
	c.JSON(http.StatusOK, ProjectionResponse{Projection: projection, Alerts: alerts})
}

func (s *Server) requiredProfit(c *gin.Context) {
	var req RequiredProfitRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := s.Solver.RequiredProfit(c.Request.Context(), breakeven.RequiredProfitRequest{
		Year:                         req.Year,
		TargetNetIncome:              req.TargetNetIncome,
		Profile:                      req.Profile.toDomain(req.Year),
		PriorYearReserveContribution: req.PriorYearReserve,
	})
	if err != nil {
		LoggerFrom(c).Warn("required profit failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) getCockpit(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	view, err := s.Cockpit.Overview(c.Request.Context(), c.Param("userID"), year)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, view)
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, view)
	default:
		LoggerFrom(c).Error("cockpit overview failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, view)
	}
}

func (s *Server) projectForUser(c *gin.Context) {
	var req ProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := s.Cockpit.Project(c.Request.Context(), c.Param("userID"), req.toDomain())
	if err != nil {
		LoggerFrom(c).Error("cockpit projection failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"status": cockpit.StatusError, "message": cockpit.MessageLoadFailed})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) getProfile(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	profile, err := s.Profiles.GetProfile(c.Request.Context(), c.Param("userID"), year)
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		LoggerFrom(c).Error("loading profile failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) putProfile(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}
	var req ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile := req.toDomain(year)
	err := s.Profiles.SaveProfile(c.Request.Context(), c.Param("userID"), *profile)
	if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		LoggerFrom(c).Error("saving profile failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		return
	}

	LoggerFrom(c).Info("profile saved", slog.String("user_id", c.Param("userID")), slog.Int("year", year))
	c.JSON(http.StatusOK, profile)
}

func yearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < minYear || year > maxYear {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a number between 2000 and 2100"})
		return 0, false
	}
	return year, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		LoggerFrom(c).Warn("invalid request body", slog.String("error", err.Error()))
		body := gin.H{"error": "invalid request"}
		if fields := validationFields(err); len(fields) > 0 {
			body["error"] = "validation failed"
			body["fields"] = fields
		}
		c.JSON(http.StatusBadRequest, body)
		return false
	}
	return true
}
