package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/macrolens/datahunter/internal/domain"
	"go.uber.org/zap"
)

// Resolver produces a nutrition record for a barcode and market
type Resolver interface {
	Resolve(ctx context.Context, barcode string, market domain.Market) domain.NutritionRecord
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver Resolver
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. resolver may be nil, in which case
// search answers with an error record.
func NewHandler(resolver Resolver, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{resolver: resolver, logger: logger}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "datahunter",
		"version": "1.0.0",
	})
}

// Search resolves ?gtin=&market= and always answers 200 with a full record
func (h *Handler) Search(c *gin.Context) {
	c.JSON(http.StatusOK, h.resolve(c, c.Query("gtin"), c.Query("market")))
}

// SearchV1 is Search with input validation: a missing gtin is a 400
func (h *Handler) SearchV1(c *gin.Context) {
	gtin := strings.TrimSpace(c.Query("gtin"))
	if gtin == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "gtin query parameter is required",
		})
		return
	}
	c.JSON(http.StatusOK, h.resolve(c, gtin, c.Query("market")))
}

// Markets lists the supported markets
func (h *Handler) Markets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"markets": domain.SupportedMarkets(),
	})
}

func (h *Handler) resolve(c *gin.Context, gtin, marketCode string) domain.NutritionRecord {
	market := domain.LookupMarket(marketCode)

	if h.resolver == nil {
		record := domain.NewRecord(strings.TrimSpace(gtin), market.Code)
		record.Status = domain.Failed("resolver not configured")
		record.StatusDetail = "resolver not configured"
		return record
	}

	if marketCode != "" && !domain.IsSupportedMarket(marketCode) {
		h.logger.Debug("Unknown market, using default", zap.String("market", marketCode))
	}

	return h.resolver.Resolve(c.Request.Context(), gtin, market)
}
