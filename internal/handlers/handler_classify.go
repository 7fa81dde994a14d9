package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/services"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/dto"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/middleware"
)

// classifyHandler exposes the categorization pipeline directly, mainly so the
// messaging layer can preview a category before committing a transaction.
type classifyHandler struct {
	classifier portssvc.TransactionClassifier
}

func newClassifyHandler(tc portssvc.TransactionClassifier) *classifyHandler {
	return &classifyHandler{
		classifier: tc,
	}
}

// registerClassifyRoutes registers the classification route.
func registerClassifyRoutes(rg *gin.RouterGroup, classifier portssvc.TransactionClassifier) {
	h := newClassifyHandler(classifier)

	rg.POST("/classify", h.classify)
}

func (h *classifyHandler) classify(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Classify", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	// The pipeline never fails; worst case it answers with the default bucket.
	result := h.classifier.Classify(c.Request.Context(), req.Text)

	logger.Info("Text classified",
		slog.String("category", result.Category),
		slog.String("source", string(result.Source)),
		slog.Float64("confidence", result.Confidence))
	c.JSON(http.StatusOK, dto.ToClassifyResponse(result))
}
