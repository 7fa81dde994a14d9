package dto

import "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"

// ClassifyRequest carries the free text to categorize.
type ClassifyRequest struct {
	Text string `json:"text" binding:"required"`
}

// ClassifyResponse mirrors the pipeline result for API callers.
type ClassifyResponse struct {
	Category   string                      `json:"category"`
	Confidence float64                     `json:"confidence"`
	Source     domain.ClassificationSource `json:"source"`
}

// ToClassifyResponse converts a domain classification result.
func ToClassifyResponse(r domain.ClassificationResult) ClassifyResponse {
	return ClassifyResponse{
		Category:   r.Category,
		Confidence: r.Confidence,
		Source:     r.Source,
	}
}
