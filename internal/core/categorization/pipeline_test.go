package categorization_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/categorization"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
)

// MockRemotePredictor is a mock type for the RemotePredictor interface
type MockRemotePredictor struct {
	mock.Mock
}

func (m *MockRemotePredictor) Predict(ctx context.Context, text string) (domain.ClassificationResult, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.ClassificationResult), args.Error(1)
}

type PipelineTestSuite struct {
	suite.Suite
	fast *MockRemotePredictor
	deep *MockRemotePredictor
}

func (suite *PipelineTestSuite) SetupTest() {
	suite.fast = new(MockRemotePredictor)
	suite.deep = new(MockRemotePredictor)
}

func (suite *PipelineTestSuite) newPipeline() *categorization.Pipeline {
	pl, err := categorization.NewPipeline(10,
		categorization.WithFastPredictor(suite.fast),
		categorization.WithReasoningPredictor(suite.deep),
	)
	suite.Require().NoError(err)
	return pl
}

func (suite *PipelineTestSuite) TestRuleHitNeverReachesRemote() {
	pl := suite.newPipeline()

	result := pl.Classify(context.Background(), "pedimos un Uber al aeropuerto")

	suite.Equal("Transport", result.Category)
	suite.Equal(domain.SourceRules, result.Source)
	suite.fast.AssertNotCalled(suite.T(), "Predict", mock.Anything, mock.Anything)
	suite.deep.AssertNotCalled(suite.T(), "Predict", mock.Anything, mock.Anything)
}

func (suite *PipelineTestSuite) TestSecondCallServedFromCache() {
	pl := suite.newPipeline()
	text := "suscripcion mensual rara"

	suite.fast.On("Predict", mock.Anything, text).
		Return(domain.ClassificationResult{Category: "Entertainment", Confidence: 0.85, Source: domain.SourceMLAPI}, nil).Once()

	first := pl.Classify(context.Background(), text)
	suite.Equal(domain.SourceMLAPI, first.Source)

	// Same text, different surface form: normalization makes them one key.
	second := pl.Classify(context.Background(), "  Suscripcion   MENSUAL rara ")
	suite.Equal("Entertainment", second.Category)
	suite.Equal(domain.SourceCache, second.Source)
	suite.Equal(first.Confidence, second.Confidence)
	suite.fast.AssertNumberOfCalls(suite.T(), "Predict", 1)
}

func (suite *PipelineTestSuite) TestLowFastConfidenceFallsToReasoning() {
	pl := suite.newPipeline()
	text := "pago variado"

	suite.fast.On("Predict", mock.Anything, text).
		Return(domain.ClassificationResult{Category: "Shopping", Confidence: 0.4, Source: domain.SourceMLAPI}, nil).Once()
	suite.deep.On("Predict", mock.Anything, text).
		Return(domain.ClassificationResult{Category: "Groceries", Confidence: 0.55, Source: domain.SourceLLMFallback}, nil).Once()

	result := pl.Classify(context.Background(), text)

	// The reasoning layer is accepted regardless of confidence.
	suite.Equal("Groceries", result.Category)
	suite.Equal(domain.SourceLLMFallback, result.Source)
}

func (suite *PipelineTestSuite) TestFastErrorFallsToReasoning() {
	pl := suite.newPipeline()
	text := "pago raro"

	suite.fast.On("Predict", mock.Anything, text).
		Return(domain.ClassificationResult{}, errors.New("timeout")).Once()
	suite.deep.On("Predict", mock.Anything, text).
		Return(domain.ClassificationResult{Category: "Other", Confidence: 0.3, Source: domain.SourceLLMFallback}, nil).Once()

	result := pl.Classify(context.Background(), text)

	suite.Equal(domain.SourceLLMFallback, result.Source)
}

func (suite *PipelineTestSuite) TestAllRemoteFailuresDegradeToDefault() {
	pl := suite.newPipeline()
	text := "pago raro"

	suite.fast.On("Predict", mock.Anything, text).
		Return(domain.ClassificationResult{}, errors.New("timeout")).Once()
	suite.deep.On("Predict", mock.Anything, text).
		Return(domain.ClassificationResult{}, errors.New("unavailable")).Once()

	result := pl.Classify(context.Background(), text)

	suite.Equal(domain.DefaultCategoryName, result.Category)
	suite.Equal(domain.SourceDefault, result.Source)
	suite.Equal(0.0, result.Confidence)
}

func (suite *PipelineTestSuite) TestDefaultResultIsNotCached() {
	pl := suite.newPipeline()
	text := "pago raro"

	// Both layers fail twice: the default answer must not poison the cache.
	suite.fast.On("Predict", mock.Anything, text).
		Return(domain.ClassificationResult{}, errors.New("timeout")).Twice()
	suite.deep.On("Predict", mock.Anything, text).
		Return(domain.ClassificationResult{}, errors.New("unavailable")).Twice()

	first := pl.Classify(context.Background(), text)
	second := pl.Classify(context.Background(), text)

	suite.Equal(domain.SourceDefault, first.Source)
	suite.Equal(domain.SourceDefault, second.Source)
	suite.fast.AssertNumberOfCalls(suite.T(), "Predict", 2)
}

func (suite *PipelineTestSuite) TestEmptyTextGetsDefault() {
	pl := suite.newPipeline()

	result := pl.Classify(context.Background(), "   ")

	suite.Equal(domain.DefaultCategoryName, result.Category)
	suite.Equal(domain.SourceDefault, result.Source)
	suite.fast.AssertNotCalled(suite.T(), "Predict", mock.Anything, mock.Anything)
}

func TestPipelineTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func TestNewPipelineWithoutRemoteLayers(t *testing.T) {
	pl, err := categorization.NewPipeline(0)
	require.NoError(t, err)

	result := pl.Classify(context.Background(), "netflix del mes")
	require.Equal(t, "Entertainment", result.Category)
	require.Equal(t, domain.SourceRules, result.Source)

	result = pl.Classify(context.Background(), "algo inclasificable")
	require.Equal(t, domain.DefaultCategoryName, result.Category)
	require.Equal(t, domain.SourceDefault, result.Source)
}
