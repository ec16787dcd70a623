// Package sentiment scores news and filing tone for a ticker.
package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/prism/internal/common"
	"github.com/bobmcallan/prism/internal/models"
)

// Source weights for the combined sentiment score.
const (
	weightNews    = 0.4
	weightSocial  = 0.3
	weightFilings = 0.3
)

const trendSlopeThreshold = 0.01

// ContentGenerator is the LLM surface the analyzer needs for filing tone.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Analyzer combines lexicon news scoring with optional LLM filing analysis.
type Analyzer struct {
	llm    ContentGenerator
	logger *common.Logger
}

// NewAnalyzer creates a sentiment analyzer. llm may be nil, in which case
// filing tone is skipped and the news weight is renormalized.
func NewAnalyzer(llm ContentGenerator, logger *common.Logger) *Analyzer {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Analyzer{llm: llm, logger: logger}
}

// AnalyzeNews computes the full sentiment metric bundle for a ticker.
// Missing inputs narrow the result rather than failing: no news means no
// overall score, LLM errors degrade to lexicon-only.
func (a *Analyzer) AnalyzeNews(ctx context.Context, ticker string, news []*models.NewsItem, filingText string) *models.SentimentAnalysis {
	analysis := &models.SentimentAnalysis{}

	analysis.News = a.analyzeArticles(news)
	analysis.Trends = a.analyzeTrends(news)

	if filingText != "" && a.llm != nil {
		analysis.Filings = a.analyzeFilingTone(ctx, ticker, filingText)
	}

	analysis.OverallSentiment = combineScores(analysis.News, analysis.Filings)

	return analysis
}

// analyzeArticles scores each headline and aggregates.
func (a *Analyzer) analyzeArticles(news []*models.NewsItem) *models.NewsSentiment {
	if len(news) == 0 {
		return nil
	}

	result := &models.NewsSentiment{
		BySource: make(map[string]float64),
	}

	sourceSums := make(map[string]float64)
	sourceCounts := make(map[string]int)

	var sum float64
	for _, article := range news {
		score := ScoreText(article.Title + " " + article.Description)
		sum += score

		switch {
		case score > 0.2:
			result.Distribution.Positive++
		case score < -0.2:
			result.Distribution.Negative++
		default:
			result.Distribution.Neutral++
		}

		sourceSums[article.Source] += score
		sourceCounts[article.Source]++

		result.Articles = append(result.Articles, models.ArticleSentiment{
			Title:       article.Title,
			Source:      article.Source,
			PublishedAt: article.PublishedAt,
			Score:       score,
		})
	}

	result.AverageScore = sum / float64(len(news))

	for source, total := range sourceSums {
		result.BySource[source] = total / float64(sourceCounts[source])
	}

	// Keep only the five most recent article scores
	sort.Slice(result.Articles, func(i, j int) bool {
		return result.Articles[i].PublishedAt.After(result.Articles[j].PublishedAt)
	})
	if len(result.Articles) > 5 {
		result.Articles = result.Articles[:5]
	}

	return result
}

// analyzeTrends fits a least-squares slope to daily mean sentiment.
func (a *Analyzer) analyzeTrends(news []*models.NewsItem) *models.SentimentTrendStats {
	daily := dailyMeans(news)
	if len(daily) < 2 {
		return nil
	}

	slope := leastSquaresSlope(daily)

	trend := models.SentimentStable
	if slope > trendSlopeThreshold {
		trend = models.SentimentImproving
	} else if slope < -trendSlopeThreshold {
		trend = models.SentimentDeteriorating
	}

	return &models.SentimentTrendStats{
		Trend:      trend,
		Volatility: sampleStddev(daily),
		Momentum:   sentimentMomentum(daily),
	}
}

// dailyMeans buckets article scores by calendar day, oldest first.
func dailyMeans(news []*models.NewsItem) []float64 {
	type bucket struct {
		day   time.Time
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)

	for _, article := range news {
		day := article.PublishedAt.Truncate(24 * time.Hour)
		key := day.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{day: day}
			buckets[key] = b
		}
		b.sum += ScoreText(article.Title + " " + article.Description)
		b.count++
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].day.Before(ordered[j].day) })

	means := make([]float64, len(ordered))
	for i, b := range ordered {
		means[i] = b.sum / float64(b.count)
	}
	return means
}

func leastSquaresSlope(values []float64) float64 {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func sampleStddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

// sentimentMomentum compares the most recent five daily means to the prior
// five, as percent change.
func sentimentMomentum(daily []float64) float64 {
	if len(daily) < 10 {
		return 0
	}
	recent := daily[len(daily)-5:]
	older := daily[len(daily)-10 : len(daily)-5]

	var recentSum, olderSum float64
	for i := range recent {
		recentSum += recent[i]
		olderSum += older[i]
	}
	if olderSum == 0 {
		return 0
	}
	return (recentSum - olderSum) / math.Abs(olderSum/5) / 5 * 100
}

// filingToneResponse is the expected JSON shape from the LLM.
type filingToneResponse struct {
	SentimentScore float64  `json:"sentiment_score"`
	KeyPoints      []string `json:"key_points"`
}

// analyzeFilingTone asks the LLM to rate management tone in filing excerpts.
// Any failure returns nil; the caller falls back to lexicon scores.
func (a *Analyzer) analyzeFilingTone(ctx context.Context, ticker, filingText string) *models.FilingSentiment {
	prompt := buildFilingPrompt(ticker, filingText)

	response, err := a.llm.GenerateContent(ctx, prompt)
	if err != nil {
		a.logger.Warn().Str("ticker", ticker).Err(err).Msg("Filing tone analysis failed")
		return nil
	}

	// Strip markdown code fences if present
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var data filingToneResponse
	if err := json.Unmarshal([]byte(response), &data); err != nil {
		a.logger.Warn().Str("ticker", ticker).Err(err).Msg("Failed to parse filing tone response")
		return nil
	}

	// Clamp to the expected range; LLMs occasionally return percentages
	score := data.SentimentScore
	if score > 1 || score < -1 {
		score = math.Max(-1, math.Min(1, score/100))
	}

	return &models.FilingSentiment{
		Score:     score,
		KeyPoints: data.KeyPoints,
	}
}

func buildFilingPrompt(ticker, filingText string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a financial analyst. Assess the tone of these filing excerpts for %s.\n", ticker))
	sb.WriteString("Focus on management confidence, risk factors, and forward-looking statements.\n\nText:\n")
	sb.WriteString(filingText)
	sb.WriteString(`

Return ONLY valid JSON:
{
  "sentiment_score": 0.0,
  "key_points": ["point1", "point2"]
}

Rules:
- sentiment_score is a float in [-1, 1]: -1 very negative, 0 neutral, 1 very positive
- key_points are the 3-5 most material observations
- Return ONLY the JSON object, no markdown code fences, no explanation`)
	return sb.String()
}

// combineScores blends news and filing scores with the source weights.
// Missing sources renormalize the remaining weights so the result stays in
// [-1, 1]. Returns nil when no source produced a score.
func combineScores(news *models.NewsSentiment, filings *models.FilingSentiment) *float64 {
	var weighted, totalWeight float64

	if news != nil {
		weighted += news.AverageScore * weightNews
		totalWeight += weightNews
	}
	// Social media sources are not wired; their weight is simply absent.
	if filings != nil {
		weighted += filings.Score * weightFilings
		totalWeight += weightFilings
	}

	if totalWeight == 0 {
		return nil
	}
	return models.Float(weighted / totalWeight)
}
