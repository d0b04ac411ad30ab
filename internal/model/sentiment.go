package model

import "time"

// SentimentSample is one hour bucket of analysed mentions for a token.
type SentimentSample struct {
	Hour         time.Time `json:"hour"`
	AvgSentiment float64   `json:"avg_sentiment"`
	NTweets      int       `json:"n_tweets"`
}

// SentimentLabel is the class assigned to a single analysed tweet.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// Weight maps a label onto the numeric scale averaged into AvgSentiment.
func (l SentimentLabel) Weight() int {
	switch l {
	case SentimentPositive:
		return 1
	case SentimentNegative:
		return -1
	default:
		return 0
	}
}

// Mood is the coarse reading of an average score shown next to a token.
type Mood string

const (
	MoodPositive Mood = "Positive"
	MoodNegative Mood = "Negative"
	MoodNeutral  Mood = "Neutral"
)

// MoodThreshold is the dead band around zero that still reads as neutral.
const MoodThreshold = 0.05

// MoodOf classifies an average sentiment score.
func MoodOf(score float64) Mood {
	switch {
	case score > MoodThreshold:
		return MoodPositive
	case score < -MoodThreshold:
		return MoodNegative
	default:
		return MoodNeutral
	}
}
