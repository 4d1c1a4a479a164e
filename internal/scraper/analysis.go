package scraper

import (
	"sort"
	"time"
)

// DefaultTopN is how many top posts an analysis keeps.
const DefaultTopN = 20

// SimplifiedPost is the trimmed view of a ranked post.
type SimplifiedPost struct {
	URL             string  `json:"url"`
	Text            string  `json:"text"`
	PostedAtDate    string  `json:"posted_at_date"`
	TotalReactions  int     `json:"total_reactions"`
	Comments        int     `json:"comments"`
	Reposts         int     `json:"reposts"`
	EngagementScore float64 `json:"engagement_score"`
}

// AnalysisStats summarize the ranked set.
type AnalysisStats struct {
	TotalReactions         int     `json:"total_reactions"`
	TotalComments          int     `json:"total_comments"`
	TotalReposts           int     `json:"total_reposts"`
	AverageEngagementScore float64 `json:"average_engagement_score"`
}

// Analysis holds the top posts by engagement plus summary statistics.
type Analysis struct {
	TopPosts []SimplifiedPost `json:"top_posts"`
	Stats    AnalysisStats    `json:"stats"`
}

// EngagementScore weighs reactions, comments (2x), and reposts (3x), with a
// recency bonus for posts that earned their engagement quickly: 1.5x inside
// a week, 1.2x inside two, 1.1x inside a month.
func EngagementScore(post Post, now time.Time) float64 {
	base := float64(post.Stats.TotalReactions + post.Stats.Comments*2 + post.Stats.Reposts*3)

	if post.PostedAt.Timestamp == 0 {
		return base
	}

	age := now.Sub(time.UnixMilli(post.PostedAt.Timestamp))
	switch {
	case age < 7*24*time.Hour:
		return base * 1.5
	case age < 14*24*time.Hour:
		return base * 1.2
	case age < 30*24*time.Hour:
		return base * 1.1
	default:
		return base
	}
}

// Analyze ranks posts by engagement score and keeps the top n.
func Analyze(posts []Post, n int, now time.Time) *Analysis {
	if n <= 0 {
		n = DefaultTopN
	}

	ranked := make([]SimplifiedPost, 0, len(posts))
	for _, p := range posts {
		ranked = append(ranked, SimplifiedPost{
			URL:             p.URL,
			Text:            p.Text,
			PostedAtDate:    p.PostedAt.Date,
			TotalReactions:  p.Stats.TotalReactions,
			Comments:        p.Stats.Comments,
			Reposts:         p.Stats.Reposts,
			EngagementScore: EngagementScore(p, now),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EngagementScore > ranked[j].EngagementScore
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	stats := AnalysisStats{}
	for _, p := range ranked {
		stats.TotalReactions += p.TotalReactions
		stats.TotalComments += p.Comments
		stats.TotalReposts += p.Reposts
		stats.AverageEngagementScore += p.EngagementScore
	}
	if len(ranked) > 0 {
		stats.AverageEngagementScore /= float64(len(ranked))
	}

	return &Analysis{TopPosts: ranked, Stats: stats}
}
