package model

import (
	"math"
	"time"
)

type Review struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"userId"`
	GadgetID     int64      `json:"gadgetId"`
	Rating       int        `json:"rating"`
	Title        string     `json:"title"`
	Comment      string     `json:"comment"`
	Pros         []string   `json:"pros,omitempty"`
	Cons         []string   `json:"cons,omitempty"`
	IsVerified   bool       `json:"isVerified"`
	HelpfulCount int        `json:"helpfulCount"`
	UserName     string     `json:"userName,omitempty"` // joined from users
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// RatingStats is the recomputed aggregate for a gadget.
type RatingStats struct {
	AverageRating float64
	TotalReviews  int
}

// ComputeRatingStats averages the given ratings rounded to one decimal;
// an empty slice resets both fields to zero.
func ComputeRatingStats(ratings []int) RatingStats {
	if len(ratings) == 0 {
		return RatingStats{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))
	return RatingStats{
		AverageRating: math.Round(avg*10) / 10,
		TotalReviews:  len(ratings),
	}
}
