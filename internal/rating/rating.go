// Package rating computes book rating aggregates.
//
// Averages are rounded to the nearest 0.5 with ties going up, i.e.
// round(mean*2)/2. The rounding is done in integer arithmetic on the rating
// sum and count so that a tie such as a mean of exactly 2.25 always resolves
// to 2.5 regardless of floating point representation.
package rating

import "github.com/Clark-Hu/bookreviews/internal/domain"

// Aggregate is the sum and count of a book's ratings.
type Aggregate struct {
	Sum   int64
	Count int64
}

// FromRatings builds an aggregate from raw rating values.
func FromRatings(values ...int) Aggregate {
	var agg Aggregate
	for _, v := range values {
		agg.Sum += int64(v)
		agg.Count++
	}
	return agg
}

// FromReviews builds an aggregate from stored reviews.
func FromReviews(reviews []domain.Review) Aggregate {
	var agg Aggregate
	for _, r := range reviews {
		agg.Sum += int64(r.Rating)
		agg.Count++
	}
	return agg
}

// ForBook returns the aggregate of a RatedBook row.
func ForBook(b domain.RatedBook) Aggregate {
	return Aggregate{Sum: b.RatingSum, Count: b.ReviewCount}
}

// Average returns the mean rating rounded to the nearest 0.5, or 0 when
// there are no ratings.
func (a Aggregate) Average() float64 {
	if a.Count <= 0 {
		return 0
	}
	// floor(2*sum/count + 1/2) == floor((4*sum + count) / (2*count))
	halves := (4*a.Sum + a.Count) / (2 * a.Count)
	return float64(halves) / 2
}

// ReviewCount returns the number of ratings, independent of their values.
func (a Aggregate) ReviewCount() int64 {
	if a.Count < 0 {
		return 0
	}
	return a.Count
}

// AverageRating is shorthand for FromReviews(reviews).Average().
func AverageRating(reviews []domain.Review) float64 {
	return FromReviews(reviews).Average()
}

// ReviewCount is shorthand for FromReviews(reviews).ReviewCount().
func ReviewCount(reviews []domain.Review) int64 {
	return FromReviews(reviews).ReviewCount()
}
