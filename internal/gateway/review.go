package gateway

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/mundolibro/storefront/internal/domain"
)

// Reviews is the client for the reviews service.
//
// Unlike the other backends, the reviews API speaks plain JSON with no
// envelope, so calls go through the raw decoder.
type Reviews struct {
	client *Client
}

// NewReviews creates the review gateway.
func NewReviews(client *Client) *Reviews {
	return &Reviews{client: client}
}

// ForBook fetches the reviews of one book, newest first.
func (r *Reviews) ForBook(ctx context.Context, bookID string) ([]domain.Review, error) {
	const op = "reviews.list"

	var reviews []domain.Review
	if err := r.client.do(ctx, op, http.MethodGet, "/reviews/book/"+bookID, nil, nil, &reviews); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].Date > reviews[j].Date
	})
	return reviews, nil
}

// Add posts a new review. The date is stamped here when the caller leaves
// it empty.
func (r *Reviews) Add(ctx context.Context, review domain.Review) (*domain.Review, error) {
	const op = "reviews.add"

	if review.Rating < 1 || review.Rating > 5 {
		return nil, domain.Errorf(domain.EINVALID, op, "rating must be between 1 and 5")
	}
	if review.Date == "" {
		review.Date = time.Now().UTC().Format(time.RFC3339)
	}

	if err := r.client.do(ctx, op, http.MethodPost, "/reviews", nil, review, nil); err != nil {
		return nil, err
	}
	return &review, nil
}
