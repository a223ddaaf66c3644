package storefront

import (
	"net/http"

	"github.com/mundolibro/storefront/internal/domain"
)

// ListReviews serves a book's reviews, newest first.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	deps, err := h.deps(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	reviews, err := deps.Reviews.ForBook(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

type addReviewRequest struct {
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

// AddReview posts a review for a book as the signed-in shopper.
func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	deps, err := h.deps(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req addReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	sess, _ := h.sessions.Session()
	created, err := deps.Reviews.Add(r.Context(), domain.Review{
		BookID:   r.PathValue("id"),
		Username: sess.Username,
		Content:  req.Content,
		Rating:   req.Rating,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}
