package listing

import (
	"errors"
	"net/http"

	"estate-hub/internal/domain/entity"
	"estate-hub/internal/handler/http/pathutil"
	"estate-hub/internal/handler/http/respond"
)

// cacheControl lets the CDN serve listing pages briefly while revalidating.
const cacheControl = "public, max-age=60, stale-while-revalidate=300"

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidInput), errors.Is(err, pathutil.ErrInvalidSlug):
		code = http.StatusBadRequest
	case r.Context().Err() == nil:
		code = http.StatusServiceUnavailable
	}
	respond.SafeError(w, r, code, err)
}

type FeaturedHandler struct{ Svc Reader }

// ServeHTTP returns the featured strip.
// @Summary  Featured listings
// @Tags     listings
// @Produce  json
// @Success  200 {object} respond.Envelope{data=[]DTO}
// @Failure  503 {object} respond.Envelope
// @Router   /api/listings/featured [get]
func (h FeaturedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	listings, err := h.Svc.Featured(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", cacheControl)
	respond.OK(w, toDTOs(listings))
}

type GetHandler struct{ Svc Reader }

// ServeHTTP returns one listing by slug.
// @Summary  Listing detail
// @Tags     listings
// @Produce  json
// @Param    slug path string true "listing slug"
// @Success  200 {object} respond.Envelope{data=DTO}
// @Failure  400 {object} respond.Envelope
// @Failure  404 {object} respond.Envelope
// @Router   /api/listings/{slug} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if err := pathutil.ValidateSlug(slug); err != nil {
		writeError(w, r, err)
		return
	}

	l, err := h.Svc.BySlug(r.Context(), slug)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", cacheControl)
	respond.OK(w, toDTO(l))
}

type CommunityHandler struct{ Svc Reader }

// ServeHTTP returns the listings of one community.
// @Summary  Community listings
// @Tags     communities
// @Produce  json
// @Param    community path string true "community slug"
// @Success  200 {object} respond.Envelope{data=[]DTO}
// @Failure  400 {object} respond.Envelope
// @Router   /api/communities/{community}/listings [get]
func (h CommunityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	community := r.PathValue("community")
	if err := pathutil.ValidateSlug(community); err != nil {
		writeError(w, r, err)
		return
	}

	listings, err := h.Svc.ByCommunity(r.Context(), community)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", cacheControl)
	respond.OK(w, toDTOs(listings))
}

type CommunitiesHandler struct{ Svc Reader }

// ServeHTTP returns the community index.
// @Summary  Communities
// @Tags     communities
// @Produce  json
// @Success  200 {object} respond.Envelope{data=[]CommunityDTO}
// @Router   /api/communities [get]
func (h CommunitiesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	communities, err := h.Svc.Communities(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]CommunityDTO, 0, len(communities))
	for _, c := range communities {
		out = append(out, CommunityDTO{Slug: c.Slug, Name: c.Name, ListingCount: c.ListingCount})
	}
	w.Header().Set("Cache-Control", cacheControl)
	respond.OK(w, out)
}

// Register registers the listing routes with mux.
func Register(mux *http.ServeMux, svc Reader) {
	mux.Handle("GET /api/listings/featured", FeaturedHandler{svc})
	mux.Handle("GET /api/listings/{slug}", GetHandler{svc})
	mux.Handle("GET /api/communities", CommunitiesHandler{svc})
	mux.Handle("GET /api/communities/{community}/listings", CommunityHandler{svc})
}
