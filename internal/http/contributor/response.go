package contributor

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmuratov/brofund/internal/contributor"
	"github.com/rmuratov/brofund/internal/money"
)

type contributorResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Percentage float64   `json:"percentage"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toResponse(c *contributor.Contributor) contributorResponse {
	return contributorResponse{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Percentage: c.Percentage,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func toResponseList(contributors []*contributor.Contributor) []contributorResponse {
	resp := make([]contributorResponse, len(contributors))
	for i, c := range contributors {
		resp[i] = toResponse(c)
	}

	return resp
}

type contributionResponse struct {
	contributorResponse
	TotalContributedCents int64  `json:"total_contributed_cents"`
	TotalContributed      string `json:"total_contributed"`
}

func toContributionList(contributions []*contributor.WithContribution) []contributionResponse {
	resp := make([]contributionResponse, len(contributions))
	for i, c := range contributions {
		resp[i] = contributionResponse{
			contributorResponse:   toResponse(&c.Contributor),
			TotalContributedCents: c.TotalContributedCents,
			TotalContributed:      money.FormatCents(c.TotalContributedCents),
		}
	}

	return resp
}
