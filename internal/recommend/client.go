// Package recommend builds the recommendation request, sends it to a
// structured generator and turns the reply into a validated result.
package recommend

import (
	"context"
	"time"

	"github.com/hammamikhairi/yojana/internal/domain"
	"github.com/hammamikhairi/yojana/internal/logger"
)

// DefaultLimit is the number of schemes requested and kept.
const DefaultLimit = 5

var _ domain.Recommender = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithLimit sets how many schemes are requested. Values below 1 are ignored.
func WithLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limit = n
		}
	}
}

// Client fetches recommendations from a structured generator.
type Client struct {
	gen   domain.StructuredGenerator
	limit int
	log   *logger.Logger
}

// NewClient creates a recommendation client on top of gen.
func NewClient(gen domain.StructuredGenerator, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		gen:   gen,
		limit: DefaultLimit,
		log:   log.Named("recommend"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Limit returns the configured scheme limit.
func (c *Client) Limit() int { return c.limit }

// FetchRecommendations validates the profile, asks the model for ranked
// schemes written in lang and parses the reply. Input problems come back
// as ValidationError; anything that goes wrong afterwards is a
// GenerationError.
func (c *Client) FetchRecommendations(ctx context.Context, profile domain.UserProfile, lang domain.Language) (*domain.RecommendationResult, error) {
	const op = "fetch recommendations"

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if !lang.Valid() {
		return nil, domain.Validationf(op, "unsupported language %q", string(lang))
	}

	prompt := BuildPrompt(profile, lang, c.limit)
	c.log.Debug("requesting %d schemes (lang=%s, state=%s, occupation=%s)",
		c.limit, lang, profile.State, profile.Occupation)

	start := time.Now()
	raw, err := c.gen.GenerateStructured(ctx, prompt, ResponseSchema())
	if err != nil {
		c.log.Warn("generation failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
		return nil, domain.NewError(domain.ErrGeneration, op, err)
	}

	res, err := ParseResult(raw, c.limit)
	if err != nil {
		c.log.Warn("rejected model reply: %v", err)
		return nil, domain.NewError(domain.ErrGeneration, op, err)
	}
	c.log.Info("%d schemes recommended in %s", len(res.Schemes), time.Since(start).Round(time.Millisecond))
	return res, nil
}
