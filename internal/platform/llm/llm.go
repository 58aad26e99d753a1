// Package llm implements the C2 LLM Adapter: four logical calls over the
// Anthropic Messages API, each enforcing a strict JSON response shape with
// a one-retry-then-fail policy, backed by a Redis response cache and a
// process-wide outbound concurrency cap.
package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"

	"github.com/andreypavlenko/matchcore/internal/config"
	"github.com/andreypavlenko/matchcore/internal/platform/logger"
	"github.com/andreypavlenko/matchcore/internal/platform/redis"
)

const cacheTTL = 24 * time.Hour

// Client is the C2 LLM Adapter.
type Client struct {
	anthropic    *anthropic.Client
	redis        *redis.Client
	logger       *logger.Logger
	sem          *semaphore.Weighted
	modelVersion string
	timeout      time.Duration
}

// New builds a Client from configuration. redisClient may be nil, in which
// case the response cache is disabled.
func New(cfg config.LlmConfig, redisClient *redis.Client, log *logger.Logger) *Client {
	client := anthropic.NewClient(option.WithAPIKey(cfg.ApiKey))
	return &Client{
		anthropic:    &client,
		redis:        redisClient,
		logger:       log,
		sem:          semaphore.NewWeighted(int64(cfg.MaxConcurrency)),
		modelVersion: cfg.ModelVersion,
		timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// ModelVersion returns the model_version string stamped on every produced
// matrix.
func (c *Client) ModelVersion() string {
	return c.modelVersion
}

// ExtractCandidateInfo performs extract_candidate_info.
func (c *Client) ExtractCandidateInfo(ctx context.Context, cvText string) (CandidateInfo, error) {
	var out CandidateInfo
	prompt := fmt.Sprintf(
		"Extract the candidate's name, email, phone, country, country_code and headline from this CV text. "+
			"Respond with JSON only matching: {\"name\":string,\"email\":string|null,\"phone\":string|null,"+
			"\"country\":string|null,\"country_code\":string|null,\"headline\":string|null}.\n\nCV TEXT:\n%s",
		cvText,
	)
	err := c.call(ctx, "extract_candidate_info", prompt, &out)
	return out, err
}

// GenerateCandidateMatrix performs generate_candidate_matrix.
func (c *Client) GenerateCandidateMatrix(ctx context.Context, cvText string) (CandidateMatrixContent, error) {
	var out CandidateMatrixContent
	prompt := fmt.Sprintf(
		"Build a structured candidate capability matrix from this CV text: skills (name, level, "+
			"years_of_experience), roles, total_years_experience, domains, education (degree, institution, "+
			"field, year), languages, location_signals (current_country, willing_to_relocate, "+
			"preferred_locations), confidence (0-1), evidence (field, snippet, source_page). "+
			"Respond with JSON only.\n\nCV TEXT:\n%s",
		cvText,
	)
	err := c.call(ctx, "generate_candidate_matrix", prompt, &out)
	return out, err
}

// GenerateJobMatrix performs generate_job_matrix.
func (c *Client) GenerateJobMatrix(ctx context.Context, title, description string, must, nice []string) (JobMatrixContent, error) {
	var out JobMatrixContent
	prompt := fmt.Sprintf(
		"Build a weighted job requirements matrix for this role. Respond with JSON only matching: "+
			"{\"required_skills\":[{\"skill\":string,\"weight\":int}],\"preferred_skills\":[{\"skill\":string,"+
			"\"weight\":int}],\"experience_weight\":int,\"location_weight\":int,\"domain_weight\":int}. "+
			"The four weights plus a skills weight must sum to 100 and skills weight must stay positive.\n\n"+
			"TITLE: %s\nDESCRIPTION: %s\nMUST-HAVE: %s\nNICE-TO-HAVE: %s",
		title, description, strings.Join(must, ", "), strings.Join(nice, ", "),
	)
	err := c.call(ctx, "generate_job_matrix", prompt, &out)
	return out, err
}

// ExtractJobInfoFromPosting performs extract_job_info_from_posting.
func (c *Client) ExtractJobInfoFromPosting(ctx context.Context, text string) (JobPostingInfo, error) {
	var out JobPostingInfo
	prompt := fmt.Sprintf(
		"Extract structured job posting fields from this text: title, department, company, location_type "+
			"(onsite|hybrid|remote), country_code, city, description, must_have_skills, nice_to_have_skills, "+
			"min_years_experience, seniority_level (junior|mid|senior|lead|principal). Respond with JSON only."+
			"\n\nPOSTING TEXT:\n%s",
		text,
	)
	err := c.call(ctx, "extract_job_info_from_posting", prompt, &out)
	return out, err
}

// call sends prompt to the model, enforcing the JSON schema of out via one
// retry, and transparently caches successful responses in Redis keyed by
// sha256(task+model version+prompt).
func (c *Client) call(ctx context.Context, task, prompt string, out interface{}) error {
	cacheKey := c.cacheKey(task, prompt)

	if c.redis != nil {
		if cached, err := c.redis.Get(ctx, cacheKey).Result(); err == nil {
			if jsonErr := json.Unmarshal([]byte(cached), out); jsonErr == nil {
				return nil
			}
		}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.sem.Acquire(timeoutCtx, 1); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer c.sem.Release(1)

	raw, err := c.send(timeoutCtx, prompt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if parseErr := json.Unmarshal([]byte(stripMarkdownCodeFences(raw)), out); parseErr != nil {
		c.logger.WithError("LLM_SCHEMA_VIOLATION").Warn("llm response did not match expected schema, retrying once")

		raw, err = c.send(timeoutCtx, prompt+"\n\nYour previous response was not valid JSON. Respond with JSON only, no commentary, no code fences.")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if parseErr := json.Unmarshal([]byte(stripMarkdownCodeFences(raw)), out); parseErr != nil {
			return fmt.Errorf("%w: %v", ErrSchemaViolation, parseErr)
		}
	}

	if c.redis != nil {
		c.redis.Set(ctx, cacheKey, raw, cacheTTL)
	}

	return nil
}

func (c *Client) send(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.modelVersion),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	resp, err := c.anthropic.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return b.String(), nil
}

func (c *Client) cacheKey(task, prompt string) string {
	sum := sha256.Sum256([]byte(task + "|" + c.modelVersion + "|" + prompt))
	return "llm:cache:" + hex.EncodeToString(sum[:])
}

// stripMarkdownCodeFences removes a leading ```json fence and any
// prefatory commentary so the remainder can be parsed as JSON.
func stripMarkdownCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)

	if idx := strings.Index(cleaned, "```json"); idx >= 0 {
		cleaned = cleaned[idx+len("```json"):]
	} else if idx := strings.IndexByte(cleaned, '{'); idx > 0 {
		cleaned = cleaned[idx:]
	}

	cleaned = strings.TrimPrefix(cleaned, "\n")
	if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
		cleaned = cleaned[:idx]
	}

	return strings.TrimSpace(cleaned)
}
