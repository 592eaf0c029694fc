package stashapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"customid/internal/config"
	"customid/internal/logging"
	"customid/internal/services"
	"customid/internal/stashids"
)

const (
	component        = "stashapp"
	apiKeyHeader     = "ApiKey"
	maxErrorBodySize = 4096
	tracerName       = "customid/stashapp"
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	// Endpoint is the full GraphQL URL, e.g. http://localhost:9999/graphql.
	Endpoint string
	APIKey   string
	// Timeout bounds each round trip; zero leaves requests unbounded.
	Timeout        time.Duration
	HTTPClient     HTTPDoer
	TracerProvider trace.TracerProvider
	Logger         *slog.Logger
}

// Client talks to the Stash GraphQL API to read and replace the stash IDs of
// a scene. It performs exactly one attempt per call.
type Client struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	http     HTTPDoer
	tracer   trace.Tracer
	logger   *slog.Logger
}

// New constructs a Client.
func New(opts Options) (*Client, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, "new", "graphql endpoint is required", nil)
	}
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   strings.TrimSpace(opts.APIKey),
		timeout:  opts.Timeout,
		http:     client,
		tracer:   tp.Tracer(tracerName),
		logger:   logging.NewComponentLogger(opts.Logger, component),
	}, nil
}

// NewFromConfig builds a Client from application configuration.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, tp trace.TracerProvider) (*Client, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "new", "configuration unavailable", nil)
	}
	return New(Options{
		Endpoint:       cfg.GraphQLURL(),
		APIKey:         cfg.Stash.APIKey,
		Timeout:        cfg.StashTimeout(),
		TracerProvider: tp,
		Logger:         logger,
	})
}

// Endpoint returns the GraphQL URL the client targets.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchIDs reads the current stash ID bindings of a scene. A missing scene or
// any transport/server failure is reported as services.ErrLookup; a missing
// scene additionally matches services.ErrTargetNotFound.
func (c *Client) FetchIDs(ctx context.Context, sceneID string) (stashids.Set, error) {
	ctx, span := c.tracer.Start(ctx, "stashapp.FetchIDs", trace.WithAttributes(attribute.String("scene.id", sceneID)))
	defer span.End()

	var data findSceneData
	err := c.do(ctx, findSceneOperation, findSceneQuery, map[string]any{"id": sceneID}, &data)
	if err == nil && data.FindScene == nil {
		err = fmt.Errorf("%w: scene %s does not exist", services.ErrTargetNotFound, sceneID)
	}
	if err != nil {
		wrapped := services.Wrap(services.ErrLookup, component, "findScene", fmt.Sprintf("scene %s", sceneID), err)
		failSpan(span, wrapped)
		logging.WithContext(ctx, c.logger).Debug("fetch stash ids failed", logging.Error(err))
		return nil, wrapped
	}

	set := toSet(data.FindScene.StashIDs)
	span.SetAttributes(attribute.Int("stash_ids.count", len(set)))
	logging.WithContext(ctx, c.logger).Debug("fetched stash ids", logging.Int("count", len(set)))
	return set, nil
}

// ReplaceIDs overwrites the full stash ID list of a scene and returns the list
// the server stored. Any failure is reported as services.ErrPersist.
func (c *Client) ReplaceIDs(ctx context.Context, sceneID string, set stashids.Set) (stashids.Set, error) {
	ctx, span := c.tracer.Start(ctx, "stashapp.ReplaceIDs", trace.WithAttributes(
		attribute.String("scene.id", sceneID),
		attribute.Int("stash_ids.count", len(set)),
	))
	defer span.End()

	input := map[string]any{
		"id":        sceneID,
		"stash_ids": fromSet(set),
	}
	var data sceneUpdateData
	err := c.do(ctx, sceneUpdateOperation, sceneUpdateMutation, map[string]any{"input": input}, &data)
	if err == nil && data.SceneUpdate == nil {
		err = errors.New("sceneUpdate returned no scene")
	}
	if err != nil {
		wrapped := services.Wrap(services.ErrPersist, component, "sceneUpdate", fmt.Sprintf("scene %s", sceneID), err)
		failSpan(span, wrapped)
		logging.WithContext(ctx, c.logger).Debug("replace stash ids failed", logging.Error(err))
		return nil, wrapped
	}

	stored := toSet(data.SceneUpdate.StashIDs)
	logging.WithContext(ctx, c.logger).Debug("replaced stash ids", logging.Int("count", len(stored)))
	return stored, nil
}

// Version returns the Stash server version; used as a connectivity check.
func (c *Client) Version(ctx context.Context) (string, error) {
	ctx, span := c.tracer.Start(ctx, "stashapp.Version")
	defer span.End()

	var data versionData
	if err := c.do(ctx, versionOperation, versionQuery, nil, &data); err != nil {
		wrapped := services.Wrap(services.ErrLookup, component, "version", "", err)
		failSpan(span, wrapped)
		return "", wrapped
	}
	return data.Version.Version, nil
}

func (c *Client) do(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(graphQLRequest{OperationName: operation, Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return fmt.Errorf("%s returned %s: %s", operation, resp.Status, strings.TrimSpace(string(snippet)))
	}

	var payload graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	if len(payload.Errors) > 0 {
		return GraphQLErrors(payload.Errors)
	}
	if out == nil || len(payload.Data) == 0 || string(payload.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", operation, err)
	}
	return nil
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
