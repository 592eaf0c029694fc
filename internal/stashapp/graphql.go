package stashapp

import (
	"encoding/json"
	"strings"

	"customid/internal/stashids"
)

const (
	findSceneOperation   = "FindSceneStashIDs"
	sceneUpdateOperation = "UpdateSceneStashIDs"
	versionOperation     = "Version"
)

const findSceneQuery = `query FindSceneStashIDs($id: ID!) {
  findScene(id: $id) {
    id
    stash_ids {
      endpoint
      stash_id
    }
  }
}`

const sceneUpdateMutation = `mutation UpdateSceneStashIDs($input: SceneUpdateInput!) {
  sceneUpdate(input: $input) {
    id
    stash_ids {
      endpoint
      stash_id
    }
  }
}`

const versionQuery = `query Version {
  version {
    version
  }
}`

type graphQLRequest struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// GraphQLErrors is returned when the server answers with a non-empty errors
// array.
type GraphQLErrors []GraphQLError

func (e GraphQLErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, item := range e {
		if msg := strings.TrimSpace(item.Message); msg != "" {
			msgs = append(msgs, msg)
		}
	}
	if len(msgs) == 0 {
		return "graphql: unknown error"
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

type sceneStashIDs struct {
	ID       string          `json:"id"`
	StashIDs []stashIDRecord `json:"stash_ids"`
}

type stashIDRecord struct {
	Endpoint string `json:"endpoint"`
	StashID  string `json:"stash_id"`
}

type findSceneData struct {
	FindScene *sceneStashIDs `json:"findScene"`
}

type sceneUpdateData struct {
	SceneUpdate *sceneStashIDs `json:"sceneUpdate"`
}

type versionData struct {
	Version struct {
		Version string `json:"version"`
	} `json:"version"`
}

func toSet(records []stashIDRecord) stashids.Set {
	out := make(stashids.Set, 0, len(records))
	for _, r := range records {
		out = append(out, stashids.Record{Endpoint: r.Endpoint, StashID: r.StashID})
	}
	return out
}

func fromSet(set stashids.Set) []stashIDRecord {
	out := make([]stashIDRecord, 0, len(set))
	for _, r := range set {
		out = append(out, stashIDRecord{Endpoint: r.Endpoint, StashID: r.StashID})
	}
	return out
}
