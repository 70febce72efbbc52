// ABOUTME: The "demo1" endpoint: a canned weather tool, two resources, and a prompt.
// ABOUTME: None of these handlers touch the database.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	weatherAnswer = "晴，14度"
	appVersion    = "v3.2.0"

	appVersionURI    = "config://app-version"
	userEmailPrefix  = "db://users/"
	userEmailSuffix  = "/email"
	userEmailPattern = userEmailPrefix + "{user_id}" + userEmailSuffix
)

// Demo1 returns the demo endpoint served at /mcp/demo1/sse.
func Demo1() Endpoint {
	return Endpoint{
		Name:     "demo1",
		Version:  "1.0.0",
		SSEPath:  "/mcp/demo1/sse",
		Register: registerDemo1,
	}
}

func registerDemo1(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "getWeather",
		Description: "Get the current weather for a location",
	}, handleGetWeather)

	server.AddResource(&mcp.Resource{
		URI:         appVersionURI,
		Name:        "app-version",
		Description: "Application version string",
		MIMEType:    "text/plain",
	}, handleAppVersion)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        "user-email",
		URITemplate: userEmailPattern,
		Description: "Email address of a user",
		MIMEType:    "text/plain",
	}, handleUserEmail)

	server.AddPrompt(&mcp.Prompt{
		Name:        "askQuestion",
		Description: "Ask the assistant to explain a concept",
		Arguments: []*mcp.PromptArgument{{
			Name:        "topic",
			Description: "Concept to explain",
			Required:    true,
		}},
	}, handleAskQuestion)
}

type weatherInput struct {
	Location string `json:"location" jsonschema:"City or place name"`
}

// handleGetWeather answers the same for every location.
func handleGetWeather(ctx context.Context, req *mcp.CallToolRequest, input weatherInput) (*mcp.CallToolResult, any, error) {
	return textResult(weatherAnswer), nil, nil
}

func handleAppVersion(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return textResource(appVersionURI, appVersion), nil
}

func handleUserEmail(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	userID, ok := parseUserEmailURI(uri)
	if !ok {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return textResource(uri, userID+"@example.com"), nil
}

// parseUserEmailURI extracts user_id from db://users/{user_id}/email.
func parseUserEmailURI(uri string) (string, bool) {
	rest, ok := strings.CutPrefix(uri, userEmailPrefix)
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, userEmailSuffix)
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func handleAskQuestion(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := req.Params.Arguments["topic"]
	if topic == "" {
		return nil, fmt.Errorf("missing required argument: topic")
	}

	return &mcp.GetPromptResult{
		Description: "Explain a concept",
		Messages: []*mcp.PromptMessage{{
			Role:    "user",
			Content: &mcp.TextContent{Text: fmt.Sprintf("请解释一下'%s'的概念？", topic)},
		}},
	}, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func textResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     text,
		}},
	}
}
