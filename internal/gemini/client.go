package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var (
	ErrNoAPIKeys     = errors.New("gemini: no API keys configured")
	ErrEmptyResponse = errors.New("empty response from Gemini")
)

type callFunc func(ctx context.Context, client *genai.Client) (*genai.GenerateContentResponse, error)

func (c *implClient) Model() string {
	return c.model
}

func (c *implClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.do(ctx, func(ctx context.Context, client *genai.Client) (*genai.GenerateContentResponse, error) {
		return client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	})
}

func (c *implClient) GenerateFromFile(ctx context.Context, path, mimeType, prompt string) (string, error) {
	return c.do(ctx, func(ctx context.Context, client *genai.Client) (*genai.GenerateContentResponse, error) {
		file, err := client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{MIMEType: mimeType})
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", path, err)
		}

		parts := []*genai.Part{
			genai.NewPartFromURI(file.URI, file.MIMEType),
			genai.NewPartFromText(prompt),
		}
		contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
		defer c.deleteUpload(ctx, client.Files, file.Name)
		return client.Models.GenerateContent(ctx, c.model, contents, nil)
	})
}

type fileDeleter interface {
	Delete(ctx context.Context, name string, config *genai.DeleteFileConfig) (*genai.DeleteFileResponse, error)
}

// deleteUpload removes an uploaded file from the Files API. Failures are only logged.
func (c *implClient) deleteUpload(ctx context.Context, files fileDeleter, name string) {
	if name == "" {
		return
	}
	if _, err := files.Delete(ctx, name, nil); err != nil {
		c.logger.Warn(ctx, "Failed to delete uploaded file %s: %v", name, err)
	}
}

// do runs call with the current key, rotating keys on 429 / quota errors.
func (c *implClient) do(ctx context.Context, call callFunc) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.apiKeys) == 0 {
		return "", ErrNoAPIKeys
	}

	var lastErr error
	for range len(c.apiKeys) {
		key := c.apiKeys[c.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			c.rotateKey()
			continue
		}

		result, err := call(ctx, client)
		if err != nil {
			if isRateLimited(err) {
				c.logger.Warn(ctx, "Key %d rate limited, rotating...", c.currentKey+1)
				c.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		text := responseText(result)
		if text == "" {
			return "", ErrEmptyResponse
		}
		return text, nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (c *implClient) rotateKey() {
	c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text += part.Text
		}
	}
	return text
}
