/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lmteixeira17/blood-exams/dashboard"
)

// OllamaConfig holds the Ollama server configuration
type OllamaConfig struct {
	URL   string
	Model string
}

// OpenAI-compatible request/response structures
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
	Delta   chatMessage `json:"delta,omitempty"` // For streaming responses
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GetOllamaConfig loads Ollama configuration from environment variables
func GetOllamaConfig() (*OllamaConfig, error) {
	url := os.Getenv("OLLAMA_URL")
	model := os.Getenv("OLLAMA_MODEL")

	if url == "" || model == "" {
		return nil, fmt.Errorf("Ollama configuration incomplete: OLLAMA_URL and OLLAMA_MODEL must be set")
	}

	return &OllamaConfig{
		URL:   url,
		Model: model,
	}, nil
}

// buildTrendPrompt creates the prompt for a biomarker trend analysis
func buildTrendPrompt(biomarker *Biomarker, series dashboard.BiomarkerSeries) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Please analyze the trend of the following lab results for %s:\n\n", biomarker.Name))

	for i := range series.Dates {
		status := ""
		if series.AbnormalAt(i) {
			status = " [ABNORMAL]"
		}

		refRange := ""
		refMin, refMax := series.RefMin[i], series.RefMax[i]
		switch {
		case refMin.Valid && refMax.Valid:
			refRange = fmt.Sprintf(" (Reference: %.2f - %.2f)", refMin.Value, refMax.Value)
		case refMin.Valid:
			refRange = fmt.Sprintf(" (Reference: > %.2f)", refMin.Value)
		case refMax.Valid:
			refRange = fmt.Sprintf(" (Reference: < %.2f)", refMax.Value)
		}

		unit := ""
		if biomarker.Unit != "" {
			unit = " " + biomarker.Unit
		}

		sb.WriteString(fmt.Sprintf("- %s: %.3f%s%s%s\n", series.Dates[i], series.Values[i], unit, refRange, status))
	}

	sb.WriteString("\n---\n\n")
	sb.WriteString("Please provide:\n")
	sb.WriteString("1. A brief description of the trend direction\n")
	sb.WriteString("2. Whether any values are concerning and why\n")
	sb.WriteString("3. General observations based on this history\n")

	return sb.String()
}

// StreamTrendAnalysis calls Ollama to generate a trend analysis for one
// biomarker's history with a streaming response. The onChunk callback
// is called for each chunk of text received.
func StreamTrendAnalysis(ctx context.Context, biomarker *Biomarker, series dashboard.BiomarkerSeries, onChunk func(string) error) error {
	config, err := GetOllamaConfig()
	if err != nil {
		return err
	}

	prompt := buildTrendPrompt(biomarker, series)

	reqBody := chatRequest{
		Model:  config.Model,
		Stream: true,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are a helpful medical assistant. Provide concise, clear analyses of lab result trends. Highlight abnormal values and their potential significance. Be informative but not alarmist. Never mention consulting a healthcare professional, this is shown separately in UI. Use basic markdown (italic, bold, etc), but don't use headings in your response.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := strings.TrimSuffix(config.URL, "/") + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		Timeout: 300 * time.Second, // 5 minutes for streaming
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	// Read streaming response line by line
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read stream: %w", err)
		}

		lineStr := strings.TrimSpace(string(line))
		if lineStr == "" {
			continue
		}

		// SSE format: "data: {...}"
		if !strings.HasPrefix(lineStr, "data: ") {
			continue
		}

		data := strings.TrimPrefix(lineStr, "data: ")

		if data == "[DONE]" {
			break
		}

		var chatResp chatResponse
		if err := json.Unmarshal([]byte(data), &chatResp); err != nil {
			// Skip malformed chunks
			continue
		}

		if chatResp.Error != nil {
			return fmt.Errorf("Ollama error: %s", chatResp.Error.Message)
		}

		if len(chatResp.Choices) > 0 {
			content := chatResp.Choices[0].Delta.Content
			if content != "" {
				if err := onChunk(content); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
