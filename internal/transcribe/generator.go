package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ImageGenerator turns one cue into one image file. A failure is not fatal:
// the caller records the asset as missing and the renderer substitutes a
// placeholder for its slot.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// KolorsClient calls an OpenAI-compatible images endpoint and downloads the
// result into OutputDir.
type KolorsClient struct {
	BaseURL   string
	APIKey    string
	Model     string
	Size      string
	OutputDir string

	hc *http.Client
}

func NewKolorsClient(baseURL, apiKey, outputDir string) *KolorsClient {
	return &KolorsClient{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		Model:     "Kwai-Kolors/Kolors",
		Size:      "1024x1024",
		OutputDir: outputDir,
		hc:        &http.Client{Timeout: 2 * time.Minute},
	}
}

type imagesRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
	N      int    `json:"n"`
}

type imagesResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (c *KolorsClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(imagesRequest{Model: c.Model, Prompt: prompt, Size: c.Size, N: 1})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/images/generations", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("images http %d: %s", resp.StatusCode, string(b))
	}

	var ir imagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return "", err
	}
	if len(ir.Data) == 0 || ir.Data[0].URL == "" {
		return "", fmt.Errorf("images response contained no url")
	}

	return c.download(ctx, ir.Data[0].URL)
}

func (c *KolorsClient) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("image download http %d", resp.StatusCode)
	}

	if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("kolors_%s.png", time.Now().Format("20060102_150405.000"))
	path := filepath.Join(c.OutputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
