// Package elevenlabs wraps the remote speech-synthesis provider. Every call
// is synchronous and single-attempt; the caller owns retry policy.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/MansiJagta/echo-forge-create/models"
)

const defaultBaseURL = "https://api.elevenlabs.io/v1"

// modelID and the voice settings are fixed: the gateway exposes no synthesis
// tuning knobs.
const modelID = "eleven_monolingual_v1"

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Client talks to an ElevenLabs-style REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	fs      afero.Fs
}

// NewClient builds a provider client. httpClient carries the per-call
// timeout; fs is where voice samples are read from.
func NewClient(baseURL, apiKey string, httpClient *http.Client, fs afero.Fs) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, http: httpClient, fs: fs}
}

// RegisterVoice uploads the sample at samplePath as a new voice and returns
// the provider-assigned voice id.
func (c *Client) RegisterVoice(ctx context.Context, samplePath string) (string, error) {
	sample, err := c.fs.Open(samplePath)
	if err != nil {
		return "", fmt.Errorf("opening voice sample: %w", err)
	}
	defer sample.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("files", filepath.Base(samplePath))
	if err != nil {
		return "", fmt.Errorf("building multipart form: %w", err)
	}
	if _, err := io.Copy(part, sample); err != nil {
		return "", fmt.Errorf("copying voice sample: %w", err)
	}
	if err := writer.WriteField("name", "voice_clone_"+uuid.NewString()[:8]); err != nil {
		return "", fmt.Errorf("building multipart form: %w", err)
	}
	if err := writer.WriteField("description", "Voice clone created via API"); err != nil {
		return "", fmt.Errorf("building multipart form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("building multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/voices/add", &body)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result struct {
		VoiceID string `json:"voice_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding voice response: %w", err)
	}
	if result.VoiceID == "" {
		return "", &models.UpstreamError{Service: "elevenlabs", Status: resp.StatusCode, Body: "response missing voice_id"}
	}
	return result.VoiceID, nil
}

// Synthesize converts text to speech with the given voice and returns the
// raw MP3 bytes.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	payload, err := json.Marshal(synthesizeRequest{
		Text:    text,
		ModelID: modelID,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.5,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/text-to-speech/"+voiceID, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading audio response: %w", err)
	}
	return audio, nil
}

// ListVoices returns the provider's voice catalog as raw JSON, passed
// through untouched.
func (c *Client) ListVoices(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// DeleteVoice removes a registered voice from the provider.
func (c *Client) DeleteVoice(ctx context.Context, voiceID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/voices/"+voiceID, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// do executes the request and normalizes failures: transport errors become
// timeout-flagged UpstreamErrors, non-2xx responses carry the upstream
// status and body for operator logs.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		ue := &models.UpstreamError{Service: "elevenlabs", Body: err.Error()}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			ue.Timeout = true
		}
		return nil, ue
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &models.UpstreamError{Service: "elevenlabs", Status: resp.StatusCode, Body: string(body)}
	}
	return resp, nil
}
