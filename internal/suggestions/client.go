// Package suggestions talks to the external milestone suggestion endpoint.
package suggestions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/pkg/logger"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnavailable means the endpoint could not be reached, is not configured
	// or answered with a failure status.
	ErrUnavailable = errors.New("suggestion service unavailable")
	// ErrMalformed means the endpoint answered but the payload is not a valid suggestion.
	ErrMalformed = errors.New("malformed suggestion payload")
)

const maxBodyBytes = 1 << 20

// Client posts goal text to the suggestion endpoint.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

func NewClient(url, token string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type request struct {
	EndGoal string `json:"endGoal"`
}

type rawMilestone struct {
	Goal       interface{} `json:"goal"`
	TargetDays interface{} `json:"targetDays"`
}

type rawAchievement struct {
	Name             interface{} `json:"name"`
	Description      interface{} `json:"description"`
	IconName         interface{} `json:"iconName"`
	TriggerCondition interface{} `json:"triggerCondition"`
}

type rawSuggestion struct {
	Milestones   []rawMilestone   `json:"milestones"`
	Achievements []rawAchievement `json:"achievements"`
}

// Suggest asks the endpoint to break goal into milestones. The answer is either
// a bare array of milestones or an object with milestones and achievements.
func (c *Client) Suggest(ctx context.Context, goal string) (*models.Suggestion, error) {
	if c.url == "" {
		return nil, fmt.Errorf("%w: endpoint not configured", ErrUnavailable)
	}

	body, err := json.Marshal(request{EndGoal: goal})
	if err != nil {
		return nil, fmt.Errorf("failed to encode suggestion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Log.WithError(err).Warn("Suggestion request failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
		}).Warn("Suggestion endpoint returned an error")
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	return decode(payload)
}

func decode(payload []byte) (*models.Suggestion, error) {
	var raw rawSuggestion

	trimmed := bytes.TrimSpace(payload)
	switch {
	case len(trimmed) == 0:
		return nil, fmt.Errorf("%w: empty body", ErrMalformed)
	case trimmed[0] == '[':
		if err := unmarshalNumbers(trimmed, &raw.Milestones); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case trimmed[0] == '{':
		if err := unmarshalNumbers(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object", ErrMalformed)
	}

	if len(raw.Milestones) == 0 {
		return nil, fmt.Errorf("%w: no milestones", ErrMalformed)
	}

	out := &models.Suggestion{}
	for i, m := range raw.Milestones {
		goal, ok := m.Goal.(string)
		if !ok || strings.TrimSpace(goal) == "" {
			return nil, fmt.Errorf("%w: milestone %d has no goal", ErrMalformed, i)
		}
		days, err := positiveInt(m.TargetDays)
		if err != nil {
			return nil, fmt.Errorf("%w: milestone %d: %v", ErrMalformed, i, err)
		}
		out.Milestones = append(out.Milestones, models.MilestoneDraft{Goal: strings.TrimSpace(goal), TargetDays: days})
	}

	for i, a := range raw.Achievements {
		name, ok := a.Name.(string)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: achievement %d has no name", ErrMalformed, i)
		}
		trigger, ok := a.TriggerCondition.(string)
		if !ok || strings.TrimSpace(trigger) == "" {
			return nil, fmt.Errorf("%w: achievement %d has no trigger condition", ErrMalformed, i)
		}
		description, _ := a.Description.(string)
		icon, _ := a.IconName.(string)
		out.Achievements = append(out.Achievements, models.AchievementDraft{
			Name:             strings.TrimSpace(name),
			Description:      description,
			IconName:         icon,
			TriggerCondition: strings.TrimSpace(trigger),
		})
	}

	return out, nil
}

func unmarshalNumbers(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func positiveInt(v interface{}) (int, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, errors.New("targetDays is not a number")
	}
	days, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("targetDays %s is not an integer", n)
	}
	if days <= 0 {
		return 0, fmt.Errorf("targetDays %d is not positive", days)
	}
	return int(days), nil
}
