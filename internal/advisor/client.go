package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"meanrev/internal/backtest"
	"meanrev/internal/config"
	"meanrev/internal/indicator"
)

// Client 封装 OpenAI 调用逻辑。
type Client struct {
	cfg    config.AdvisorConfig
	logger *zap.Logger
	sdk    *openai.Client
}

// NewClient 使用给定配置创建点评客户端。
func NewClient(cfg config.AdvisorConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("advisor api_key 不能为空")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sdkConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		sdkConfig.BaseURL = cfg.BaseURL
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout + 5*time.Second,
	}
	sdkConfig.HTTPClient = httpClient
	client := openai.NewClientWithConfig(sdkConfig)

	return &Client{
		cfg:    cfg,
		logger: logger,
		sdk:    client,
	}, nil
}

// ReviewResult 根据指标快照与回测结果获取模型点评。
func (c *Client) ReviewResult(ctx context.Context, snapshot indicator.Snapshot, result backtest.Result) (Review, error) {
	if c.cfg.Model == "" {
		return Review{}, errors.New("advisor model 不能为空")
	}

	prompt, err := BuildPrompt(snapshot, result)
	if err != nil {
		return Review{}, err
	}

	response, err := c.sdk.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0,
	})
	if err != nil {
		c.logger.Error("调用OpenAI失败", zap.Error(err))
		return Review{}, fmt.Errorf("调用OpenAI失败: %w", err)
	}

	if len(response.Choices) == 0 {
		return Review{}, errors.New("OpenAI 返回结果为空")
	}

	rawContent := strings.TrimSpace(response.Choices[0].Message.Content)
	if rawContent == "" {
		return Review{}, errors.New("OpenAI 返回内容为空")
	}

	review, err := parseReview(rawContent)
	if err != nil {
		c.logger.Error("解析模型点评失败",
			zap.Error(err),
			zap.String("raw_content", rawContent),
		)
		return Review{}, err
	}

	if err := review.Validate(); err != nil {
		return Review{}, err
	}

	c.logger.Info("AI 点评生成成功",
		zap.String("symbol", review.Symbol),
		zap.String("assessment", review.Assessment),
		zap.Float64("confidence", review.Confidence),
	)

	return review, nil
}

func parseReview(content string) (Review, error) {
	jsonPayload, err := extractJSON(content)
	if err != nil {
		return Review{}, err
	}

	var review Review
	if err = json.Unmarshal(jsonPayload, &review); err != nil {
		return Review{}, fmt.Errorf("解析点评JSON失败: %w", err)
	}

	return review, nil
}

func extractJSON(content string) ([]byte, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")

	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("模型输出未找到有效JSON: %s", content)
	}

	return []byte(content[start : end+1]), nil
}
