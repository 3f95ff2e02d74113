package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Environment 表示运行环境。
type Environment string

const (
	EnvProduction  Environment = "production"
	EnvDevelopment Environment = "development"
)

// Provider 名称。
const (
	ProviderGemini = "gemini"
	ProviderArk    = "ark"
	ProviderMock   = "mock"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Env       Environment
	Server    ServerConfig
	AI        AIConfig
	Session   SessionConfig
	Resume    ResumeConfig
	Telemetry TelemetryConfig
	LogLevel  string
}

// Production 表示是否运行在生产模式。
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

// Development 表示是否运行在开发模式，开发模式下错误详情会返回给调用方。
func (c *Config) Development() bool {
	return c.Env == EnvDevelopment
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Env:     loadEnvironment(),
		Server:  server,
		AI:      ai,
		Session: session,
		Resume: ResumeConfig{
			Path: getEnvOrDefault("RESUME_PATH", "data/resumeData.json"),
		},
		Telemetry: TelemetryConfig{
			Endpoint:    strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
			ServiceName: getEnvOrDefault("OTEL_SERVICE_NAME", "portfolio-chat"),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}, nil
}

// loadEnvironment 读取 APP_ENV，兼容前端沿用的 NODE_ENV。
func loadEnvironment() Environment {
	raw := strings.TrimSpace(os.Getenv("APP_ENV"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("NODE_ENV"))
	}
	return Environment(strings.ToLower(raw))
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3001"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":3001" 或 "127.0.0.1:3001"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider string

	GeminiAPIKey string
	GeminiModel  string

	APIKey    string
	AccessKey string
	SecretKey string
	Model     string
	BaseURL   string
	Region    string

	Temperature float64
	TopP        float64
	TopK        int
	MaxTokens   int

	Timeout time.Duration
}

// ArkEnabled 表示是否提供了 Ark 必需的密钥。
func (c AIConfig) ArkEnabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个 Ark 模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.ArkEnabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY + Model or an AK/SK pair")
	}

	temperature := float32(c.Temperature)
	topP := float32(c.TopP)
	maxTokens := c.MaxTokens

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		TopP:        &topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("AI_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("AI_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	topK, err := parseOptionalIntEnv("AI_TOP_K")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("AI_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	timeout, err := parseDurationEnv("PROVIDER_TIMEOUT", 0)
	if err != nil {
		return AIConfig{}, err
	}

	cfg := AIConfig{
		Provider:     strings.ToLower(strings.TrimSpace(os.Getenv("AI_PROVIDER"))),
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		APIKey:       strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:    strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:    strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:        strings.TrimSpace(os.Getenv("Model")),
		BaseURL:      getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:       getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:  floatOrDefault(temperature, 0.7),
		TopP:         floatOrDefault(topP, 0.8),
		TopK:         intOrDefault(topK, 40),
		MaxTokens:    intOrDefault(maxTokens, 1000),
		Timeout:      timeout,
	}

	if cfg.Provider == "" {
		// 默认使用 Gemini；mock 只能通过 AI_PROVIDER=mock 显式开启。
		cfg.Provider = ProviderGemini
	}

	switch cfg.Provider {
	case ProviderGemini, ProviderArk, ProviderMock:
	default:
		return AIConfig{}, fmt.Errorf("invalid AI_PROVIDER value %q", cfg.Provider)
	}

	return cfg, nil
}

// SessionConfig 控制会话存储的容量与过期策略，0 表示不限制。
type SessionConfig struct {
	MaxSessions int
	IdleTTL     time.Duration
}

func loadSessionConfig() (SessionConfig, error) {
	maxSessions, err := parseOptionalIntEnv("SESSION_MAX")
	if err != nil {
		return SessionConfig{}, err
	}

	idle, err := parseDurationEnv("SESSION_IDLE_TTL", 0)
	if err != nil {
		return SessionConfig{}, err
	}

	limit := intOrDefault(maxSessions, 0)
	if limit < 0 {
		limit = 0
	}

	return SessionConfig{MaxSessions: limit, IdleTTL: idle}, nil
}

// ResumeConfig 描述简历数据文件位置。
type ResumeConfig struct {
	Path string
}

// TelemetryConfig 描述 OpenTelemetry 导出配置，Endpoint 为空时只在进程内记录 span。
type TelemetryConfig struct {
	Endpoint    string
	ServiceName string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("invalid %s value %q: must not be negative", key, raw)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func floatOrDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
