package config

import (
	"fmt"
	"strings"
)

const (
	DefaultName       = "LocalVideoTranscription"
	DefaultVideosDir  = "videos"
	DefaultContextDir = "context"
	DefaultModelSize  = "base"

	ConnectionType = "LOCAL_VIDEO_TRANSCRIPTION"
)

// Params recognized by ApplyParams
const (
	ParamVideosDir         = "videos_dir"
	ParamContextDir        = "context_dir"
	ParamWhisperModelSize  = "whisper_model_size"
	ParamSpecificVideoPath = "specific_video_path"
)

// ModelSizes lists the accepted whisper model sizes, smallest first
var ModelSizes = []string{"tiny", "base", "small", "medium", "large"}

type Config struct {
	Name              string            `yaml:"name"`
	SpecificVideoPath string            `yaml:"specific_video_path"`
	Paths             PathsConfig       `yaml:"paths"`
	Whisper           WhisperConfig     `yaml:"whisper"`
	FFmpeg            FFmpegConfig      `yaml:"ffmpeg"`
	Gemini            GeminiConfig      `yaml:"gemini"`
	Logging           LoggingConfig     `yaml:"logging"`
	Watch             WatchConfig       `yaml:"watch"`
	Subscribers       SubscribersConfig `yaml:"subscribers"`
}

type PathsConfig struct {
	Videos  string `yaml:"videos"`
	Context string `yaml:"context"`
	Temp    string `yaml:"temp"`
}

type WhisperConfig struct {
	// Engine selects the transcription backend: "whisper" (CLI) or "gemini"
	Engine     string   `yaml:"engine"`
	ModelSize  string   `yaml:"model_size"`
	BinaryPath string   `yaml:"binary_path"`
	Language   string   `yaml:"language"`
	Extensions []string `yaml:"extensions"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	SampleRate int    `yaml:"sample_rate"`
}

type GeminiConfig struct {
	APIKeys []string `yaml:"api_keys"`
	Model   string   `yaml:"model"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type WatchConfig struct {
	SettleDelayMS int `yaml:"settle_delay_ms"`
}

type SubscribersConfig struct {
	Docx      DocxConfig      `yaml:"docx"`
	Redis     RedisConfig     `yaml:"redis"`
	Cassandra CassandraConfig `yaml:"cassandra"`
	Telegram  TelegramConfig  `yaml:"telegram"`
}

type DocxConfig struct {
	Enabled bool `yaml:"enabled"`
	// Dir defaults to the context directory
	Dir string `yaml:"dir"`
	// Summarize additionally writes a Gemini summary per transcript
	Summarize bool `yaml:"summarize"`
}

type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Channel string `yaml:"channel"`
	Queue   string `yaml:"queue"`
}

type CassandraConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Hosts    []string `yaml:"hosts"`
	Keyspace string   `yaml:"keyspace"`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  int64  `yaml:"chat_id"`
}

// Default returns a configuration usable without a config file
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

func (c *Config) Validate() error {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Paths.Videos == "" {
		c.Paths.Videos = DefaultVideosDir
	}
	if c.Paths.Context == "" {
		c.Paths.Context = DefaultContextDir
	}
	if c.Whisper.Engine == "" {
		c.Whisper.Engine = "whisper"
	}
	if c.Whisper.ModelSize == "" {
		c.Whisper.ModelSize = DefaultModelSize
	}
	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper"
	}
	if len(c.Whisper.Extensions) == 0 {
		c.Whisper.Extensions = []string{".mp4", ".mkv"}
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Watch.SettleDelayMS == 0 {
		c.Watch.SettleDelayMS = 500
	}
	if c.Subscribers.Redis.Addr == "" {
		c.Subscribers.Redis.Addr = "localhost:6379"
	}
	if c.Subscribers.Redis.Channel == "" {
		c.Subscribers.Redis.Channel = "video-transcriptions"
	}
	if c.Subscribers.Cassandra.Keyspace == "" {
		c.Subscribers.Cassandra.Keyspace = "transcript_db"
	}

	for i, ext := range c.Whisper.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Whisper.Extensions[i] = ext
	}

	if !isModelSize(c.Whisper.ModelSize) {
		return fmt.Errorf("whisper.model_size must be one of %s, got %q", strings.Join(ModelSizes, "|"), c.Whisper.ModelSize)
	}
	switch c.Whisper.Engine {
	case "whisper":
	case "gemini":
		if len(c.Gemini.APIKeys) == 0 {
			return fmt.Errorf("gemini.api_keys is required when whisper.engine is gemini")
		}
	default:
		return fmt.Errorf("whisper.engine must be whisper or gemini, got %q", c.Whisper.Engine)
	}
	if c.Subscribers.Docx.Summarize && len(c.Gemini.APIKeys) == 0 {
		return fmt.Errorf("gemini.api_keys is required when subscribers.docx.summarize is set")
	}
	if c.Subscribers.Cassandra.Enabled && len(c.Subscribers.Cassandra.Hosts) == 0 {
		return fmt.Errorf("subscribers.cassandra.hosts is required when cassandra is enabled")
	}
	if c.Subscribers.Telegram.Enabled && (c.Subscribers.Telegram.Token == "" || c.Subscribers.Telegram.ChatID == 0) {
		return fmt.Errorf("subscribers.telegram.token and chat_id are required when telegram is enabled")
	}

	return nil
}

// ApplyParams overlays the data-source parameters onto the config.
// Unrecognized keys and empty values are ignored.
func (c *Config) ApplyParams(params map[string]string) {
	for key, value := range params {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch key {
		case ParamVideosDir:
			c.Paths.Videos = value
		case ParamContextDir:
			c.Paths.Context = value
		case ParamWhisperModelSize:
			c.Whisper.ModelSize = strings.ToLower(value)
		case ParamSpecificVideoPath:
			c.SpecificVideoPath = value
		}
	}
}

// IsSupported reports whether path carries one of the configured video extensions
func (c *Config) IsSupported(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range c.Whisper.Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ConnectionData describes the fields a host pipeline may set on this data source
func ConnectionData() map[string]interface{} {
	return map[string]interface{}{
		"connection_type": ConnectionType,
		"fields": []string{
			ParamVideosDir,
			ParamContextDir,
			ParamWhisperModelSize,
			ParamSpecificVideoPath,
		},
	}
}

func isModelSize(size string) bool {
	for _, s := range ModelSizes {
		if s == size {
			return true
		}
	}
	return false
}
