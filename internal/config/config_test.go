package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "sauti_notes",
		},
		RabbitMQ: RabbitMQConfig{
			Host:     "localhost",
			Port:     5672,
			Exchange: ExchangeConfig{Name: "transcriptions_exchange"},
			Queue:    QueueConfig{Name: "transcriptions_queue"},
		},
		Storage: StorageConfig{
			UploadDir:         "/tmp/sauti-uploads",
			MaxFileSizeMB:     100,
			AllowedExtensions: []string{".mp3", ".wav"},
		},
		OpenAI: OpenAIConfig{
			SummaryModel: "gpt-4o-mini",
			WhisperModel: "whisper-1",
			Language:     "sw",
		},
		Processing: ProcessingConfig{Mode: ProcessingModeSync},
		Worker: WorkerConfig{
			Concurrency:     4,
			JobTimeout:      10 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
		},
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				// Verify some key fields are populated
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "sauti_notes", cfg.Database.Database)
				assert.Equal(t, "transcriptions_queue", cfg.RabbitMQ.Queue.Name)
				assert.Equal(t, "/tmp/sauti-uploads", cfg.Storage.UploadDir)
				assert.Equal(t, 100, cfg.Storage.MaxFileSizeMB)
				assert.Equal(t, "whisper-1", cfg.OpenAI.WhisperModel)
				assert.Equal(t, "sw", cfg.OpenAI.Language)
				assert.Equal(t, ProcessingModeQueue, cfg.Processing.Mode)
				assert.Equal(t, 120*time.Second, cfg.OpenAI.RequestTimeout)
				assert.Equal(t, "sauti-api-service", cfg.App.Name)
			}
		})
	}
}

func TestValidateAPIConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid sync config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid queue config",
			mutate: func(c *Config) {
				c.Processing.Mode = ProcessingModeQueue
			},
			wantErr: false,
		},
		{
			name: "queue mode without rabbitmq host",
			mutate: func(c *Config) {
				c.Processing.Mode = ProcessingModeQueue
				c.RabbitMQ.Host = ""
			},
			wantErr:   true,
			errString: "rabbitmq host is required",
		},
		{
			name: "sync mode ignores rabbitmq",
			mutate: func(c *Config) {
				c.RabbitMQ = RabbitMQConfig{}
			},
			wantErr: false,
		},
		{
			name: "invalid server port - too low",
			mutate: func(c *Config) {
				c.Server.Port = 0
			},
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name: "invalid server port - too high",
			mutate: func(c *Config) {
				c.Server.Port = 70000
			},
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name: "empty database host",
			mutate: func(c *Config) {
				c.Database.Host = ""
			},
			wantErr:   true,
			errString: "database host is required",
		},
		{
			name: "empty database name",
			mutate: func(c *Config) {
				c.Database.Database = ""
			},
			wantErr:   true,
			errString: "database name is required",
		},
		{
			name: "missing upload dir",
			mutate: func(c *Config) {
				c.Storage.UploadDir = ""
			},
			wantErr:   true,
			errString: "upload_dir is required",
		},
		{
			name: "zero max file size",
			mutate: func(c *Config) {
				c.Storage.MaxFileSizeMB = 0
			},
			wantErr:   true,
			errString: "max_file_size_mb must be greater than 0",
		},
		{
			name: "no allowed extensions",
			mutate: func(c *Config) {
				c.Storage.AllowedExtensions = nil
			},
			wantErr:   true,
			errString: "allowed_extensions is required",
		},
		{
			name: "extension without dot",
			mutate: func(c *Config) {
				c.Storage.AllowedExtensions = []string{"mp3"}
			},
			wantErr:   true,
			errString: "must start with a dot",
		},
		{
			name: "missing summary model",
			mutate: func(c *Config) {
				c.OpenAI.SummaryModel = ""
			},
			wantErr:   true,
			errString: "summary_model is required",
		},
		{
			name: "missing whisper model",
			mutate: func(c *Config) {
				c.OpenAI.WhisperModel = ""
			},
			wantErr:   true,
			errString: "whisper_model is required",
		},
		{
			name: "missing language",
			mutate: func(c *Config) {
				c.OpenAI.Language = ""
			},
			wantErr:   true,
			errString: "language is required",
		},
		{
			name: "missing processing mode",
			mutate: func(c *Config) {
				c.Processing.Mode = ""
			},
			wantErr:   true,
			errString: "processing mode is required",
		},
		{
			name: "unknown processing mode",
			mutate: func(c *Config) {
				c.Processing.Mode = "batch"
			},
			wantErr:   true,
			errString: "invalid processing mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateAPIConfig()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateWorkerConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid worker config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "rabbitmq always required",
			mutate: func(c *Config) {
				c.RabbitMQ.Queue.Name = ""
			},
			wantErr:   true,
			errString: "rabbitmq queue name is required",
		},
		{
			name: "zero concurrency",
			mutate: func(c *Config) {
				c.Worker.Concurrency = 0
			},
			wantErr:   true,
			errString: "concurrency must be greater than 0",
		},
		{
			name: "zero job timeout",
			mutate: func(c *Config) {
				c.Worker.JobTimeout = 0
			},
			wantErr:   true,
			errString: "job_timeout must be greater than 0",
		},
		{
			name: "zero shutdown timeout",
			mutate: func(c *Config) {
				c.Worker.ShutdownTimeout = 0
			},
			wantErr:   true,
			errString: "shutdown_timeout must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateWorkerConfig()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestStorageConfigHelpers(t *testing.T) {
	cfg := StorageConfig{
		MaxFileSizeMB:     2,
		AllowedExtensions: []string{".mp3", ".WAV"},
	}

	assert.Equal(t, int64(2*1024*1024), cfg.MaxFileSizeBytes())

	assert.True(t, cfg.ExtensionAllowed(".mp3"))
	assert.True(t, cfg.ExtensionAllowed(".MP3"))
	assert.True(t, cfg.ExtensionAllowed(".wav"))
	assert.False(t, cfg.ExtensionAllowed(".exe"))
	assert.False(t, cfg.ExtensionAllowed("mp3"))
	assert.False(t, cfg.ExtensionAllowed(""))
}
